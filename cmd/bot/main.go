package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/bullseye/pkg/client/network"
	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/version"
	"golang.org/x/sync/errgroup"
)

func main() {
	addr := flag.String("addr", "ws://localhost:3000/ws", "WebSocket address of the game server")
	bots := flag.Int("bots", 4, "Number of bots")
	hitInterval := flag.Duration("hit-interval", 500*time.Millisecond, "Time between hits of each bot")
	duration := flag.Duration("duration", 30*time.Second, "How long the bots play; zero plays until interrupted")
	token := flag.String("token", "", "Login token, when the server verifies identities")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Starting %d bots version %s against %s", *bots, version.Get(), *addr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < *bots; i++ {
		username := fmt.Sprintf("bot-%d", i+1)
		seed := time.Now().UnixNano() + int64(i)
		g.Go(func() error {
			return runBot(gctx, *addr, username, *token, *hitInterval, rand.New(rand.NewSource(seed)))
		})
	}
	if err := g.Wait(); err != nil {
		log.Error("Bots stopped: %v", err)
		os.Exit(1)
	}
}

func runBot(ctx context.Context, addr, username, token string, hitInterval time.Duration, r *rand.Rand) error {
	client := network.NewWSClient(addr, username, network.NewTargetTracker())
	if err := client.Connect(ctx); err != nil {
		return fmt.Errorf("%s: %v", username, err)
	}
	defer client.Close()

	if _, err := client.Login(token, 5*time.Second); err != nil {
		return fmt.Errorf("%s: %v", username, err)
	}
	log.Info("%s logged in", client.Username())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return client.HandleMessages(gctx)
	})
	g.Go(func() error {
		return shoot(gctx, client, hitInterval, r)
	})
	err := g.Wait()

	score, hits, rejected := client.Stats()
	log.Info("%s finished with score %d, %d hits, %d rejected", client.Username(), score, hits, rejected)
	return err
}

// shoot claims a random known target every hitInterval.
func shoot(ctx context.Context, client *network.WSClient, hitInterval time.Duration, r *rand.Rand) error {
	ticker := time.NewTicker(hitInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			target, ok := client.Targets().Random(r)
			if !ok {
				continue
			}
			if err := client.Hit(target.ID); err != nil {
				return err
			}
		}
	}
}
