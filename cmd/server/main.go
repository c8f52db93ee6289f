package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/bullseye/pkg/api"
	authproviders "github.com/cbodonnell/bullseye/pkg/auth/providers"
	"github.com/cbodonnell/bullseye/pkg/config"
	"github.com/cbodonnell/bullseye/pkg/game"
	"github.com/cbodonnell/bullseye/pkg/game/types"
	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/network"
	"github.com/cbodonnell/bullseye/pkg/queue"
	"github.com/cbodonnell/bullseye/pkg/repositories"
	"github.com/cbodonnell/bullseye/pkg/version"
	"github.com/cbodonnell/bullseye/pkg/workers"
	"golang.org/x/sync/errgroup"
)

const (
	serverMessageChannelSize = 1024
	saveBestScoreChannelSize = 256
	shutdownTimeout          = 5 * time.Second
)

func main() {
	cfg, err := config.Load(os.Args[1:], os.Getenv)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting bullseye server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repository, err := repositories.NewRepository(ctx, cfg.Database.URL, cfg.Database.MigrationsDir)
	if err != nil {
		panic(fmt.Sprintf("Failed to create repository: %v", err))
	}
	defer repository.Close(context.Background())

	authProvider, err := newAuthProvider(ctx, cfg.Auth)
	if err != nil {
		panic(fmt.Sprintf("Failed to create auth provider: %v", err))
	}
	log.Info("Using %s auth provider", cfg.Auth.Provider)

	gameState, err := types.NewGameState(types.NewGameStateOptions{
		Targets:         cfg.Game.TargetOptions(),
		LeaderboardSize: cfg.Game.LeaderboardSize,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create game state: %v", err))
	}

	// connection events and client messages share one queue to keep their order
	inboundQueue := queue.NewInMemoryQueue(cfg.Network.QueueSize)
	clientManager := network.NewClientManager()
	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		AuthProvider:  authProvider,
		ClientManager: clientManager,
		MessageQueue:  inboundQueue,
		WSServer: network.NewWSServerOptions{
			OriginPatterns:    cfg.AllowedOrigins,
			ReadLimit:         cfg.Network.ReadLimit,
			WriteTimeout:      cfg.Network.WriteTimeout,
			HeartbeatInterval: cfg.Network.HeartbeatInterval,
			OutboxSize:        cfg.Network.OutboxSize,
			MessagesPerSecond: cfg.Network.MessagesPerSecond,
			MessageBurst:      cfg.Network.MessageBurst,
		},
	})

	connectionEventWorker := workers.NewConnectionEventWorker(workers.NewConnectionEventWorkerOptions{
		ConnectionEventChan: clientManager.GetConnectionEventChan(),
		Repository:          repository,
		ServerEventQueue:    inboundQueue,
	})

	serverMessageChan := make(chan workers.ServerMessage, serverMessageChannelSize)
	serverMessageWorker := workers.NewServerMessageWorker(workers.NewServerMessageWorkerOptions{
		Sender:            networkManager,
		ServerMessageChan: serverMessageChan,
	})

	saveBestScoreChan := make(chan workers.SaveBestScoreRequest, saveBestScoreChannelSize)
	saveBestScoreWorker := workers.NewSaveBestScoreWorker(workers.NewSaveBestScoreWorkerOptions{
		Repository:        repository,
		SaveBestScoreChan: saveBestScoreChan,
		Interval:          cfg.Database.SaveInterval,
	})

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		InboundQueue:      inboundQueue,
		GameState:         gameState,
		ServerMessageChan: serverMessageChan,
		BestScoreRecorder: game.NewChanBestScoreRecorder(saveBestScoreChan),
		TickInterval:      cfg.Game.TickInterval(),
		SpawnInterval:     cfg.Game.SpawnInterval,
		RespawnDelay:      cfg.Game.RespawnDelay,
		InitialTargets:    cfg.Game.InitialTargets,
		MaxTargets:        cfg.Game.MaxTargets,
	})

	var tlsConfig *api.TLSConfig
	if cfg.TLS.Enabled() {
		tlsConfig = &api.TLSConfig{
			CertFile: cfg.TLS.CertFile,
			KeyFile:  cfg.TLS.KeyFile,
		}
	}
	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:             cfg.Port,
		TLS:              tlsConfig,
		AuthProvider:     authProvider,
		Repository:       repository,
		Leaderboard:      gameManager,
		WebSocketHandler: networkManager.WSServer,
		StaticDir:        cfg.StaticDir,
		AllowedOrigins:   cfg.AllowedOrigins,
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		connectionEventWorker.Start(gctx)
		return nil
	})
	g.Go(func() error {
		serverMessageWorker.Start(gctx)
		return nil
	})
	g.Go(func() error {
		saveBestScoreWorker.Start(gctx)
		return nil
	})
	g.Go(func() error {
		log.Info("Starting game manager")
		return gameManager.Start(gctx)
	})
	g.Go(apiServer.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return apiServer.Stop(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server stopped with error: %v", err)
		repository.Close(context.Background())
		os.Exit(1)
	}
	log.Info("Server stopped")
}

func newAuthProvider(ctx context.Context, cfg config.AuthConfig) (authproviders.AuthProvider, error) {
	switch cfg.Provider {
	case config.AuthProviderNone:
		return authproviders.NewNoAuthProvider(), nil
	case config.AuthProviderLocal:
		return authproviders.NewLocalAuthProvider(cfg.TokenTTL), nil
	case config.AuthProviderFirebase:
		return authproviders.NewFirebaseAuthProvider(ctx, cfg.FirebaseProjectID, cfg.FirebaseAPIKey, cfg.FirebaseCredentialsFile)
	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Provider)
	}
}
