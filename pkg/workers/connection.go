package workers

import (
	"context"
	"time"

	gametypes "github.com/cbodonnell/bullseye/pkg/game/types"
	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/network"
	"github.com/cbodonnell/bullseye/pkg/queue"
	"github.com/cbodonnell/bullseye/pkg/repositories"
)

// repositoryTimeout bounds account lookups made while a player joins
const repositoryTimeout = 5 * time.Second

type ConnectionEventWorker struct {
	connectionEventChan <-chan network.ConnectionEvent
	repository          repositories.Repository
	serverEventQueue    queue.Queue
}

type NewConnectionEventWorkerOptions struct {
	ConnectionEventChan <-chan network.ConnectionEvent
	Repository          repositories.Repository
	ServerEventQueue    queue.Queue
}

// NewConnectionEventWorker creates a new ConnectionEventWorker.
// The worker processes client events like connect and disconnect
// and writes server events to a queue for the game loop to process.
func NewConnectionEventWorker(opts NewConnectionEventWorkerOptions) *ConnectionEventWorker {
	return &ConnectionEventWorker{
		connectionEventChan: opts.ConnectionEventChan,
		repository:          opts.Repository,
		serverEventQueue:    opts.ServerEventQueue,
	}
}

func (w *ConnectionEventWorker) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.connectionEventChan:
			switch event.Type {
			case network.ConnectionEventTypeConnect:
				w.handleClientConnect(ctx, event)
			case network.ConnectionEventTypeDisconnect:
				w.handleClientDisconnect(event)
			default:
				log.Error("Unknown client event type: %v", event.Type)
			}
		}
	}
}

// handleClientConnect counts the game for the player's account and loads its
// best score. Players without an account join with a best score of zero.
func (w *ConnectionEventWorker) handleClientConnect(ctx context.Context, event network.ConnectionEvent) {
	data, ok := event.Data.(network.ClientConnectData)
	if !ok {
		log.Error("Failed to cast client connect data")
		return
	}

	ctx, cancel := context.WithTimeout(ctx, repositoryTimeout)
	defer cancel()

	bestScore := 0
	if err := w.repository.RecordGamePlayed(ctx, data.Username); err != nil {
		if !repositories.IsNotFound(err) {
			log.Error("Failed to record game played for %s: %v", data.Username, err)
		}
	}
	if score, err := w.repository.BestScore(ctx, data.Username); err == nil {
		bestScore = score
	} else if !repositories.IsNotFound(err) {
		log.Error("Failed to get best score for %s: %v", data.Username, err)
	} else {
		log.Debug("Player %s has no account, joining as a guest", data.Username)
	}

	if err := w.serverEventQueue.Enqueue(&gametypes.ConnectPlayerEvent{
		ClientID:  event.ClientID,
		Username:  data.Username,
		BestScore: bestScore,
	}); err != nil {
		log.Error("Failed to enqueue connect player event: %v", err)
	}
}

func (w *ConnectionEventWorker) handleClientDisconnect(event network.ConnectionEvent) {
	if err := w.serverEventQueue.Enqueue(&gametypes.DisconnectPlayerEvent{
		ClientID: event.ClientID,
	}); err != nil {
		log.Error("Failed to enqueue disconnect player event: %v", err)
	}
}
