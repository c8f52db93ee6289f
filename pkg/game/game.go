package game

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/cbodonnell/bullseye/pkg/clock"
	"github.com/cbodonnell/bullseye/pkg/game/leaderboard"
	"github.com/cbodonnell/bullseye/pkg/game/sessions"
	"github.com/cbodonnell/bullseye/pkg/game/targets"
	"github.com/cbodonnell/bullseye/pkg/game/types"
	"github.com/cbodonnell/bullseye/pkg/log"
	"github.com/cbodonnell/bullseye/pkg/messages"
	"github.com/cbodonnell/bullseye/pkg/queue"
	"github.com/cbodonnell/bullseye/pkg/workers"
)

type GameManager struct {
	inboundQueue      queue.Queue
	gameState         *types.GameState
	serverMessageChan chan<- workers.ServerMessage
	clock             *clock.Clock
	resolver          *HitResolver
	spawnInterval     time.Duration
	initialTargets    int
	maxTargets        int
	leaderboard       atomic.Pointer[[]leaderboard.Entry]
	done              <-chan struct{}
}

// NewGameManagerOptions contains options for creating a new GameManager.
type NewGameManagerOptions struct {
	// InboundQueue carries connection events and client messages in arrival order
	InboundQueue      queue.Queue
	GameState         *types.GameState
	ServerMessageChan chan<- workers.ServerMessage
	// BestScoreRecorder is optional
	BestScoreRecorder BestScoreRecorder
	TickInterval      time.Duration
	SpawnInterval     time.Duration
	RespawnDelay      time.Duration
	InitialTargets    int
	MaxTargets        int
}

func NewGameManager(opts NewGameManagerOptions) *GameManager {
	gm := &GameManager{
		inboundQueue:      opts.InboundQueue,
		gameState:         opts.GameState,
		serverMessageChan: opts.ServerMessageChan,
		clock:             clock.New(opts.TickInterval),
		spawnInterval:     opts.SpawnInterval,
		initialTargets:    opts.InitialTargets,
		maxTargets:        opts.MaxTargets,
	}
	gm.resolver = NewHitResolver(NewHitResolverOptions{
		GameState:    opts.GameState,
		Recorder:     opts.BestScoreRecorder,
		Scheduler:    gm.clock,
		RespawnDelay: opts.RespawnDelay,
		Respawn:      gm.respawnTarget,
	})
	empty := []leaderboard.Entry{}
	gm.leaderboard.Store(&empty)
	return gm
}

// Start starts the game loop.
func (gm *GameManager) Start(ctx context.Context) error {
	gm.done = ctx.Done()
	if err := gm.initializeGameState(ctx); err != nil {
		return fmt.Errorf("failed to initialize game state: %v", err)
	}
	gm.scheduleTasks()
	defer gm.clock.Stop()

	ticker := time.NewTicker(gm.clock.Tick())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case t := <-ticker.C:
			if err := gm.gameTick(ctx, t); err != nil {
				log.Error("Failed to run game tick: %v", err)
			}
		}
	}
}

// Leaderboard returns the latest published leaderboard. Safe for concurrent use.
func (gm *GameManager) Leaderboard() []leaderboard.Entry {
	entries := *gm.leaderboard.Load()
	out := make([]leaderboard.Entry, len(entries))
	copy(out, entries)
	return out
}

func (gm *GameManager) initializeGameState(_ context.Context) error {
	gm.gameState.WithLock(func(g *types.GameState) {
		for i := 0; i < gm.initialTargets; i++ {
			g.Targets.Spawn()
		}
	})
	log.Info("Spawned %d initial targets", gm.initialTargets)
	return nil
}

// scheduleTasks registers the physics and spawn-check tasks on the simulation clock
func (gm *GameManager) scheduleTasks() {
	gm.clock.Every(gm.clock.Tick(), gm.updateTargets)
	gm.clock.Every(gm.spawnInterval, gm.spawnCheck)
}

// gameTick runs one iteration of the game loop.
func (gm *GameManager) gameTick(_ context.Context, t time.Time) error {
	gm.gameState.SetTimestamp(t.UnixMilli())
	gm.processInbound()
	gm.clock.Advance()
	return nil
}

// processInbound processes all pending connection events and client messages
// in the order they arrived.
func (gm *GameManager) processInbound() {
	pending, err := gm.inboundQueue.ReadAllMessages()
	if err != nil {
		log.Error("Failed to read inbound queue: %v", err)
		return
	}
	for _, item := range pending {
		switch event := item.(type) {
		case *types.ConnectPlayerEvent:
			gm.handleConnectPlayer(event)
		case *types.DisconnectPlayerEvent:
			gm.handleDisconnectPlayer(event)
		case *messages.Message:
			gm.handleClientMessage(event)
		default:
			log.Error("Unhandled inbound item type: %T", event)
		}
	}
}

func (gm *GameManager) handleConnectPlayer(event *types.ConnectPlayerEvent) {
	var snapshot []targets.Target
	var board []leaderboard.Entry
	replaced := false
	gm.gameState.WithLock(func(g *types.GameState) {
		replaced = g.Sessions.Add(sessions.Session{
			ID:        event.ClientID,
			Username:  event.Username,
			BestScore: event.BestScore,
			JoinedAt:  time.Now(),
		})
		snapshot = g.Targets.Snapshot()
		board = g.Leaderboard.TopN()
	})
	if replaced {
		log.Debug("Client %s started a new session as %s", event.ClientID, event.Username)
	} else {
		log.Info("Player %s joined on client %s", event.Username, event.ClientID)
	}

	recipients := []string{event.ClientID}
	gm.publish(recipients, messages.MessageTypeServerInitTargets, &messages.ServerInitTargets{
		Targets: TargetsFromState(snapshot),
	})
	gm.publish(recipients, messages.MessageTypeServerLeaderboard, &messages.ServerLeaderboard{
		Data: LeaderboardFromState(board),
	})
}

func (gm *GameManager) handleDisconnectPlayer(event *types.DisconnectPlayerEvent) {
	var session sessions.Session
	ok := false
	gm.gameState.WithLock(func(g *types.GameState) {
		session, ok = g.Sessions.Get(event.ClientID)
		g.Sessions.Remove(event.ClientID)
	})
	if !ok {
		log.Debug("Disconnect for client %s without a session", event.ClientID)
		return
	}
	log.Info("Player %s left with score %d", session.Username, session.Score)
}

func (gm *GameManager) handleClientMessage(message *messages.Message) {
	switch message.Type {
	case messages.MessageTypeClientHit:
		clientHit := &messages.ClientHit{}
		if err := json.Unmarshal(message.Payload, clientHit); err != nil {
			log.Warn("Discarding malformed hit from client %s: %v", message.ClientID, err)
			return
		}
		gm.handleClientHit(message.ClientID, clientHit)
	case messages.MessageTypeClientGetLeaderboard:
		gm.handleClientGetLeaderboard(message.ClientID)
	case messages.MessageTypeClientGameEnd:
		gameEnd := &messages.ClientGameEnd{}
		if err := json.Unmarshal(message.Payload, gameEnd); err != nil {
			log.Warn("Discarding malformed game end from client %s: %v", message.ClientID, err)
			return
		}
		gm.handleClientGameEnd(message.ClientID, gameEnd)
	default:
		log.Error("Unhandled client message type: %v", message.Type)
	}
}

func (gm *GameManager) handleClientHit(clientID string, hit *messages.ClientHit) {
	result := gm.resolver.ClaimHit(clientID, hit.TargetID)
	switch result.Outcome {
	case HitOutcomeAccepted:
		log.Debug("Player %s hit target %d for %d points", result.Username, hit.TargetID, result.Points)
		recipients, board := gm.recipientsAndLeaderboard()
		gm.publish(recipients, messages.MessageTypeServerTargetHit, &messages.ServerTargetHit{
			TargetID: hit.TargetID,
			Username: result.Username,
			Points:   result.Points,
		})
		gm.leaderboard.Store(&board)
		gm.publish(recipients, messages.MessageTypeServerLeaderboard, &messages.ServerLeaderboard{
			Data: LeaderboardFromState(board),
		})
	case HitOutcomeTargetGone:
		log.Trace("Player %s missed target %d, already gone", result.Username, hit.TargetID)
		gm.publish([]string{clientID}, messages.MessageTypeServerHitRejected, &messages.ServerHitRejected{
			TargetID: hit.TargetID,
		})
	case HitOutcomeUnknownSession:
		log.Debug("Dropping hit from client %s without a session", clientID)
	}
}

func (gm *GameManager) handleClientGetLeaderboard(clientID string) {
	var board []leaderboard.Entry
	ok := false
	gm.gameState.WithLock(func(g *types.GameState) {
		_, ok = g.Sessions.Get(clientID)
		board = g.Leaderboard.TopN()
	})
	if !ok {
		log.Debug("Dropping leaderboard request from client %s without a session", clientID)
		return
	}
	gm.publish([]string{clientID}, messages.MessageTypeServerLeaderboard, &messages.ServerLeaderboard{
		Data: LeaderboardFromState(board),
	})
}

func (gm *GameManager) handleClientGameEnd(clientID string, gameEnd *messages.ClientGameEnd) {
	var session sessions.Session
	ok := false
	gm.gameState.WithLock(func(g *types.GameState) {
		session, ok = g.Sessions.Get(clientID)
	})
	if !ok {
		log.Debug("Dropping game end from client %s without a session", clientID)
		return
	}
	log.Info("Game over for %s: final score %d, game time %.0fs, targets hit %d",
		session.Username, gameEnd.FinalScore, gameEnd.GameTime, gameEnd.TargetsHit)
}

// updateTargets advances the targets by one nominal tick and broadcasts their positions.
func (gm *GameManager) updateTargets() {
	var snapshot []targets.Target
	var recipients []string
	dt := gm.clock.Tick().Seconds()
	gm.gameState.WithLock(func(g *types.GameState) {
		g.Targets.Advance(dt)
		recipients = g.Sessions.IDs()
		if len(recipients) > 0 {
			snapshot = g.Targets.Snapshot()
		}
	})
	gm.publish(recipients, messages.MessageTypeServerUpdateTargets, &messages.ServerUpdateTargets{
		Targets: TargetsFromState(snapshot),
	})
}

// spawnCheck spawns a target if the arena is below its ceiling.
func (gm *GameManager) spawnCheck() {
	gm.spawnTarget(true)
}

// respawnTarget replaces a target that was hit.
func (gm *GameManager) respawnTarget() {
	gm.spawnTarget(false)
}

func (gm *GameManager) spawnTarget(belowCeilingOnly bool) {
	var target targets.Target
	var recipients []string
	spawned := false
	gm.gameState.WithLock(func(g *types.GameState) {
		if belowCeilingOnly && g.Targets.Count() >= gm.maxTargets {
			return
		}
		target = g.Targets.Spawn()
		recipients = g.Sessions.IDs()
		spawned = true
	})
	if !spawned {
		return
	}
	log.Trace("Spawned target %d", target.ID)
	gm.publish(recipients, messages.MessageTypeServerNewTarget, &messages.ServerNewTarget{
		Target: TargetFromState(target),
	})
}

func (gm *GameManager) recipientsAndLeaderboard() ([]string, []leaderboard.Entry) {
	var recipients []string
	var board []leaderboard.Entry
	gm.gameState.WithLock(func(g *types.GameState) {
		recipients = g.Sessions.IDs()
		board = g.Leaderboard.TopN()
	})
	return recipients, board
}

// publish hands a message to the ServerMessageWorker
func (gm *GameManager) publish(recipients []string, t messages.MessageType, msg interface{}) {
	if len(recipients) == 0 {
		return
	}
	select {
	case gm.serverMessageChan <- workers.ServerMessage{Recipients: recipients, Type: t, Message: msg}:
	case <-gm.done:
	}
}
