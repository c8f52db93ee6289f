package types

import (
	"fmt"
	"sync"

	"github.com/cbodonnell/bullseye/pkg/game/leaderboard"
	"github.com/cbodonnell/bullseye/pkg/game/sessions"
	"github.com/cbodonnell/bullseye/pkg/game/targets"
)

// GameState aggregates the stores the game loop mutates. Every read or write
// of the stores goes through WithLock.
type GameState struct {
	mu sync.Mutex
	// Timestamp is the time of the last tick, in unix milliseconds
	Timestamp   int64
	Targets     *targets.Store
	Sessions    *sessions.Registry
	Leaderboard *leaderboard.Leaderboard
}

type NewGameStateOptions struct {
	Targets         targets.Options
	LeaderboardSize int
}

func NewGameState(opts NewGameStateOptions) (*GameState, error) {
	store, err := targets.NewStore(opts.Targets)
	if err != nil {
		return nil, fmt.Errorf("failed to create target store: %v", err)
	}
	return &GameState{
		Targets:     store,
		Sessions:    sessions.NewRegistry(),
		Leaderboard: leaderboard.New(opts.LeaderboardSize),
	}, nil
}

// WithLock runs fn with exclusive access to the game state.
func (g *GameState) WithLock(fn func(g *GameState)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(g)
}

func (g *GameState) SetTimestamp(timestamp int64) {
	g.WithLock(func(g *GameState) {
		g.Timestamp = timestamp
	})
}
