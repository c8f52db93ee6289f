package game

import (
	"math"
	"time"

	"github.com/cbodonnell/bullseye/pkg/clock"
	"github.com/cbodonnell/bullseye/pkg/game/constants"
	"github.com/cbodonnell/bullseye/pkg/game/targets"
	"github.com/cbodonnell/bullseye/pkg/game/types"
)

type HitOutcome int

const (
	// HitOutcomeAccepted means the claim won the target
	HitOutcomeAccepted HitOutcome = iota
	// HitOutcomeTargetGone means the target was no longer live
	HitOutcomeTargetGone
	// HitOutcomeUnknownSession means the claimant has no session
	HitOutcomeUnknownSession
)

func (o HitOutcome) String() string {
	switch o {
	case HitOutcomeAccepted:
		return "accepted"
	case HitOutcomeTargetGone:
		return "target-gone"
	case HitOutcomeUnknownSession:
		return "unknown-session"
	default:
		return "unknown"
	}
}

type HitResult struct {
	Outcome HitOutcome
	// Points awarded, zero unless accepted
	Points int
	// Score is the claimant's running score after the claim
	Score    int
	Username string
	// Target is the removed target when accepted
	Target targets.Target
}

func (r HitResult) Accepted() bool {
	return r.Outcome == HitOutcomeAccepted
}

// Points returns the score for hitting a target of the given radius.
// Smaller targets are worth more.
func Points(radius float64) int {
	if radius <= 0 {
		return 0
	}
	return int(math.Floor(constants.PointsNumerator / radius))
}

// BestScoreRecorder persists account best scores. It must not block.
type BestScoreRecorder interface {
	RecordBestScore(username string, score int)
}

// Scheduler runs a function once after a delay.
type Scheduler interface {
	After(delay time.Duration, fn func()) *clock.Handle
}

// HitResolver decides hit claims. The first claim processed for a live target
// wins it; later claims for the same target find it gone.
type HitResolver struct {
	gameState    *types.GameState
	recorder     BestScoreRecorder
	scheduler    Scheduler
	respawnDelay time.Duration
	respawn      func()
}

type NewHitResolverOptions struct {
	GameState *types.GameState
	// Recorder is optional
	Recorder     BestScoreRecorder
	Scheduler    Scheduler
	RespawnDelay time.Duration
	// Respawn is scheduled after every accepted claim
	Respawn func()
}

func NewHitResolver(opts NewHitResolverOptions) *HitResolver {
	return &HitResolver{
		gameState:    opts.GameState,
		recorder:     opts.Recorder,
		scheduler:    opts.Scheduler,
		respawnDelay: opts.RespawnDelay,
		respawn:      opts.Respawn,
	}
}

// ClaimHit resolves a claim by a session on a target. Removing the target,
// crediting the session and reporting to the leaderboard happen under one
// game state lock.
func (r *HitResolver) ClaimHit(sessionID string, targetID uint64) HitResult {
	result := HitResult{}
	recordBest := false

	r.gameState.WithLock(func(g *types.GameState) {
		session, ok := g.Sessions.Get(sessionID)
		if !ok {
			result.Outcome = HitOutcomeUnknownSession
			return
		}
		result.Username = session.Username
		result.Score = session.Score

		target, ok := g.Targets.Get(targetID)
		if !ok {
			result.Outcome = HitOutcomeTargetGone
			return
		}

		points := Points(target.Radius)
		g.Targets.Remove(targetID)
		session, _ = g.Sessions.AddScore(sessionID, points)
		g.Leaderboard.Report(session.Username, session.Score)
		if session.Score > session.BestScore {
			g.Sessions.SetBestScore(sessionID, session.Score)
			recordBest = true
		}

		result.Outcome = HitOutcomeAccepted
		result.Points = points
		result.Score = session.Score
		result.Target = target
	})

	if !result.Accepted() {
		return result
	}

	if recordBest && r.recorder != nil {
		r.recorder.RecordBestScore(result.Username, result.Score)
	}
	if r.scheduler != nil && r.respawn != nil {
		r.scheduler.After(r.respawnDelay, r.respawn)
	}

	return result
}
