package game

import (
	"github.com/cbodonnell/bullseye/pkg/game/leaderboard"
	"github.com/cbodonnell/bullseye/pkg/game/targets"
	"github.com/cbodonnell/bullseye/pkg/messages"
)

func TargetFromState(t targets.Target) messages.Target {
	return messages.Target{
		ID:     t.ID,
		X:      t.Position.X,
		Y:      t.Position.Y,
		VX:     t.Velocity.X,
		VY:     t.Velocity.Y,
		Radius: t.Radius,
		Color:  t.Color,
	}
}

func TargetsFromState(ts []targets.Target) []messages.Target {
	out := make([]messages.Target, len(ts))
	for i, t := range ts {
		out[i] = TargetFromState(t)
	}
	return out
}

func LeaderboardFromState(entries []leaderboard.Entry) []messages.LeaderboardEntry {
	out := make([]messages.LeaderboardEntry, len(entries))
	for i, e := range entries {
		out[i] = messages.LeaderboardEntry{
			Username: e.Username,
			Score:    e.Score,
		}
	}
	return out
}
