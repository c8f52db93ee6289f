package constants

import "time"

const (
	// ArenaWidth is the width of the arena
	ArenaWidth float64 = 800.0
	// ArenaHeight is the height of the arena
	ArenaHeight float64 = 600.0
	// ArenaSpawnMargin is the distance from the arena edge where spawn positions are drawn
	ArenaSpawnMargin float64 = 50.0

	// InitialTargets is the number of targets spawned at startup
	InitialTargets int = 5
	// MaxTargets is the live target ceiling for the periodic spawner
	MaxTargets int = 8
	// TargetMinRadius is the smallest target radius
	TargetMinRadius float64 = 20.0
	// TargetMaxRadius is the (exclusive) largest target radius
	TargetMaxRadius float64 = 50.0
	// TargetMaxSpeed is the largest velocity component, in arena units per second
	TargetMaxSpeed float64 = 60.0
	// TargetSpawnAttempts is how many placements are tried before accepting an overlap
	TargetSpawnAttempts int = 8

	// PointsNumerator is divided by the target radius to score a hit
	PointsNumerator float64 = 100.0

	// TickRate is the number of physics ticks per second
	TickRate int = 30
	// SpawnInterval is the time between spawn checks
	SpawnInterval time.Duration = 2 * time.Second
	// RespawnDelay is the time between a hit and its replacement spawn
	RespawnDelay time.Duration = 1 * time.Second

	// LeaderboardSize is the number of ranked entries kept
	LeaderboardSize int = 10

	// UsernameMinLength is the shortest accepted username
	UsernameMinLength int = 2
	// UsernameMaxLength is the longest accepted username
	UsernameMaxLength int = 20
	// PasswordMinLength is the shortest accepted password
	PasswordMinLength int = 4
	// PasswordMaxLength is the longest accepted password
	PasswordMaxLength int = 16
)
