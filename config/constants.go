package config

import "time"

// Game World Defaults
// Positions and speeds are in grid cell units; the client scales by the
// level's cell size for rendering.
const (
	GameTickInterval = 100 * time.Millisecond // game state update interval (10 ticks per second)

	DefaultAOIRadius   = 12.0 // area-of-interest half-extent around a player
	DefaultPlayerSpeed = 4.0  // cells per second
	DefaultGuardSpeed  = 3.0

	DefaultDetectionRange = 6.0  // hostile guards acquire players inside this range
	DefaultContactDamage  = 20.0 // life lost per tick of guard contact
	DefaultRespawnDelay   = 8 * time.Second

	EntityBaseMaxLife = 100.0
)

// Guard wander tuning.
const (
	WanderAttempts     = 30  // tries to find a walkable wander target
	RandomSpawnRetries = 200 // tries to find a random walkable spawn
)
