package event

import (
	"time"

	"github.com/milk9111/platformer/ecs"
)

const (
	HealthChanged = "health:changed"
	EntityDied    = "entity:died"

	PlayerJump = "player:jump"
	PlayerDash = "player:dash"

	PowerUpAcquired = "powerup:acquired"
	ComboIncrement  = "combo:increment"
	ComboEnded      = "combo:ended"

	ParticleSpawn     = "particle:spawn"
	ParticleExplosion = "particle:explosion"
	ParticleTrail     = "particle:trail"

	ProjectileFire = "projectile:fire"
	PlayerHit      = "player:hit"

	BossSpawned  = "boss:spawned"
	BossPhase    = "boss:phase"
	BossDefeated = "boss:defeated"

	SFXPlay = "sfx:play"

	CameraShake = "camera:shake"
	CameraFlash = "camera:flash"

	CoinCollected = "coin:collected"
	ScoreChanged  = "score:changed"
	LevelComplete = "level:complete"
	GameOver      = "game:over"
)

// Jump kinds carried by Jumped.
const (
	JumpNormal = "normal"
	JumpWall   = "wall"
	JumpDouble = "double"
)

// HealthChange carries the health of an entity after a change. Entity is
// zero for components not attached to a managed entity.
type HealthChange struct {
	Entity  ecs.EntityID
	Current float64
	Max     float64
}

type Died struct {
	Entity ecs.EntityID
}

type Jumped struct {
	Type string
}

type Dashed struct {
	Direction int
}

type PowerUp struct {
	Type string
}

type Combo struct {
	Combo int
}

// Particles requests cosmetic particles. Zero fields take the particle
// system defaults.
type Particles struct {
	X, Y      float64
	Color     uint32
	Count     int
	VelocityX float64
	VelocityY float64
	Spread    bool
	Trail     bool
	Speed     float64
}

// Shot fires an enemy projectile from X, Y. Zero Color and Life take the
// projectile defaults.
type Shot struct {
	X, Y   float64
	VX, VY float64
	Color  uint32
	Life   time.Duration
}

// Boss identifies the boss and where it is. Phase is 1-based and only set
// on boss:phase.
type Boss struct {
	Entity ecs.EntityID
	X, Y   float64
	Phase  int
	Name   string
}

// Hit is contact damage to the player from something at X.
type Hit struct {
	X float64
}

type Sound struct {
	Type string
}

type Shake struct {
	Intensity float64
	Duration  time.Duration
}

type Flash struct {
	Color    uint32
	Duration time.Duration
}

type Coin struct {
	Value int
}

type Score struct {
	Score int
	Delta int
}

type Level struct {
	ID    int
	Score int
}
