// Package entity assembles the game's entities from prefab specs and level
// data.
package entity

import (
	"fmt"
	"math/rand/v2"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/obj"
	"github.com/milk9111/platformer/prefabs"
)

const (
	TagPlayer = "player"
	TagEnemy  = "enemy"
	TagPickup = "pickup"
	TagBoss   = "boss"
)

const (
	coinSize    = 24
	powerUpSize = 30
	exitWidth   = 60
	exitHeight  = 100
	pickupDepth = 20
	exitDepth   = 10
	platformRGB = 0x795548
	exitColor   = 0x00BCD4
)

var powerUpColors = map[string]uint32{
	component.PowerUpDoubleJump: 0xFFD700,
	component.PowerUpDash:       0x2196F3,
	component.PowerUpSpeedBoost: 0xFF9800,
	component.PowerUpShield:     0x4CAF50,
	component.PickupHealth:      0xF44336,
}

// Spawner creates entities in one level's manager and collision world.
type Spawner struct {
	Manager *ecs.EntityManager
	Bus     *event.Bus
	World   *obj.CollisionWorld
	Rand    *rand.Rand
	Input   component.InputSource

	Player  prefabs.PlayerSpec
	Enemies prefabs.EnemiesSpec
	Boss    prefabs.BossSpec
}

func (s *Spawner) body(x, y float64, spec prefabs.BodySpec) component.Body {
	if s.World == nil {
		return &component.PointBody{X: x, Y: y}
	}
	return s.World.AddBody(x, y, spec)
}

func (s *Spawner) sprite(spec prefabs.BodySpec) *component.Sprite {
	return component.NewSprite(spec.Width, spec.Height, uint32(spec.Color), spec.Depth)
}

// PlayerConfig maps the yaml tuning onto the movement controller.
func PlayerConfig(spec prefabs.PlayerSpec) component.PlayerConfig {
	return component.PlayerConfig{
		Speed:            spec.Speed,
		SpeedBoostFactor: spec.SpeedBoostFactor,
		JumpPower:        spec.JumpPower,
		WallJump:         spec.WallJump,
		WallSlideSpeed:   spec.WallSlideSpeed,
		WallJumpPush:     spec.WallJumpPush,
		DashSpeed:        spec.DashSpeed,
		DashDuration:     spec.DashDuration,
		DashCooldown:     spec.DashCooldown,
		DashBrakeDrag:    spec.DashBrakeDrag,
		DashBrakeTime:    spec.DashBrakeTime,
		CoyoteTime:       spec.CoyoteTime,
		JumpBuffer:       spec.JumpBuffer,
		ComboWindow:      spec.ComboWindow,
	}
}

// NewPlayer spawns the player at x, y with the given power-ups already owned.
func (s *Spawner) NewPlayer(x, y float64, powerUps ...string) (*ecs.Entity, error) {
	spec := s.Player
	player := component.NewPlayer(s.Bus, PlayerConfig(spec), s.Rand)

	e := s.Manager.CreateEntity(x, y).
		AddTag(TagPlayer).
		AddComponent(component.NewPhysics(s.body(x, y, spec.Body))).
		AddComponent(s.sprite(spec.Body)).
		AddComponent(component.NewInput(s.Input)).
		AddComponent(component.NewHealth(s.Bus, spec.Health)).
		AddComponent(player)

	if err := e.Init(); err != nil {
		s.Manager.DestroyEntity(e)
		return nil, fmt.Errorf("player: init: %w", err)
	}
	for _, name := range powerUps {
		if !player.AddPowerUp(name) {
			return e, fmt.Errorf("player: unknown power-up %q", name)
		}
	}
	return e, nil
}

// NewEnemy spawns an enemy of typ as tuned in enemies.yaml.
func (s *Spawner) NewEnemy(typ string, x, y float64) (*ecs.Entity, error) {
	spec, ok := s.Enemies.Find(typ)
	if !ok {
		return nil, fmt.Errorf("enemy: unknown type %q", typ)
	}

	enemy := component.NewEnemy(spec.Type, spec.Script)
	enemy.Speed = spec.Speed
	enemy.JumpPower = spec.JumpPower
	enemy.ActionDelay = spec.ActionDelay
	enemy.Score = spec.Score

	e := s.Manager.CreateEntity(x, y).
		AddTag(TagEnemy).
		AddComponent(component.NewPhysics(s.body(x, y, spec.Body))).
		AddComponent(s.sprite(spec.Body)).
		AddComponent(component.NewHealth(s.Bus, spec.Health)).
		AddComponent(enemy)

	if err := e.Init(); err != nil {
		s.Manager.DestroyEntity(e)
		return nil, fmt.Errorf("enemy %s: init: %w", typ, err)
	}
	return e, nil
}

// RetuneBoss copies the yaml tuning onto a live boss. Phase progress and the
// running attack are kept.
func RetuneBoss(boss *component.Boss, spec prefabs.BossSpec) {
	phases := make([]component.BossPhase, 0, len(spec.Phases))
	for _, p := range spec.Phases {
		phases = append(phases, component.BossPhase{
			Name:       p.Name,
			HPTrigger:  p.HPTrigger,
			Color:      uint32(p.Color),
			Attacks:    p.Attacks,
			Shake:      p.Shake,
			ShakeFor:   p.ShakeFor,
			BurstColor: uint32(p.BurstColor),
			BurstCount: p.BurstCount,
			BurstSpeed: p.BurstSpeed,
		})
	}
	boss.Phases = phases
	boss.Phase = min(boss.Phase, max(len(phases)-1, 0))
	boss.Score = spec.Score
	boss.AttackInterval = spec.AttackInterval
	boss.MoveInterval = spec.MoveInterval
	boss.MoveSpeed = spec.MoveSpeed
	boss.FollowDistance = spec.FollowDistance
	boss.ShotColor = uint32(spec.ShotColor)
	boss.ShotLife = spec.ShotLife
}

// NewBoss spawns the boss as tuned in boss.yaml. It is tagged as an enemy
// too so contact damage and stomps apply.
func (s *Spawner) NewBoss(x, y float64) (*ecs.Entity, error) {
	if len(s.Boss.Phases) == 0 {
		return nil, fmt.Errorf("boss: no phases")
	}
	boss := component.NewBoss(nil)
	RetuneBoss(boss, s.Boss)

	e := s.Manager.CreateEntity(x, y).
		AddTag(TagEnemy).
		AddTag(TagBoss).
		AddComponent(component.NewPhysics(s.body(x, y, s.Boss.Body))).
		AddComponent(s.sprite(s.Boss.Body)).
		AddComponent(component.NewHealth(s.Bus, s.Boss.Health)).
		AddComponent(boss)

	if err := e.Init(); err != nil {
		s.Manager.DestroyEntity(e)
		return nil, fmt.Errorf("boss: init: %w", err)
	}
	return e, nil
}

// NewCoin spawns a floating coin. A zero value uses the game's coin score.
func (s *Spawner) NewCoin(x, y float64, value int) *ecs.Entity {
	sprite := component.NewSprite(coinSize, coinSize, 0xFFD700, pickupDepth)
	sprite.Shape = component.ShapeCircle
	return s.pickup(x, y, sprite, component.NewPickup(component.PickupCoin, value))
}

// NewPowerUp spawns a power-up or, for "health", a one-point heal.
func (s *Spawner) NewPowerUp(typ string, x, y float64) *ecs.Entity {
	color, ok := powerUpColors[typ]
	if !ok {
		color = powerUpColors[component.PowerUpDoubleJump]
	}
	sprite := component.NewSprite(powerUpSize, powerUpSize, color, pickupDepth)
	sprite.Shape = component.ShapeCircle

	pickup := component.NewPickup(typ, 0)
	if typ == component.PickupHealth {
		pickup.Value = 1
	}
	return s.pickup(x, y, sprite, pickup)
}

// NewExit spawns the level exit door.
func (s *Spawner) NewExit(x, y float64) *ecs.Entity {
	sprite := component.NewSprite(exitWidth, exitHeight, exitColor, exitDepth)
	return s.pickup(x, y, sprite, component.NewPickup(component.PickupExit, 0))
}

func (s *Spawner) pickup(x, y float64, sprite *component.Sprite, pickup *component.Pickup) *ecs.Entity {
	return s.Manager.CreateEntity(x, y).
		AddTag(TagPickup).
		AddComponent(sprite).
		AddComponent(pickup)
}

// Platform is a static box drawn by the renderer.
type Platform struct {
	X, Y, Width, Height float64
	Color               uint32
}

// Bounds returns the platform rectangle.
func (p Platform) Bounds() (x, y, w, h float64) {
	return p.X - p.Width/2, p.Y - p.Height/2, p.Width, p.Height
}

// Spawned is what SpawnLevel built.
type Spawned struct {
	Player    *ecs.Entity
	Platforms []Platform
	Enemies   []*ecs.Entity
}

// SpawnLevel builds platforms, the player, enemies, power-ups, coins and the
// exit for lvl. Unknown enemy types fail the whole level. A level's boss is
// left to NewBoss once its spawn delay has passed.
func (s *Spawner) SpawnLevel(lvl *levels.Level, powerUps ...string) (*Spawned, error) {
	if lvl == nil {
		return nil, fmt.Errorf("spawn level: nil level")
	}

	out := &Spawned{}
	for _, p := range lvl.Platforms {
		s.World.AddPlatform(p.X, p.Y, p.Width, p.Height)
		out.Platforms = append(out.Platforms, Platform{X: p.X, Y: p.Y, Width: p.Width, Height: p.Height, Color: platformRGB})
	}

	player, err := s.NewPlayer(lvl.PlayerStart.X, lvl.PlayerStart.Y, powerUps...)
	if err != nil {
		return nil, fmt.Errorf("level %d: %w", lvl.ID, err)
	}
	out.Player = player

	for _, spawn := range lvl.Enemies {
		e, err := s.NewEnemy(spawn.Type, spawn.X, spawn.Y)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", lvl.ID, err)
		}
		out.Enemies = append(out.Enemies, e)
	}
	for _, spawn := range lvl.PowerUps {
		s.NewPowerUp(spawn.Type, spawn.X, spawn.Y)
	}
	for _, c := range lvl.Coins {
		s.NewCoin(c.X, c.Y, 0)
	}
	s.NewExit(lvl.Exit.X, lvl.Exit.Y)

	return out, nil
}
