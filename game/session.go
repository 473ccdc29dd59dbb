// Package game runs one level at a time: it builds the collision world,
// the entity manager and the systems for a level and steps them together.
// Nothing here opens a window, so a whole level can run in a test.
package game

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"path"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/event"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/obj"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/save"
	"github.com/milk9111/platformer/system"
)

// Specs bundles the yaml tuning a level is built from.
type Specs struct {
	Player  prefabs.PlayerSpec
	Enemies prefabs.EnemiesSpec
	Boss    prefabs.BossSpec
	Game    prefabs.GameSpec
}

func DefaultSpecs() Specs {
	return Specs{
		Player: prefabs.DefaultPlayerSpec(),
		Boss:   prefabs.DefaultBossSpec(),
		Game:   prefabs.DefaultGameSpec(),
	}
}

// LoadSpecs reads every prefab. A prefab that fails to load keeps its
// defaults and its error is joined into the result.
func LoadSpecs() (Specs, error) {
	var errs []error
	player, err := prefabs.LoadPlayerSpec()
	errs = append(errs, err)
	enemies, err := prefabs.LoadEnemiesSpec()
	errs = append(errs, err)
	boss, err := prefabs.LoadBossSpec()
	errs = append(errs, err)
	gameSpec, err := prefabs.LoadGameSpec()
	errs = append(errs, err)
	return Specs{Player: player, Enemies: enemies, Boss: boss, Game: gameSpec}, errors.Join(errs...)
}

// Options are shared by every session of one game.
type Options struct {
	Log   *zap.Logger
	Bus   *event.Bus
	Saves *save.Manager
	Input component.InputSource
	Rand  *rand.Rand

	ScreenW, ScreenH int
	// PowerUps are granted to the player at the start of every level.
	PowerUps []string
}

// Session is one level in play.
type Session struct {
	log *zap.Logger

	Level     *levels.Level
	Bus       *event.Bus
	Manager   *ecs.EntityManager
	World     *obj.CollisionWorld
	Player    *ecs.Entity
	Platforms []entity.Platform
	Score     *system.Scoreboard
	StartedAt int

	AI          *system.EnemyAI
	Boss        *system.Boss
	Projectiles *system.Projectiles
	Combat      *system.Combat
	Pickups     *system.Pickups
	Camera      *system.Camera
	Particles   *system.Particles
	Progress    *system.Progress

	Elapsed time.Duration
}

// NewSession builds lvl. score is carried over from earlier levels.
func NewSession(opts Options, specs Specs, lvl *levels.Level, score int) (*Session, error) {
	if lvl == nil {
		return nil, errors.New("game: nil level")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus(log)
	}
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), uint64(lvl.ID)))
	}
	saves := opts.Saves
	if saves == nil {
		saves = save.NewManager(save.NewMemoryStore(), log)
	}

	s := &Session{
		log:       log.With(zap.Int("level", lvl.ID)),
		Level:     lvl,
		Bus:       bus,
		Manager:   ecs.NewEntityManager(log),
		World:     obj.NewCollisionWorld(specs.Game.Gravity, lvl.Width, lvl.Height),
		Score:     system.NewScoreboard(bus, lvl.ID),
		StartedAt: score,
	}
	s.Score.Carry(score)
	s.Score.TotalCoins = len(lvl.Coins)

	spawner := &entity.Spawner{
		Manager: s.Manager,
		Bus:     bus,
		World:   s.World,
		Rand:    rng,
		Input:   opts.Input,
		Player:  specs.Player,
		Enemies: specs.Enemies,
		Boss:    specs.Boss,
	}
	spawned, err := spawner.SpawnLevel(lvl, opts.PowerUps...)
	if err != nil {
		s.Manager.Destroy()
		return nil, fmt.Errorf("game: build level %d: %w", lvl.ID, err)
	}
	s.Player = spawned.Player
	s.Platforms = spawned.Platforms

	s.AI = system.NewEnemyAI(log, bus, rng)
	s.Boss = system.NewBoss(log, bus, rng)
	s.Projectiles = system.NewProjectiles(bus)
	s.Combat = system.NewCombat(log, bus, s.Manager, s.Score, specs.Game, specs.Player.HitInvulnerable)
	s.Pickups = system.NewPickups(log, bus, s.Manager, s.Score, specs.Game)
	s.Particles = system.NewParticles(bus, rng, specs.Game)
	s.Camera = system.NewCamera(bus, rng, opts.ScreenW, opts.ScreenH)
	s.Camera.SetSmooth(specs.Game.CameraSmoothing)
	s.Camera.SetShakeDuration(specs.Game.ShakeDuration)
	s.Camera.SetWorldBounds(lvl.Width, lvl.Height)
	s.Camera.SnapTo(lvl.PlayerStart.X, lvl.PlayerStart.Y)
	s.Progress = system.NewProgress(log, bus, saves)

	if lvl.HasBoss && lvl.BossPosition != nil {
		at := *lvl.BossPosition
		s.Boss.Schedule(specs.Boss.SpawnDelay, func() (*ecs.Entity, error) {
			return spawner.NewBoss(at.X, at.Y)
		})
		s.Pickups.LockExit(s.Boss.Blocking)
	}

	for _, sys := range []ecs.System{s.AI, s.Boss, s.Projectiles, s.Combat, s.Pickups, s.Camera, s.Particles, s.Progress} {
		s.Manager.AddSystem(sys)
	}

	s.log.Info("level started",
		zap.String("name", lvl.Name),
		zap.Int("enemies", len(spawned.Enemies)),
		zap.Bool("boss", lvl.HasBoss),
		zap.Int("coins", len(lvl.Coins)),
		zap.Int("score", score),
	)
	return s, nil
}

// Update steps physics, then every system and entity.
func (s *Session) Update(dt time.Duration) {
	if s == nil || dt <= 0 {
		return
	}
	s.Elapsed += dt
	s.World.Step(dt)
	s.Manager.Update(dt)
}

// Ready reports the level outcome once its end delay has passed.
func (s *Session) Ready() (system.Outcome, event.Level, bool) {
	return s.Progress.Ready()
}

// PlayerState returns the player's controller and health, if the player
// still exists.
func (s *Session) PlayerState() (*component.Player, *component.Health, bool) {
	if s == nil || s.Player == nil || s.Player.Manager() == nil {
		return nil, nil, false
	}
	player, okPlayer := ecs.Get(s.Player, component.PlayerKind)
	health, okHealth := ecs.Get(s.Player, component.HealthKind)
	return player, health, okPlayer && okHealth
}

// Reload applies edited prefabs to the running level. Scripts recompile on
// the next frame; yaml changes retune the live player and enemies.
func (s *Session) Reload(specs Specs, names []string) {
	for _, name := range names {
		switch {
		case strings.HasSuffix(name, ".tengo"):
			s.AI.Reload(name)
		case path.Base(name) == "player.yaml":
			if player, _, ok := s.PlayerState(); ok {
				player.Config = entity.PlayerConfig(specs.Player)
			}
		case path.Base(name) == "enemies.yaml":
			s.retuneEnemies(specs.Enemies)
		case path.Base(name) == "boss.yaml":
			if e, ok := s.Boss.Entity(); ok {
				if boss, ok := ecs.Get(e, component.BossKind); ok {
					entity.RetuneBoss(boss, specs.Boss)
				}
			}
		case path.Base(name) == "game.yaml":
			s.Camera.SetSmooth(specs.Game.CameraSmoothing)
			s.Camera.SetShakeDuration(specs.Game.ShakeDuration)
		default:
			continue
		}
		s.log.Info("prefab reloaded", zap.String("name", name))
	}
}

func (s *Session) retuneEnemies(spec prefabs.EnemiesSpec) {
	for _, e := range s.Manager.GetEntitiesByTag(entity.TagEnemy) {
		enemy, ok := ecs.Get(e, component.EnemyKind)
		if !ok {
			continue
		}
		tuned, ok := spec.Find(enemy.Type)
		if !ok {
			continue
		}
		enemy.Speed = tuned.Speed
		enemy.JumpPower = tuned.JumpPower
		enemy.ActionDelay = tuned.ActionDelay
		enemy.Score = tuned.Score
		enemy.Script = tuned.Script
	}
}

// Close tears the level down and drops every bus subscription it made.
func (s *Session) Close() {
	if s == nil {
		return
	}
	s.Manager.Destroy()
}
