package system

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"go.uber.org/zap"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
	"github.com/milk9111/platformer/prefabs"
)

const enemyDispatchScript = `
update(__engine, __state)
`

const trailChance = 0.05

// enemyScript is one enemy's compiled script and the state map it keeps
// between frames.
type enemyScript struct {
	script   string
	compiled *tengo.Compiled
	state    *tengo.Map
	failed   bool
}

// EnemyAI runs each enemy's tengo script once per frame. Scripts are
// compiled once per name and cloned per enemy so globals never leak
// between enemies.
type EnemyAI struct {
	ecs.BaseSystem

	log *zap.Logger
	bus *event.Bus
	rng *rand.Rand

	filter   func(*ecs.Entity) bool
	compiled map[string]*tengo.Compiled
	runtimes map[ecs.EntityID]*enemyScript
	seen     map[ecs.EntityID]bool

	player *ecs.Entity
	dt     float64
}

func NewEnemyAI(log *zap.Logger, bus *event.Bus, rng *rand.Rand) *EnemyAI {
	if log == nil {
		log = zap.NewNop()
	}
	return &EnemyAI{
		log:      log.Named("ai"),
		bus:      bus,
		rng:      seeded(rng),
		filter:   ecs.Requires(component.EnemyKind.ID(), component.PhysicsKind.ID()),
		compiled: make(map[string]*tengo.Compiled),
		runtimes: make(map[ecs.EntityID]*enemyScript),
		seen:     make(map[ecs.EntityID]bool),
	}
}

func (ai *EnemyAI) Filter(e *ecs.Entity) bool {
	return ai.filter(e)
}

func (ai *EnemyAI) Update(entities []*ecs.Entity, dt time.Duration) {
	ai.player, _ = ecs.FirstTagged(entities, "player")
	ai.dt = dt.Seconds()
	clear(ai.seen)

	ecs.EachEntity(ai, entities, dt)

	for id := range ai.runtimes {
		if !ai.seen[id] {
			delete(ai.runtimes, id)
		}
	}
}

func (ai *EnemyAI) UpdateEntity(e *ecs.Entity, _ time.Duration) {
	enemy, _ := ecs.Get(e, component.EnemyKind)
	physics, _ := ecs.Get(e, component.PhysicsKind)
	if enemy.Script == "" || physics.Body == nil {
		return
	}
	ai.seen[e.ID()] = true

	rt, err := ai.runtime(e.ID(), enemy.Script)
	if err != nil {
		ai.runtimes[e.ID()] = &enemyScript{script: enemy.Script, failed: true}
		ai.log.Error("load enemy script", zap.String("script", enemy.Script), zap.Stringer("entity", e.ID()), zap.Error(err))
		return
	}
	if rt.failed {
		return
	}

	if err := rt.run(ai.engine(e, enemy, physics)); err != nil {
		rt.failed = true
		ai.log.Error("enemy script update", zap.String("script", enemy.Script), zap.Stringer("entity", e.ID()), zap.Error(err))
		return
	}

	if ai.rng.Float64() < trailChance {
		ai.bus.Emit(event.ParticleTrail, event.Particles{X: e.X, Y: e.Y, Count: 2})
	}
}

// Reload drops the compiled copy of script so the next frame picks up the
// file on disk. An empty name drops everything.
func (ai *EnemyAI) Reload(script string) {
	name := strings.TrimSuffix(strings.TrimPrefix(script, "scripts/"), ".tengo")
	for key := range ai.compiled {
		if name == "" || key == name {
			delete(ai.compiled, key)
		}
	}
	for id, rt := range ai.runtimes {
		if name == "" || rt.script == name {
			delete(ai.runtimes, id)
		}
	}
}

func (ai *EnemyAI) runtime(id ecs.EntityID, script string) (*enemyScript, error) {
	if rt, ok := ai.runtimes[id]; ok && rt.script == script {
		return rt, nil
	}

	base, ok := ai.compiled[script]
	if !ok {
		var err error
		base, err = compileEnemyScript(script)
		if err != nil {
			return nil, err
		}
		ai.compiled[script] = base
	}

	rt := &enemyScript{
		script:   script,
		compiled: base.Clone(),
		state:    &tengo.Map{Value: map[string]tengo.Object{}},
	}
	ai.runtimes[id] = rt
	return rt, nil
}

func compileEnemyScript(name string) (*tengo.Compiled, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, err
	}

	script := tengo.NewScript([]byte(string(src) + "\n" + enemyDispatchScript))
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return compiled, nil
}

func (rt *enemyScript) run(engine *tengo.ImmutableMap) error {
	if err := rt.compiled.Set("__engine", engine); err != nil {
		return err
	}
	if err := rt.compiled.Set("__state", rt.state); err != nil {
		return err
	}
	return rt.compiled.Run()
}

func (ai *EnemyAI) engine(e *ecs.Entity, enemy *component.Enemy, physics *component.Physics) *tengo.ImmutableMap {
	body := physics.Body
	values := map[string]tengo.Object{
		"dt":           &tengo.Float{Value: ai.dt},
		"speed":        &tengo.Float{Value: enemy.Speed},
		"jump_power":   &tengo.Float{Value: enemy.JumpPower},
		"action_delay": &tengo.Float{Value: enemy.ActionDelay.Seconds()},
	}

	values["velocity"] = &tengo.UserFunction{Name: "velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return pair(body.Velocity()), nil
	}}

	values["set_velocity"] = &tengo.UserFunction{Name: "set_velocity", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		vx, okX := tengo.ToFloat64(args[0])
		vy, okY := tengo.ToFloat64(args[1])
		if !okX || !okY {
			return tengo.FalseValue, nil
		}
		body.SetVelocity(vx, vy)
		return tengo.TrueValue, nil
	}}

	values["blocked_left"] = &tengo.UserFunction{Name: "blocked_left", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(body.Contacts().Left), nil
	}}

	values["blocked_right"] = &tengo.UserFunction{Name: "blocked_right", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(body.Contacts().Right), nil
	}}

	values["grounded"] = &tengo.UserFunction{Name: "grounded", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return boolObject(body.Contacts().Down), nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return pair(e.X, e.Y), nil
	}}

	values["player_position"] = &tengo.UserFunction{Name: "player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if ai.player == nil {
			return tengo.UndefinedValue, nil
		}
		return pair(ai.player.X, ai.player.Y), nil
	}}

	values["direction"] = &tengo.UserFunction{Name: "direction", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(enemy.Direction)}, nil
	}}

	values["set_direction"] = &tengo.UserFunction{Name: "set_direction", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		d, ok := tengo.ToInt(args[0])
		if !ok {
			return tengo.FalseValue, nil
		}
		enemy.SetDirection(d)
		return tengo.TrueValue, nil
	}}

	values["timer"] = &tengo.UserFunction{Name: "timer", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Float{Value: enemy.Timer().Seconds()}, nil
	}}

	values["reset_timer"] = &tengo.UserFunction{Name: "reset_timer", Value: func(args ...tengo.Object) (tengo.Object, error) {
		enemy.ResetTimer()
		return tengo.TrueValue, nil
	}}

	values["chance"] = &tengo.UserFunction{Name: "chance", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, _ := tengo.ToFloat64(args[0])
		return boolObject(ai.rng.Float64() < p), nil
	}}

	values["shoot"] = &tengo.UserFunction{Name: "shoot", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		speed, _ := tengo.ToFloat64(args[0])
		if ai.player == nil || speed <= 0 {
			return tengo.FalseValue, nil
		}
		angle := math.Atan2(ai.player.Y-e.Y, ai.player.X-e.X)
		ai.bus.Emit(event.ProjectileFire, event.Shot{
			X:  e.X,
			Y:  e.Y,
			VX: math.Cos(angle) * speed,
			VY: math.Sin(angle) * speed,
		})
		ai.bus.Emit(event.SFXPlay, event.Sound{Type: "enemyShoot"})
		return tengo.TrueValue, nil
	}}

	values["shake"] = &tengo.UserFunction{Name: "shake", Value: func(args ...tengo.Object) (tengo.Object, error) {
		intensity := 0.0
		if len(args) > 0 {
			intensity, _ = tengo.ToFloat64(args[0])
		}
		ai.bus.Emit(event.CameraShake, event.Shake{Intensity: intensity})
		return tengo.TrueValue, nil
	}}

	values["sfx"] = &tengo.UserFunction{Name: "sfx", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name, ok := tengo.ToString(args[0])
		if !ok || name == "" {
			return tengo.FalseValue, nil
		}
		ai.bus.Emit(event.SFXPlay, event.Sound{Type: name})
		return tengo.TrueValue, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

func pair(a, b float64) *tengo.Array {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: a}, &tengo.Float{Value: b}}}
}

func boolObject(v bool) tengo.Object {
	if v {
		return tengo.TrueValue
	}
	return tengo.FalseValue
}
