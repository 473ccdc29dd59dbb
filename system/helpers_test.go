package system

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
)

const frame = 16 * time.Millisecond

type world struct {
	t       *testing.T
	bus     *event.Bus
	manager *ecs.EntityManager
	rng     *rand.Rand
}

func newWorld(t *testing.T) *world {
	t.Helper()
	log := zaptest.NewLogger(t)
	return &world{
		t:       t,
		bus:     event.NewBus(log),
		manager: ecs.NewEntityManager(log),
		rng:     rand.New(rand.NewPCG(7, 11)),
	}
}

// record collects every payload published under name.
func record[T any](w *world, name string) *[]T {
	var got []T
	event.Subscribe(w.bus, name, func(v T) { got = append(got, v) })
	return &got
}

func (w *world) spawn(x, y float64, tag string, components ...ecs.Component) (*ecs.Entity, *component.PointBody) {
	w.t.Helper()
	body := &component.PointBody{X: x, Y: y}
	e := w.manager.CreateEntity(x, y).AddTag(tag).AddComponent(component.NewPhysics(body))
	for _, c := range components {
		e.AddComponent(c)
	}
	require.NoError(w.t, e.Init())
	return e, body
}

func (w *world) spawnPlayer(x, y float64) (*ecs.Entity, *component.PointBody, *component.Player) {
	w.t.Helper()
	player := component.NewPlayer(w.bus, component.DefaultPlayerConfig(), w.rng)
	e, body := w.spawn(x, y, "player",
		component.NewSprite(32, 48, 0x4CAF50, 40),
		component.NewInput(&component.InputState{}),
		component.NewHealth(w.bus, 3),
		player,
	)
	return e, body, player
}

func (w *world) spawnEnemy(x, y float64, health float64, score int) (*ecs.Entity, *component.PointBody) {
	w.t.Helper()
	enemy := component.NewEnemy("patroller", "patroller")
	enemy.Speed = 80
	enemy.ActionDelay = time.Second
	enemy.Score = score
	return w.spawn(x, y, "enemy",
		component.NewSprite(35, 35, 0xFF5722, 30),
		component.NewHealth(w.bus, health),
		enemy,
	)
}

// flush applies queued destruction without running any system.
func (w *world) flush() {
	w.manager.Update(0)
}
