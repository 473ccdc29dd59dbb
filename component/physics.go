package component

import (
	"time"

	"github.com/milk9111/platformer/ecs"
)

var PhysicsKind = ecs.NewKind[*Physics]()

// Remover is implemented by bodies that must leave their world when the
// owning entity goes away.
type Remover interface {
	Remove()
}

// Physics owns the entity's body and keeps the entity position in sync
// with it.
type Physics struct {
	ecs.Base
	Body Body
}

func NewPhysics(body Body) *Physics {
	return &Physics{Body: body}
}

func (p *Physics) Kind() ecs.ComponentID { return PhysicsKind.ID() }

func (p *Physics) Init() error {
	p.sync()
	return nil
}

func (p *Physics) Update(time.Duration) {
	p.sync()
}

func (p *Physics) sync() {
	e := p.Entity()
	if e == nil || p.Body == nil {
		return
	}
	e.X, e.Y = p.Body.Position()
}

func (p *Physics) Destroy() {
	if r, ok := p.Body.(Remover); ok {
		r.Remove()
	}
	p.Body = nil
}

func (p *Physics) Velocity() (float64, float64) {
	if p == nil || p.Body == nil {
		return 0, 0
	}
	return p.Body.Velocity()
}

func (p *Physics) SetVelocity(x, y float64) {
	if p == nil || p.Body == nil {
		return
	}
	p.Body.SetVelocity(x, y)
}

func (p *Physics) Contacts() Contacts {
	if p == nil || p.Body == nil {
		return Contacts{}
	}
	return p.Body.Contacts()
}
