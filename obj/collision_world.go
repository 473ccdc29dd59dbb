// Package obj wraps the Chipmunk space the level runs in: static
// platforms, world bounds and one dynamic body per actor.
package obj

import (
	"math"
	"time"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/prefabs"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeActor
)

// Actors collide with platforms only; overlap between actors is handled by
// the combat system.
const (
	categorySolid uint = 1 << iota
	categoryActor
)

const (
	contactThreshold = 0.5
	platformFriction = 0.8
	heavyMass        = 1000
)

// CollisionWorld owns the Chipmunk space for one level.
type CollisionWorld struct {
	space  *cp.Space
	bodies []*Body

	Width, Height float64
}

// NewCollisionWorld creates a space with gravity pointing down the screen.
// A positive width and height wall the level in.
func NewCollisionWorld(gravity, width, height float64) *CollisionWorld {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: gravity})

	cw := &CollisionWorld{space: space, Width: width, Height: height}
	cw.buildBounds()
	return cw
}

func (cw *CollisionWorld) Space() *cp.Space {
	if cw == nil {
		return nil
	}
	return cw.space
}

func (cw *CollisionWorld) buildBounds() {
	if cw.Width <= 0 || cw.Height <= 0 {
		return
	}
	w, h := cw.Width, cw.Height
	segments := []struct{ a, b cp.Vector }{
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: w, Y: 0}},
		{a: cp.Vector{X: 0, Y: h}, b: cp.Vector{X: w, Y: h}},
		{a: cp.Vector{X: 0, Y: 0}, b: cp.Vector{X: 0, Y: h}},
		{a: cp.Vector{X: w, Y: 0}, b: cp.Vector{X: w, Y: h}},
	}
	for _, seg := range segments {
		shape := cp.NewSegment(cw.space.StaticBody, seg.a, seg.b, 1)
		cw.addSolid(shape)
	}
}

// AddPlatform adds a static box centered on x, y.
func (cw *CollisionWorld) AddPlatform(x, y, width, height float64) {
	if cw == nil || width <= 0 || height <= 0 {
		return
	}
	bb := cp.NewBBForExtents(cp.Vector{X: x, Y: y}, width/2, height/2)
	cw.addSolid(cp.NewBox2(cw.space.StaticBody, bb, 0))
}

func (cw *CollisionWorld) addSolid(shape *cp.Shape) {
	shape.SetFriction(platformFriction)
	shape.SetCollisionType(collisionTypeSolid)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categorySolid, cp.ALL_CATEGORIES))
	cw.space.AddShape(shape)
}

// AddBody creates an actor body centered on x, y, sized and tuned by spec.
func (cw *CollisionWorld) AddBody(x, y float64, spec prefabs.BodySpec) *Body {
	if cw == nil {
		return nil
	}
	width, height := spec.Width, spec.Height
	if width <= 0 {
		width = 32
	}
	if height <= 0 {
		height = 32
	}

	mass := 1.0
	if spec.Immovable {
		mass = heavyMass
	}
	moment := cp.MomentForBox(mass, width, height)
	if spec.FixedAngle {
		moment = math.Inf(1)
	}

	cpBody := cp.NewBody(mass, moment)
	cpBody.SetPosition(cp.Vector{X: x, Y: y})
	shape := cp.NewBox(cpBody, width, height, 0)
	shape.SetFriction(spec.Friction)
	shape.SetElasticity(spec.Bounce)
	shape.SetCollisionType(collisionTypeActor)
	shape.SetFilter(cp.NewShapeFilter(cp.NO_GROUP, categoryActor, categorySolid))

	b := &Body{world: cw, body: cpBody, shape: shape, noGravity: spec.NoGravity}
	cpBody.SetVelocityUpdateFunc(b.updateVelocity)

	cw.space.AddBody(cpBody)
	cw.space.AddShape(shape)
	cw.bodies = append(cw.bodies, b)
	return b
}

func (cw *CollisionWorld) remove(b *Body) {
	for i, other := range cw.bodies {
		if other == b {
			cw.bodies = append(cw.bodies[:i], cw.bodies[i+1:]...)
			break
		}
	}
	if cw.space.ContainsShape(b.shape) {
		cw.space.RemoveShape(b.shape)
	}
	if cw.space.ContainsBody(b.body) {
		cw.space.RemoveBody(b.body)
	}
}

// Step advances the simulation by dt and refreshes every body's contacts.
func (cw *CollisionWorld) Step(dt time.Duration) {
	if cw == nil || dt <= 0 {
		return
	}
	cw.space.Step(dt.Seconds())
	for _, b := range cw.bodies {
		b.refreshContacts()
	}
}

// Bodies returns the live actor bodies.
func (cw *CollisionWorld) Bodies() []*Body {
	if cw == nil {
		return nil
	}
	return cw.bodies
}

// Body is a dynamic actor in the world. It implements component.Body and
// component.Remover.
type Body struct {
	world     *CollisionWorld
	body      *cp.Body
	shape     *cp.Shape
	noGravity bool
	dragX     float64
	contacts  component.Contacts
	removed   bool
}

var (
	_ component.Body    = (*Body)(nil)
	_ component.Remover = (*Body)(nil)
)

func (b *Body) updateVelocity(body *cp.Body, gravity cp.Vector, damping, dt float64) {
	if b.noGravity {
		gravity = cp.Vector{}
	}
	cp.BodyUpdateVelocity(body, gravity, damping, dt)
	if b.dragX > 0 {
		v := body.Velocity()
		body.SetVelocity(approachZero(v.X, b.dragX*dt), v.Y)
	}
}

func approachZero(v, by float64) float64 {
	switch {
	case v > by:
		return v - by
	case v < -by:
		return v + by
	}
	return 0
}

func (b *Body) refreshContacts() {
	var c component.Contacts
	b.body.EachArbiter(func(arb *cp.Arbiter) {
		if arb.Count() == 0 {
			return
		}
		n := arb.Normal()
		switch {
		case n.Y > contactThreshold:
			c.Down = true
		case n.Y < -contactThreshold:
			c.Up = true
		}
		switch {
		case n.X > contactThreshold:
			c.Right = true
		case n.X < -contactThreshold:
			c.Left = true
		}
	})
	b.contacts = c
}

func (b *Body) Position() (float64, float64) {
	p := b.body.Position()
	return p.X, p.Y
}

func (b *Body) SetPosition(x, y float64) {
	b.body.SetPosition(cp.Vector{X: x, Y: y})
}

func (b *Body) Velocity() (float64, float64) {
	v := b.body.Velocity()
	return v.X, v.Y
}

func (b *Body) SetVelocity(x, y float64) {
	b.body.SetVelocity(x, y)
}

func (b *Body) SetVelocityX(x float64) {
	b.body.SetVelocity(x, b.body.Velocity().Y)
}

func (b *Body) SetVelocityY(y float64) {
	b.body.SetVelocity(b.body.Velocity().X, y)
}

// SetDragX slows horizontal movement by drag px/s each second; 0 disables it.
func (b *Body) SetDragX(drag float64) {
	b.dragX = max(drag, 0)
}

// Contacts reports the sides touching a platform after the last step.
func (b *Body) Contacts() component.Contacts {
	return b.contacts
}

// Remove takes the body out of its world. Calling it twice is a no-op.
func (b *Body) Remove() {
	if b == nil || b.removed {
		return
	}
	b.removed = true
	b.world.remove(b)
}
