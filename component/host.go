package component

import "errors"

// ErrMissingCapability is returned from Init when a component needs a
// sibling the entity does not carry.
var ErrMissingCapability = errors.New("component: missing capability")

// Contacts reports which sides of a body touch something this frame.
type Contacts struct {
	Down, Up, Left, Right bool
}

// WallDirection is -1 touching a wall on the left, 1 on the right, else 0.
func (c Contacts) WallDirection() int {
	switch {
	case c.Left:
		return -1
	case c.Right:
		return 1
	}
	return 0
}

// Body is the physics host's per-entity body. Components only set velocity
// and drag and read back position and contacts.
type Body interface {
	Position() (x, y float64)
	Velocity() (x, y float64)
	SetVelocity(x, y float64)
	SetVelocityX(x float64)
	SetVelocityY(y float64)
	SetDragX(drag float64)
	Contacts() Contacts
}

// InputSource is polled once per frame.
type InputSource interface {
	Horizontal() int
	Vertical() int
	JumpPressed() bool
	JumpHeld() bool
	DashHeld() bool
	ActionPressed() bool
}

// InputState is a fixed snapshot of input, used by scripted and replayed
// play as well as tests.
type InputState struct {
	X, Y     int
	Jump     bool
	JumpDown bool
	Dash     bool
	Action   bool
}

func (s *InputState) Horizontal() int     { return clampAxis(s.X) }
func (s *InputState) Vertical() int       { return clampAxis(s.Y) }
func (s *InputState) JumpPressed() bool   { return s.Jump }
func (s *InputState) JumpHeld() bool      { return s.Jump || s.JumpDown }
func (s *InputState) DashHeld() bool      { return s.Dash }
func (s *InputState) ActionPressed() bool { return s.Action }

func clampAxis(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// PointBody is a Body with no collider. It integrates its own velocity and
// drag; contacts are whatever the owner sets.
type PointBody struct {
	X, Y    float64
	VX, VY  float64
	DragX   float64
	Touch   Contacts
	Gravity float64
}

func (b *PointBody) Position() (float64, float64) { return b.X, b.Y }
func (b *PointBody) Velocity() (float64, float64) { return b.VX, b.VY }
func (b *PointBody) SetVelocity(x, y float64)     { b.VX, b.VY = x, y }
func (b *PointBody) SetVelocityX(x float64)       { b.VX = x }
func (b *PointBody) SetVelocityY(y float64)       { b.VY = y }
func (b *PointBody) SetDragX(drag float64)        { b.DragX = drag }
func (b *PointBody) Contacts() Contacts           { return b.Touch }

// Step advances the body by dt seconds.
func (b *PointBody) Step(dt float64) {
	if b.DragX > 0 {
		b.VX = approachZero(b.VX, b.DragX*dt)
	}
	b.VY += b.Gravity * dt
	b.X += b.VX * dt
	b.Y += b.VY * dt
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
