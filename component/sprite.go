package component

import (
	"time"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
)

var SpriteKind = ecs.NewKind[*Sprite]()

type Shape int

const (
	ShapeRect Shape = iota
	ShapeCircle
)

const (
	blinkPeriod = 100 * time.Millisecond
	blinkAlpha  = 0.3
)

// Sprite is the drawable description of an entity, centered on its position.
// The renderer reads it; nothing here touches the screen.
type Sprite struct {
	ecs.Base
	Width, Height float64
	Color         uint32
	Shape         Shape
	Depth         int
	FlipX         bool
	Alpha         float64
	Visible       bool

	blink time.Duration
}

func NewSprite(width, height float64, color uint32, depth int) *Sprite {
	return &Sprite{
		Width:   width,
		Height:  height,
		Color:   color,
		Depth:   depth,
		Alpha:   1,
		Visible: true,
	}
}

func (s *Sprite) Kind() ecs.ComponentID { return SpriteKind.ID() }

// Blink alternates the sprite alpha for d.
func (s *Sprite) Blink(d time.Duration) {
	if s == nil || d <= 0 {
		return
	}
	s.blink = d
}

func (s *Sprite) Blinking() bool {
	return s != nil && s.blink > 0
}

func (s *Sprite) Update(dt time.Duration) {
	if s.blink <= 0 {
		return
	}
	s.blink -= dt
	if s.blink <= 0 {
		s.blink = 0
		s.Alpha = 1
		return
	}
	if (s.blink/blinkPeriod)%2 == 0 {
		s.Alpha = blinkAlpha
	} else {
		s.Alpha = 1
	}
}

// Bounds returns the sprite rectangle around the owning entity.
func (s *Sprite) Bounds() common.Rect {
	x, y := s.Entity().Position()
	return common.Centered(x, y, s.Width, s.Height)
}
