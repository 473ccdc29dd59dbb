package main

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/platformer/game"
)

// drawColliders outlines every Chipmunk shape in the level and prints the
// player's movement state. Enabled with -debug.
func drawColliders(screen *ebiten.Image, s *game.Session) {
	camX, camY := s.Camera.ViewTopLeft()
	cp.DrawSpace(s.World.Space(), &colliderDrawer{screen: screen, offX: camX, offY: camY})

	player, health, ok := s.PlayerState()
	if !ok {
		return
	}
	e := s.Player
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf(
		"TPS %.0f  pos %.0f,%.0f  grounded %t  wall %t  dash %t (cd %s)  coyote %s  buffer %s  hp %.0f  entities %d  bodies %d",
		ebiten.ActualTPS(), e.X, e.Y, player.Grounded(), player.WallSliding(), player.Dashing(), player.DashCooldown(),
		player.CoyoteTimer(), player.JumpBufferTimer(), health.Current(), s.Manager.Len(), len(s.World.Bodies()),
	), 8, baseHeight-20)
}

type colliderDrawer struct {
	screen     *ebiten.Image
	offX, offY float64
}

func (d *colliderDrawer) line(a, b cp.Vector, c color.Color) {
	vector.StrokeLine(d.screen,
		float32(a.X-d.offX), float32(a.Y-d.offY),
		float32(b.X-d.offX), float32(b.Y-d.offY),
		1, c, false)
}

func (d *colliderDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	vector.StrokeCircle(d.screen, float32(pos.X-d.offX), float32(pos.Y-d.offY), float32(radius), 1, toRGBA(outline), false)
	d.line(pos, cp.Vector{X: pos.X + math.Cos(angle)*radius, Y: pos.Y + math.Sin(angle)*radius}, toRGBA(outline))
}

func (d *colliderDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, toRGBA(fill))
}

func (d *colliderDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	d.line(a, b, toRGBA(outline))
}

func (d *colliderDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], toRGBA(outline))
	}
}

func (d *colliderDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	l := size / 2
	d.line(cp.Vector{X: pos.X - l, Y: pos.Y}, cp.Vector{X: pos.X + l, Y: pos.Y}, toRGBA(fill))
	d.line(cp.Vector{X: pos.X, Y: pos.Y - l}, cp.Vector{X: pos.X, Y: pos.Y + l}, toRGBA(fill))
}

func (d *colliderDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_COLLISION_POINTS
}

func (d *colliderDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1.0, B: 0.2, A: 1.0}
}

func (d *colliderDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC {
		return cp.FColor{R: 0.4, G: 0.7, B: 1.0, A: 1.0}
	}
	return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1.0}
}

func (d *colliderDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1.0}
}

func (d *colliderDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1.0, G: 0.1, B: 0.1, A: 1.0}
}

func (d *colliderDrawer) Data() interface{} {
	return nil
}

func toRGBA(c cp.FColor) color.RGBA {
	unit := func(v float32) uint8 {
		return uint8(max(0, min(v, 1)) * 255)
	}
	return color.RGBA{R: unit(c.R), G: unit(c.G), B: unit(c.B), A: unit(c.A)}
}
