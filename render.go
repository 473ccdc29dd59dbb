package main

import (
	"image/color"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/game"
)

var (
	skyColor      = colornames.Midnightblue
	platformColor = colornames.Sienna
	platformTop   = colornames.Olivedrab
	eyeColor      = colornames.White
)

func rgba(c uint32, alpha float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(c >> 16),
		G: uint8(c >> 8),
		B: uint8(c),
		A: uint8(max(0, min(alpha, 1)) * 255),
	}
}

type drawable struct {
	e      *ecs.Entity
	sprite *component.Sprite
}

// drawWorld renders one level through its camera: platforms, sprites by
// depth, projectiles, particles and the flash overlay.
func drawWorld(screen *ebiten.Image, s *game.Session) {
	screen.Fill(skyColor)
	camX, camY := s.Camera.ViewTopLeft()

	for _, p := range s.Platforms {
		x, y, w, h := p.Bounds()
		sx, sy := float32(x-camX), float32(y-camY)
		vector.FillRect(screen, sx, sy, float32(w), float32(h), platformColor, false)
		vector.FillRect(screen, sx, sy, float32(w), float32(min(h, 6)), platformTop, false)
	}

	var sprites []drawable
	for _, e := range s.Manager.Entities() {
		if !e.Active() {
			continue
		}
		if sprite, ok := ecs.Get(e, component.SpriteKind); ok && sprite.Visible {
			sprites = append(sprites, drawable{e: e, sprite: sprite})
		}
	}
	sort.SliceStable(sprites, func(i, j int) bool {
		return sprites[i].sprite.Depth < sprites[j].sprite.Depth
	})
	for _, d := range sprites {
		drawSprite(screen, d, camX, camY)
	}

	for _, shot := range s.Projectiles.Live() {
		vector.FillCircle(screen, float32(shot.X-camX), float32(shot.Y-camY), 6, rgba(shot.Color, 1), true)
	}
	for _, p := range s.Particles.Live() {
		r := float32(p.Radius * p.Scale)
		if r <= 0 {
			continue
		}
		vector.FillCircle(screen, float32(p.X-camX), float32(p.Y-camY), r, rgba(p.Color, p.Alpha), true)
	}

	if c, alpha := s.Camera.FlashOverlay(); alpha > 0 {
		b := screen.Bounds()
		vector.FillRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), rgba(c, alpha*0.6), false)
	}
}

func drawSprite(screen *ebiten.Image, d drawable, camX, camY float64) {
	s, e := d.sprite, d.e
	x, y := e.X-camX, e.Y-camY
	if pickup, ok := ecs.Get(e, component.PickupKind); ok {
		y += pickup.Bob()
	}
	clr := rgba(s.Color, s.Alpha)

	switch s.Shape {
	case component.ShapeCircle:
		r := float32(min(s.Width, s.Height) / 2)
		vector.FillCircle(screen, float32(x), float32(y), r*1.3, rgba(s.Color, s.Alpha*0.3), true)
		vector.FillCircle(screen, float32(x), float32(y), r, clr, true)
	default:
		vector.FillRect(screen, float32(x-s.Width/2), float32(y-s.Height/2), float32(s.Width), float32(s.Height), clr, false)
	}

	// eyes show which way actors face
	if !ecs.Has(e, component.PhysicsKind) {
		return
	}
	dir := 1.0
	if s.FlipX {
		dir = -1
	}
	if enemy, ok := ecs.Get(e, component.EnemyKind); ok {
		dir = float64(enemy.Direction)
	}
	ex := x + dir*s.Width/4
	ey := y - s.Height/4
	vector.FillRect(screen, float32(ex-3), float32(ey-3), 6, 6, eyeColor, false)
}
