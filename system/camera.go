package system

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
)

const (
	defaultShakeIntensity = 5
	defaultFlashDuration  = 100 * time.Millisecond
	defaultFlashColor     = 0xFFFFFF
)

// Camera follows the player tag, clamps to the level and applies shake and
// flash requests from the bus.
type Camera struct {
	ecs.BaseSystem
	listeners

	rng    *rand.Rand
	Target string

	X, Y           float64
	screenW        float64
	screenH        float64
	worldW, worldH float64
	smooth         float64

	shakeDefault   time.Duration
	shakeIntensity float64
	shakeDuration  time.Duration
	shakeTimer     time.Duration
	offX, offY     float64

	flashColor    uint32
	flashDuration time.Duration
	flashTimer    time.Duration
}

// NewCamera creates a camera for a screenW x screenH view.
func NewCamera(bus *event.Bus, rng *rand.Rand, screenW, screenH int) *Camera {
	c := &Camera{
		listeners:    listeners{bus: bus},
		rng:          seeded(rng),
		Target:       "player",
		screenW:      float64(screenW),
		screenH:      float64(screenH),
		smooth:       0.1,
		shakeDefault: 200 * time.Millisecond,
		X:            float64(screenW) / 2,
		Y:            float64(screenH) / 2,
	}
	listen(&c.listeners, event.CameraShake, c.Shake)
	listen(&c.listeners, event.CameraFlash, c.Flash)
	return c
}

// SetSmooth sets the follow factor per frame, 0 snaps.
func (c *Camera) SetSmooth(f float64) {
	c.smooth = common.Clamp(f, 0, 1)
}

func (c *Camera) SetShakeDuration(d time.Duration) {
	if d > 0 {
		c.shakeDefault = d
	}
}

// SetWorldBounds limits the view to the level; zero leaves an axis unbounded.
func (c *Camera) SetWorldBounds(w, h float64) {
	c.worldW, c.worldH = w, h
}

// Shake starts a decaying shake, replacing any running one.
func (c *Camera) Shake(s event.Shake) {
	if s.Intensity <= 0 {
		s.Intensity = defaultShakeIntensity
	}
	if s.Duration <= 0 {
		s.Duration = c.shakeDefault
	}
	c.shakeIntensity = s.Intensity
	c.shakeDuration = s.Duration
	c.shakeTimer = s.Duration
}

func (c *Camera) Flash(f event.Flash) {
	if f.Color == 0 {
		f.Color = defaultFlashColor
	}
	if f.Duration <= 0 {
		f.Duration = defaultFlashDuration
	}
	c.flashColor = f.Color
	c.flashDuration = f.Duration
	c.flashTimer = f.Duration
}

func (c *Camera) Update(entities []*ecs.Entity, dt time.Duration) {
	if target, ok := ecs.FirstTagged(entities, c.Target); ok {
		c.follow(target.X, target.Y)
	}

	c.offX, c.offY = 0, 0
	if c.shakeTimer > 0 {
		c.shakeTimer -= dt
		if c.shakeTimer > 0 {
			progress := float64(c.shakeTimer) / float64(c.shakeDuration)
			intensity := c.shakeIntensity * progress
			c.offX = (c.rng.Float64() - 0.5) * intensity * 2
			c.offY = (c.rng.Float64() - 0.5) * intensity * 2
		} else {
			c.shakeTimer = 0
		}
	}

	if c.flashTimer > 0 {
		c.flashTimer = max(c.flashTimer-dt, 0)
	}
}

func (c *Camera) follow(x, y float64) {
	if c.smooth <= 0 {
		c.X, c.Y = x, y
	} else {
		c.X = common.Lerp(c.X, x, c.smooth)
		c.Y = common.Lerp(c.Y, y, c.smooth)
	}
	c.clamp()
}

// SnapTo centers the view on x, y without smoothing.
func (c *Camera) SnapTo(x, y float64) {
	c.X, c.Y = x, y
	c.clamp()
}

func (c *Camera) clamp() {
	c.X = clampAxis(c.X, c.screenW/2, c.worldW)
	c.Y = clampAxis(c.Y, c.screenH/2, c.worldH)
}

func clampAxis(pos, half, world float64) float64 {
	if world <= 0 {
		return pos
	}
	if world-half < half {
		return world / 2
	}
	return common.Clamp(pos, half, world-half)
}

// ViewTopLeft is the world position drawn at the screen origin, shake
// included and rounded to whole pixels.
func (c *Camera) ViewTopLeft() (float64, float64) {
	return math.Round(c.X - c.screenW/2 + c.offX), math.Round(c.Y - c.screenH/2 + c.offY)
}

func (c *Camera) Shaking() bool {
	return c.shakeTimer > 0
}

func (c *Camera) ShakeOffset() (float64, float64) {
	return c.offX, c.offY
}

// FlashOverlay returns the flash color and its remaining opacity in [0, 1].
func (c *Camera) FlashOverlay() (uint32, float64) {
	if c.flashTimer <= 0 || c.flashDuration <= 0 {
		return 0, 0
	}
	return c.flashColor, float64(c.flashTimer) / float64(c.flashDuration)
}

func (c *Camera) Destroy() {
	c.off()
}
