package prefabs

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadSpec reads and decodes a yaml prefab into T, starting from base so
// omitted keys keep their defaults.
func LoadSpec[T any](filename string, base T) (T, error) {
	data, err := Load(filename)
	if err != nil {
		return base, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return DecodeSpec(filename, data, base)
}

// DecodeSpec decodes raw yaml on top of base.
func DecodeSpec[T any](filename string, data []byte, base T) (T, error) {
	spec := base
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return base, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

type PlayerSpec struct {
	Name             string        `yaml:"name"`
	Speed            float64       `yaml:"speed"`
	SpeedBoostFactor float64       `yaml:"speed_boost_factor"`
	JumpPower        float64       `yaml:"jump_power"`
	WallJump         bool          `yaml:"wall_jump"`
	WallSlideSpeed   float64       `yaml:"wall_slide_speed"`
	WallJumpPush     float64       `yaml:"wall_jump_push"`
	DashSpeed        float64       `yaml:"dash_speed"`
	DashDuration     time.Duration `yaml:"dash_duration"`
	DashCooldown     time.Duration `yaml:"dash_cooldown"`
	DashBrakeDrag    float64       `yaml:"dash_brake_drag"`
	DashBrakeTime    time.Duration `yaml:"dash_brake_time"`
	CoyoteTime       time.Duration `yaml:"coyote_time"`
	JumpBuffer       time.Duration `yaml:"jump_buffer"`
	ComboWindow      time.Duration `yaml:"combo_window"`
	Health           float64       `yaml:"health"`
	HitInvulnerable  time.Duration `yaml:"hit_invulnerable"`
	Body             BodySpec      `yaml:"body"`
}

// DefaultPlayerSpec mirrors player.yaml so a missing file still plays.
func DefaultPlayerSpec() PlayerSpec {
	return PlayerSpec{
		Name:             "player",
		Speed:            300,
		SpeedBoostFactor: 1.5,
		JumpPower:        -550,
		WallJump:         true,
		WallSlideSpeed:   100,
		WallJumpPush:     400,
		DashSpeed:        800,
		DashDuration:     200 * time.Millisecond,
		DashCooldown:     500 * time.Millisecond,
		DashBrakeDrag:    1000,
		DashBrakeTime:    100 * time.Millisecond,
		CoyoteTime:       100 * time.Millisecond,
		JumpBuffer:       100 * time.Millisecond,
		ComboWindow:      2 * time.Second,
		Health:           3,
		HitInvulnerable:  2 * time.Second,
		Body:             BodySpec{Width: 32, Height: 48, Color: 0x4CAF50, Depth: 40},
	}
}

func LoadPlayerSpec() (PlayerSpec, error) {
	return LoadSpec("player.yaml", DefaultPlayerSpec())
}

// BodySpec sizes both the collider and the drawn rectangle.
type BodySpec struct {
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	Color      Color   `yaml:"color"`
	Depth      int     `yaml:"depth"`
	Bounce     float64 `yaml:"bounce"`
	NoGravity  bool    `yaml:"no_gravity"`
	Immovable  bool    `yaml:"immovable"`
	Friction   float64 `yaml:"friction"`
	FixedAngle bool    `yaml:"fixed_angle"`
}

type EnemySpec struct {
	Type        string        `yaml:"type"`
	Script      string        `yaml:"script"`
	Health      float64       `yaml:"health"`
	Speed       float64       `yaml:"speed"`
	JumpPower   float64       `yaml:"jump_power"`
	ActionDelay time.Duration `yaml:"action_delay"`
	Score       int           `yaml:"score"`
	Body        BodySpec      `yaml:"body"`
}

type EnemiesSpec struct {
	Enemies []EnemySpec `yaml:"enemies"`
}

// Find returns the spec for an enemy type.
func (s EnemiesSpec) Find(typ string) (EnemySpec, bool) {
	for _, e := range s.Enemies {
		if e.Type == typ {
			return e, true
		}
	}
	return EnemySpec{}, false
}

func LoadEnemiesSpec() (EnemiesSpec, error) {
	return LoadSpec("enemies.yaml", EnemiesSpec{})
}

// BossPhaseSpec is one stage of the boss fight. A phase starts once health
// drops to HPTrigger of max.
type BossPhaseSpec struct {
	Name       string        `yaml:"name"`
	HPTrigger  float64       `yaml:"hp_trigger"`
	Color      Color         `yaml:"color"`
	Attacks    []string      `yaml:"attacks"`
	Shake      float64       `yaml:"shake"`
	ShakeFor   time.Duration `yaml:"shake_for"`
	BurstColor Color         `yaml:"burst_color"`
	BurstCount int           `yaml:"burst_count"`
	BurstSpeed float64       `yaml:"burst_speed"`
}

type BossSpec struct {
	Type           string          `yaml:"type"`
	Health         float64         `yaml:"health"`
	Score          int             `yaml:"score"`
	SpawnDelay     time.Duration   `yaml:"spawn_delay"`
	AttackInterval time.Duration   `yaml:"attack_interval"`
	MoveInterval   time.Duration   `yaml:"move_interval"`
	MoveSpeed      float64         `yaml:"move_speed"`
	FollowDistance float64         `yaml:"follow_distance"`
	ShotColor      Color           `yaml:"shot_color"`
	ShotLife       time.Duration   `yaml:"shot_life"`
	Body           BodySpec        `yaml:"body"`
	Phases         []BossPhaseSpec `yaml:"phases"`
}

// DefaultBossSpec mirrors boss.yaml.
func DefaultBossSpec() BossSpec {
	return BossSpec{
		Type:           "boss",
		Health:         30,
		Score:          5000,
		SpawnDelay:     2 * time.Second,
		AttackInterval: 2 * time.Second,
		MoveInterval:   100 * time.Millisecond,
		MoveSpeed:      100,
		FollowDistance: 150,
		ShotColor:      0xFF00FF,
		ShotLife:       5 * time.Second,
		Body:           BodySpec{Width: 100, Height: 120, Color: 0x4A148C, Depth: 35, FixedAngle: true},
		Phases: []BossPhaseSpec{
			{Name: "opening", HPTrigger: 1, Color: 0x4A148C, Attacks: []string{"shoot", "jump", "charge"}},
			{
				Name: "enraged", HPTrigger: 0.66, Color: 0xE91E63,
				Attacks: []string{"tripleShoot", "dashAttack", "groundPound"},
				Shake:   10, ShakeFor: 500 * time.Millisecond,
				BurstColor: 0xFF5722, BurstCount: 50, BurstSpeed: 300,
			},
			{
				Name: "desperate", HPTrigger: 0.33, Color: 0xF44336,
				Attacks: []string{"bulletSpiral", "rapidDash", "meteorShower"},
				Shake:   15, ShakeFor: 800 * time.Millisecond,
				BurstColor: 0xF44336, BurstCount: 80, BurstSpeed: 400,
			},
		},
	}
}

// LoadBossSpec reads boss.yaml. Phases listed in the file replace the
// default phases wholesale.
func LoadBossSpec() (BossSpec, error) {
	return LoadSpec("boss.yaml", DefaultBossSpec())
}

// GameSpec holds world-level tuning.
type GameSpec struct {
	Gravity          float64       `yaml:"gravity"`
	CameraSmoothing  float64       `yaml:"camera_smoothing"`
	ShakeDuration    time.Duration `yaml:"shake_duration"`
	ParticlePool     int           `yaml:"particle_pool"`
	ParticleGravity  float64       `yaml:"particle_gravity"`
	ParticleLifetime time.Duration `yaml:"particle_lifetime"`
	KnockbackX       float64       `yaml:"knockback_x"`
	KnockbackY       float64       `yaml:"knockback_y"`
	StompBounce      float64       `yaml:"stomp_bounce"`
	CoinScore        int           `yaml:"coin_score"`
}

func DefaultGameSpec() GameSpec {
	return GameSpec{
		Gravity:          800,
		CameraSmoothing:  0.1,
		ShakeDuration:    200 * time.Millisecond,
		ParticlePool:     100,
		ParticleGravity:  800,
		ParticleLifetime: time.Second,
		KnockbackX:       300,
		KnockbackY:       -200,
		StompBounce:      -400,
		CoinScore:        100,
	}
}

func LoadGameSpec() (GameSpec, error) {
	return LoadSpec("game.yaml", DefaultGameSpec())
}

// Color is a packed 0xRRGGBB value written in yaml as "#RRGGBB" or an int.
type Color uint32

func (c *Color) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a scalar")
	}

	s := strings.TrimSpace(value.Value)
	base := 10
	switch {
	case strings.HasPrefix(s, "#"):
		s, base = s[1:], 16
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		s, base = s[2:], 16
	}
	if base == 16 && len(s) != 6 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	v, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return fmt.Errorf("invalid color %s: %w", value.Value, err)
	}
	*c = Color(v)
	return nil
}

// RGB splits the color into channels.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}
