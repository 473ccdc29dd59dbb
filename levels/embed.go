package levels

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

var ErrNoLevel = errors.New("levels: no such level")

// Level is one hand-built stage. Positions are world pixels and name the
// center of whatever they place.
type Level struct {
	ID          int        `json:"id"`
	Name        string     `json:"name"`
	Width       float64    `json:"width"`
	Height      float64    `json:"height"`
	PlayerStart Point      `json:"player_start"`
	Platforms   []Platform `json:"platforms"`
	Enemies     []Spawn    `json:"enemies,omitempty"`
	PowerUps    []Spawn    `json:"power_ups,omitempty"`
	Coins       []Point    `json:"coins,omitempty"`
	Exit        Point      `json:"exit"`

	// HasBoss holds the exit shut until the boss at BossPosition is beaten.
	HasBoss      bool   `json:"has_boss,omitempty"`
	BossPosition *Point `json:"boss_position,omitempty"`
}

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Platform struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Spawn places an enemy or power-up of Type.
type Spawn struct {
	Type string  `json:"type"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

func (l *Level) validate() error {
	if l.Width <= 0 || l.Height <= 0 {
		return fmt.Errorf("invalid level dimensions: %vx%v", l.Width, l.Height)
	}
	if len(l.Platforms) == 0 {
		return fmt.Errorf("level %d has no platforms", l.ID)
	}
	if l.HasBoss && l.BossPosition == nil {
		return fmt.Errorf("level %d has a boss but no boss_position", l.ID)
	}
	return nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level %s: %w", name, err)
	}
	if err := lvl.validate(); err != nil {
		return nil, err
	}
	return &lvl, nil
}

// All loads every embedded level ordered by ID.
func All() ([]*Level, error) {
	names, err := fs.Glob(LevelsFS, "*.json")
	if err != nil {
		return nil, err
	}
	all := make([]*Level, 0, len(names))
	for _, name := range names {
		lvl, err := LoadLevelFromFS(path.Base(name))
		if err != nil {
			return nil, err
		}
		all = append(all, lvl)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

// ByID finds the level with id among all.
func ByID(all []*Level, id int) (*Level, error) {
	for _, lvl := range all {
		if lvl.ID == id {
			return lvl, nil
		}
	}
	return nil, fmt.Errorf("%w: %d", ErrNoLevel, id)
}
