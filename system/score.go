package system

import "github.com/milk9111/platformer/event"

// Scoreboard is the running tally for one level.
type Scoreboard struct {
	bus *event.Bus

	Level      int
	Coins      int
	TotalCoins int
	score      int
}

func NewScoreboard(bus *event.Bus, level int) *Scoreboard {
	return &Scoreboard{bus: bus, Level: level}
}

// Add changes the score and publishes score:changed.
func (s *Scoreboard) Add(delta int) {
	if s == nil || delta == 0 {
		return
	}
	s.score += delta
	s.bus.Emit(event.ScoreChanged, event.Score{Score: s.score, Delta: delta})
}

func (s *Scoreboard) Score() int {
	if s == nil {
		return 0
	}
	return s.score
}

// Carry sets the starting score for a level without publishing a change.
func (s *Scoreboard) Carry(score int) {
	if s == nil {
		return
	}
	s.score = max(score, 0)
}
