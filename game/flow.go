package game

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/save"
	"github.com/milk9111/platformer/system"
)

type State int

const (
	StatePlaying State = iota
	StatePaused
	StateGameOver
	StateVictory
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateGameOver:
		return "game over"
	case StateVictory:
		return "victory"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Flow moves through the levels in order: a completed level starts the
// next one with the score carried over, a lost one stops at game over.
type Flow struct {
	log    *zap.Logger
	opts   Options
	specs  Specs
	levels []*levels.Level

	Session *Session
	state   State
	index   int
	final   int
	best    int
}

// NewFlow starts at the level with startID.
func NewFlow(opts Options, specs Specs, all []*levels.Level, startID int) (*Flow, error) {
	if len(all) == 0 {
		return nil, errors.New("game: no levels")
	}
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	f := &Flow{log: log.Named("flow"), opts: opts, specs: specs, levels: all}
	if opts.Saves != nil {
		f.best = save.Load(opts.Saves, system.KeyHighScore, 0)
	}

	index := -1
	for i, lvl := range all {
		if lvl.ID == startID {
			index = i
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", levels.ErrNoLevel, startID)
	}
	if err := f.start(index, 0); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Flow) start(index, score int) error {
	s, err := NewSession(f.opts, f.specs, f.levels[index], score)
	if err != nil {
		return err
	}
	f.Session.Close()
	f.Session = s
	f.index = index
	f.state = StatePlaying
	return nil
}

func (f *Flow) State() State {
	return f.state
}

// Score is the running score, or the final one once the game has ended.
func (f *Flow) Score() int {
	if f.state == StateGameOver || f.state == StateVictory {
		return f.final
	}
	return f.Session.Score.Score()
}

// HighScore is the best score on record. It is read from the saves once
// and then kept in step as levels end.
func (f *Flow) HighScore() int {
	return f.best
}

// Level is the level in play.
func (f *Flow) Level() *levels.Level {
	return f.levels[f.index]
}

// Update advances the level and follows its outcome once ready.
func (f *Flow) Update(dt time.Duration) error {
	if f.state != StatePlaying {
		return nil
	}
	f.Session.Update(dt)

	outcome, result, ok := f.Session.Ready()
	if !ok {
		return nil
	}
	f.best = max(f.best, result.Score)
	switch outcome {
	case system.Completed:
		if f.index+1 < len(f.levels) {
			f.log.Info("advancing", zap.Int("from", result.ID), zap.Int("score", result.Score))
			return f.start(f.index+1, result.Score)
		}
		f.final = result.Score
		f.state = StateVictory
	case system.Defeated:
		f.final = result.Score
		f.state = StateGameOver
	}
	return nil
}

// TogglePause pauses or resumes play. It has no effect once the game is over.
func (f *Flow) TogglePause() {
	switch f.state {
	case StatePlaying:
		f.state = StatePaused
	case StatePaused:
		f.state = StatePlaying
	}
}

// Restart replays the current level from the score it started with.
func (f *Flow) Restart() error {
	return f.start(f.index, f.Session.StartedAt)
}

// NewGame starts over from the first level.
func (f *Flow) NewGame() error {
	return f.start(0, 0)
}

// Reload applies edited prefabs to the running level and to every level
// started afterwards.
func (f *Flow) Reload(specs Specs, names []string) {
	f.specs = specs
	f.Session.Reload(specs, names)
}

// Close ends the running level.
func (f *Flow) Close() {
	f.Session.Close()
}
