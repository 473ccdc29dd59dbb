package system

import (
	"time"

	"go.uber.org/zap"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/event"
	"github.com/milk9111/platformer/save"
)

const (
	KeyLastLevel = "lastLevel"
	KeyHighScore = "highScore"
)

const (
	completeDelay = 1500 * time.Millisecond
	gameOverDelay = time.Second
)

// Outcome is how a level ended.
type Outcome int

const (
	Playing Outcome = iota
	Completed
	Defeated
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Defeated:
		return "defeated"
	default:
		return "playing"
	}
}

// Progress saves the last completed level and the high score, and holds
// the end of a level for a moment before reporting it as Ready.
type Progress struct {
	ecs.BaseSystem
	listeners

	log   *zap.Logger
	saves *save.Manager

	outcome   Outcome
	level     event.Level
	newRecord bool
	wait      time.Duration
}

func NewProgress(log *zap.Logger, bus *event.Bus, saves *save.Manager) *Progress {
	if log == nil {
		log = zap.NewNop()
	}
	p := &Progress{
		listeners: listeners{bus: bus},
		log:       log.Named("progress"),
		saves:     saves,
	}
	listen(&p.listeners, event.LevelComplete, p.onComplete)
	listen(&p.listeners, event.GameOver, p.onGameOver)
	return p
}

func (p *Progress) onComplete(l event.Level) {
	if p.outcome != Playing {
		return
	}
	p.finish(Completed, l, completeDelay)
	p.saves.Save(KeyLastLevel, l.ID)
}

func (p *Progress) onGameOver(l event.Level) {
	if p.outcome != Playing {
		return
	}
	p.finish(Defeated, l, gameOverDelay)
}

func (p *Progress) finish(o Outcome, l event.Level, wait time.Duration) {
	p.outcome = o
	p.level = l
	p.wait = wait
	if l.Score > p.HighScore() {
		p.newRecord = p.saves.Save(KeyHighScore, l.Score)
	}
	p.log.Info("level finished",
		zap.Stringer("outcome", o),
		zap.Int("level", l.ID),
		zap.Int("score", l.Score),
		zap.Bool("new_record", p.newRecord),
	)
}

func (p *Progress) Update(_ []*ecs.Entity, dt time.Duration) {
	p.wait = max(p.wait-dt, 0)
}

// Ready reports the outcome once its delay has passed.
func (p *Progress) Ready() (Outcome, event.Level, bool) {
	if p.outcome == Playing || p.wait > 0 {
		return Playing, event.Level{}, false
	}
	return p.outcome, p.level, true
}

func (p *Progress) Outcome() Outcome {
	return p.outcome
}

func (p *Progress) NewRecord() bool {
	return p.newRecord
}

func (p *Progress) LastLevel() int {
	return save.Load(p.saves, KeyLastLevel, 0)
}

func (p *Progress) HighScore() int {
	return save.Load(p.saves, KeyHighScore, 0)
}

func (p *Progress) Destroy() {
	p.off()
}
