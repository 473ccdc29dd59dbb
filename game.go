package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/platformer/assets"
	"github.com/milk9111/platformer/event"
	"github.com/milk9111/platformer/game"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/prefabs"
	"github.com/milk9111/platformer/save"
)

const (
	baseWidth  = 1280
	baseHeight = 720
)

// Game adapts the level flow to ebiten: it polls input, steps the flow at
// a fixed tick and draws the level, HUD and menu.
type Game struct {
	log     *zap.Logger
	bus     *event.Bus
	input   *Input
	saves   *save.Manager
	sounds  *assets.SoundBank
	watcher *prefabs.Watcher

	flow *game.Flow
	hud  *HUD
	menu *Menu

	dt    time.Duration
	debug bool
	quit  bool
}

type GameOptions struct {
	Level    int
	PowerUps []string
	SaveDir  string
	Mute     bool
	Watch    bool
	Debug    bool
}

func NewGame(log *zap.Logger, opts GameOptions) (*Game, error) {
	g := &Game{
		log:   log,
		bus:   event.NewBus(log),
		input: NewInput(),
		saves: save.NewManager(save.NewFileStore(opts.SaveDir, "platformer_"), log),
		dt:    time.Second / time.Duration(ebiten.TPS()),
		debug: opts.Debug,
	}

	specs, err := game.LoadSpecs()
	if err != nil {
		log.Warn("prefabs fell back to defaults", zap.Error(err))
	}
	all, err := levels.All()
	if err != nil {
		return nil, err
	}

	start := opts.Level
	if start == 0 {
		start = 1
	}
	g.flow, err = game.NewFlow(game.Options{
		Log:      log,
		Bus:      g.bus,
		Saves:    g.saves,
		Input:    g.input,
		ScreenW:  baseWidth,
		ScreenH:  baseHeight,
		PowerUps: opts.PowerUps,
	}, specs, all, start)
	if err != nil {
		return nil, err
	}

	if !opts.Mute {
		g.sounds = assets.NewSoundBank(assets.Context())
		event.Subscribe(g.bus, event.SFXPlay, func(s event.Sound) {
			if !g.sounds.Play(s.Type) {
				log.Debug("unknown sound", zap.String("type", s.Type))
			}
		})
	}

	if opts.Watch {
		w, err := prefabs.NewWatcher(prefabs.DiskDir)
		if err != nil {
			log.Warn("prefab hot reload disabled", zap.String("dir", prefabs.DiskDir), zap.Error(err))
		} else {
			g.watcher = w
		}
	}

	g.hud = NewHUD()
	g.menu = NewMenu(g)
	return g, nil
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	g.input.Update()
	g.reload()

	if g.input.PausePressed {
		g.flow.TogglePause()
	}
	if err := g.flow.Update(g.dt); err != nil {
		return err
	}

	if g.flow.State() == game.StatePlaying {
		g.hud.Refresh(g.flow.Session)
		g.hud.ui.Update()
		return nil
	}
	g.menu.Show(g.flow.State(), g.flow.Score(), g.flow.HighScore())
	g.menu.ui.Update()
	return nil
}

func (g *Game) reload() {
	if err := g.watcher.Err(); err != nil {
		g.log.Warn("prefab watcher", zap.Error(err))
	}
	names := g.watcher.Drain()
	if len(names) == 0 {
		return
	}
	specs, err := game.LoadSpecs()
	if err != nil {
		g.log.Warn("reload prefabs", zap.Strings("changed", names), zap.Error(err))
	}
	g.flow.Reload(specs, names)
}

func (g *Game) restart() {
	if err := g.flow.Restart(); err != nil {
		g.log.Error("restart level", zap.Error(err))
	}
}

func (g *Game) newGame() {
	if err := g.flow.NewGame(); err != nil {
		g.log.Error("new game", zap.Error(err))
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	drawWorld(screen, g.flow.Session)
	if g.debug {
		drawColliders(screen, g.flow.Session)
	}
	g.hud.ui.Draw(screen)
	if g.flow.State() != game.StatePlaying {
		g.menu.ui.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}

// Close releases the watcher and the level.
func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			g.log.Warn("close prefab watcher", zap.Error(err))
		}
	}
	g.flow.Close()
}
