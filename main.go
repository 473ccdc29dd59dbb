package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/logging"
	"github.com/milk9111/platformer/prefabs"
)

func main() {
	allAbilities := flag.Bool("ab", false, "start with all abilities unlocked")
	abilities := flag.String("abilities", "", "comma separated power-ups to start with (doubleJump,dash,speedBoost,shield)")
	debug := flag.Bool("debug", false, "enable debug mode")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	level := flag.Int("level", 1, "level id to start on")
	mute := flag.Bool("mute", false, "disable sound effects")
	prefabDir := flag.String("prefabs", "prefabs", "directory checked for prefab overrides and watched for edits; empty uses the embedded copies")
	saveDir := flag.String("saves", defaultSaveDir(), "directory for progress saves")
	flag.Parse()

	logger, err := logging.New(*debug)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = logger.Sync() }()

	prefabs.DiskDir = *prefabDir

	powerUps := splitList(*abilities)
	if *allAbilities {
		powerUps = []string{
			component.PowerUpDoubleJump,
			component.PowerUpDash,
			component.PowerUpSpeedBoost,
			component.PowerUpShield,
		}
	}

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("platformer")

	g, err := NewGame(logger, GameOptions{
		Level:    *level,
		PowerUps: powerUps,
		SaveDir:  *saveDir,
		Mute:     *mute,
		Watch:    *debug && *prefabDir != "",
		Debug:    *debug,
	})
	if err != nil {
		logger.Fatal("start game", zap.Error(err))
	}
	defer g.Close()

	if err := ebiten.RunGame(g); err != nil {
		logger.Error("game loop", zap.Error(err))
	}
}

func defaultSaveDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "saves"
	}
	return filepath.Join(dir, "platformer")
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
