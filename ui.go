package main

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"

	"github.com/milk9111/platformer/component"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/game"
)

var (
	white   = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	gold    = color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
	hudFace ebtext.Face
)

func init() {
	hudFace = ebtext.NewGoXFace(basicfont.Face7x13)
}

// HUD shows score, health, coins, combo and power-ups in the top-left
// corner.
type HUD struct {
	ui     *ebitenui.UI
	level  *widget.Text
	score  *widget.Text
	health *widget.Text
	coins  *widget.Text
	combo  *widget.Text
	powers *widget.Text
	boss   *widget.Text
}

func NewHUD() *HUD {
	h := &HUD{}
	label := func(c color.Color) *widget.Text {
		return widget.NewText(widget.TextOpts.Text("", &hudFace, c))
	}
	h.level = label(white)
	h.score = label(gold)
	h.health = label(white)
	h.coins = label(gold)
	h.combo = label(white)
	h.powers = label(white)
	h.boss = label(gold)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(imageui.NewNineSliceColor(color.NRGBA{A: 120})),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(4),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Bottom: 8, Left: 10, Right: 10}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionStart, VerticalPosition: widget.AnchorLayoutPositionStart}),
		),
	)
	for _, t := range []*widget.Text{h.level, h.score, h.health, h.coins, h.combo, h.powers, h.boss} {
		panel.AddChild(t)
	}

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	h.ui = &ebitenui.UI{Container: root}
	return h
}

// Refresh copies the session state into the labels.
func (h *HUD) Refresh(s *game.Session) {
	h.level.Label = fmt.Sprintf("Level %d: %s", s.Level.ID, s.Level.Name)
	h.score.Label = fmt.Sprintf("Score %d", s.Score.Score())
	h.coins.Label = fmt.Sprintf("Coins %d/%d", s.Score.Coins, s.Score.TotalCoins)
	h.boss.Label = ""
	if e, alive := s.Boss.Entity(); alive {
		if bh, ok := ecs.Get(e, component.HealthKind); ok {
			h.boss.Label = fmt.Sprintf("Boss %.0f/%.0f", bh.Current(), bh.Max())
		}
	}

	player, health, ok := s.PlayerState()
	if !ok {
		return
	}
	h.health.Label = "Health " + strings.Repeat("#", int(health.Current())) + strings.Repeat("-", int(health.Max()-health.Current()))
	h.combo.Label = ""
	if c := player.Combo(); c > 0 {
		h.combo.Label = fmt.Sprintf("Combo x%d (%.1fx)", c, player.ComboMultiplier())
	}
	h.powers.Label = strings.Join(player.PowerUps(), " ")
}

// Menu is the centered overlay shown while paused and after the game ends.
type Menu struct {
	ui     *ebitenui.UI
	title  *widget.Text
	info   *widget.Text
	resume *widget.Button
}

// NewMenu builds the overlay with Resume, Restart, New Game and Quit
// buttons. Buttons use colored nine-slices so no theme has to be loaded.
func NewMenu(g *Game) *Menu {
	m := &Menu{}
	panelImg := imageui.NewNineSliceColor(color.NRGBA{A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xff})
	btnHover := imageui.NewNineSliceColor(color.NRGBA{R: 0x19, G: 0x76, B: 0xd2, A: 0xff})
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Hover: btnHover, Pressed: btnHover}),
			widget.ButtonOpts.Text(label, &hudFace, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center, widget.WidgetOpts.MinSize(200, 36)),
			widget.ButtonOpts.ClickedHandler(func(*widget.ButtonClickedEventArgs) { onClick() }),
		)
	}

	m.title = widget.NewText(widget.TextOpts.Text("Paused", &hudFace, white), widget.TextOpts.WidgetOpts(center))
	m.info = widget.NewText(widget.TextOpts.Text("", &hudFace, gold), widget.TextOpts.WidgetOpts(center))
	m.resume = button("Resume", g.flow.TogglePause)

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth/3, baseHeight/3),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(m.title)
	panel.AddChild(m.info)
	panel.AddChild(m.resume)
	panel.AddChild(button("Restart Level", g.restart))
	panel.AddChild(button("New Game", g.newGame))
	panel.AddChild(button("Quit", func() { g.quit = true }))

	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	root.AddChild(panel)
	m.ui = &ebitenui.UI{Container: root}
	return m
}

// Show retitles the menu for the current state.
func (m *Menu) Show(state game.State, score, highScore int) {
	m.resume.GetWidget().Visibility = widget.Visibility_Hide
	switch state {
	case game.StatePaused:
		m.title.Label = "Paused"
		m.resume.GetWidget().Visibility = widget.Visibility_Show
	case game.StateGameOver:
		m.title.Label = "Game Over"
	case game.StateVictory:
		m.title.Label = "Victory!"
	}
	m.info.Label = fmt.Sprintf("Score %d   Best %d", score, highScore)
}
