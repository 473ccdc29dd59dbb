package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/platformer/component"
)

const stickDeadZone = 0.3

// Buttons is the raw device state read in one frame.
type Buttons struct {
	Left, Right, Up, Down bool
	StickX, StickY        float64

	JumpJustPressed bool
	JumpHeld        bool
	DashHeld        bool
	ActionPressed   bool
	PausePressed    bool
}

// Input polls the keyboard and the first gamepad once per frame and serves
// the result to the player controller.
type Input struct {
	component.InputState

	// PausePressed is true on the frame pause was pressed.
	PausePressed bool
}

var _ component.InputSource = (*Input)(nil)

func NewInput() *Input {
	return &Input{}
}

// Update polls the devices. Call it once at the start of each frame.
func (i *Input) Update() {
	i.Apply(pollButtons())
}

// Apply folds a frame of raw button state into the input snapshot.
func (i *Input) Apply(b Buttons) {
	x, y := 0, 0
	if b.Left {
		x--
	}
	if b.Right {
		x++
	}
	if b.Up {
		y--
	}
	if b.Down {
		y++
	}
	// the stick wins when pushed past the dead zone
	switch {
	case b.StickX < -stickDeadZone:
		x = -1
	case b.StickX > stickDeadZone:
		x = 1
	}
	switch {
	case b.StickY < -stickDeadZone:
		y = -1
	case b.StickY > stickDeadZone:
		y = 1
	}

	i.InputState = component.InputState{
		X:        x,
		Y:        y,
		Jump:     b.JumpJustPressed,
		JumpDown: b.JumpHeld,
		Dash:     b.DashHeld,
		Action:   b.ActionPressed,
	}
	i.PausePressed = b.PausePressed
}

func pollButtons() Buttons {
	anyPressed := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if ebiten.IsKeyPressed(k) {
				return true
			}
		}
		return false
	}
	anyJustPressed := func(keys ...ebiten.Key) bool {
		for _, k := range keys {
			if inpututil.IsKeyJustPressed(k) {
				return true
			}
		}
		return false
	}

	b := Buttons{
		Left:            anyPressed(ebiten.KeyA, ebiten.KeyLeft),
		Right:           anyPressed(ebiten.KeyD, ebiten.KeyRight),
		Up:              anyPressed(ebiten.KeyW, ebiten.KeyUp),
		Down:            anyPressed(ebiten.KeyS, ebiten.KeyDown),
		JumpJustPressed: anyJustPressed(ebiten.KeySpace, ebiten.KeyW, ebiten.KeyUp),
		JumpHeld:        anyPressed(ebiten.KeySpace, ebiten.KeyW, ebiten.KeyUp),
		DashHeld:        anyPressed(ebiten.KeyShiftLeft, ebiten.KeyShiftRight, ebiten.KeyX),
		ActionPressed:   anyJustPressed(ebiten.KeyE, ebiten.KeyC),
		PausePressed:    anyJustPressed(ebiten.KeyEscape, ebiten.KeyP),
	}

	// Gamepad: first connected pad with the standard mapping
	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return b
	}
	gid := ids[0]
	b.StickX = ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
	b.StickY = ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
	b.Left = b.Left || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftLeft)
	b.Right = b.Right || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftRight)

	b.JumpJustPressed = b.JumpJustPressed || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
	b.JumpHeld = b.JumpHeld || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightBottom)
	// X button (standard mapping: right-left)
	b.DashHeld = b.DashHeld || ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonRightLeft)
	b.ActionPressed = b.ActionPressed || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightRight)
	b.PausePressed = b.PausePressed || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
	return b
}
