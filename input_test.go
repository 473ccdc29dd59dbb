package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInputApply(t *testing.T) {
	tests := []struct {
		name  string
		b     Buttons
		x, y  int
		jump  bool
		held  bool
		dash  bool
		pause bool
	}{
		{name: "idle"},
		{name: "left", b: Buttons{Left: true}, x: -1},
		{name: "both cancel", b: Buttons{Left: true, Right: true}},
		{name: "stick beats keys", b: Buttons{Left: true, StickX: 0.8}, x: 1},
		{name: "stick dead zone", b: Buttons{StickX: 0.2, StickY: -0.2}},
		{name: "up and down", b: Buttons{Up: true, StickY: 0.9}, y: 1},
		{name: "jump press", b: Buttons{JumpJustPressed: true, JumpHeld: true}, jump: true, held: true},
		{name: "jump held", b: Buttons{JumpHeld: true}, held: true},
		{name: "dash and pause", b: Buttons{DashHeld: true, PausePressed: true}, dash: true, pause: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInput()
			in.Apply(tt.b)
			assert.Equal(t, tt.x, in.Horizontal())
			assert.Equal(t, tt.y, in.Vertical())
			assert.Equal(t, tt.jump, in.JumpPressed())
			assert.Equal(t, tt.held, in.JumpHeld())
			assert.Equal(t, tt.dash, in.DashHeld())
			assert.Equal(t, tt.pause, in.PausePressed)
		})
	}
}

func TestInputApplyResetsEachFrame(t *testing.T) {
	in := NewInput()
	in.Apply(Buttons{Right: true, JumpJustPressed: true, ActionPressed: true})
	assert.True(t, in.ActionPressed())

	in.Apply(Buttons{})
	assert.Zero(t, in.Horizontal())
	assert.False(t, in.JumpPressed())
	assert.False(t, in.ActionPressed())
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"dash", "shield"}, splitList(" dash, ,shield "))
}
