package component

import "github.com/milk9111/platformer/ecs"

var InputKind = ecs.NewKind[*Input]()

// Input exposes an InputSource to sibling components. A nil source reads as
// no input.
type Input struct {
	ecs.Base
	Source InputSource
}

func NewInput(src InputSource) *Input {
	return &Input{Source: src}
}

func (i *Input) Kind() ecs.ComponentID { return InputKind.ID() }

func (i *Input) Horizontal() int {
	if i == nil || i.Source == nil {
		return 0
	}
	return clampAxis(i.Source.Horizontal())
}

func (i *Input) Vertical() int {
	if i == nil || i.Source == nil {
		return 0
	}
	return clampAxis(i.Source.Vertical())
}

func (i *Input) JumpPressed() bool {
	return i != nil && i.Source != nil && i.Source.JumpPressed()
}

func (i *Input) JumpHeld() bool {
	return i != nil && i.Source != nil && i.Source.JumpHeld()
}

func (i *Input) DashHeld() bool {
	return i != nil && i.Source != nil && i.Source.DashHeld()
}

func (i *Input) ActionPressed() bool {
	return i != nil && i.Source != nil && i.Source.ActionPressed()
}
