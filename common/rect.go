package common

// Rect is an axis-aligned box with its top-left at X, Y.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Centered builds the box of size w*h around cx, cy.
func Centered(cx, cy, w, h float64) Rect {
	return Rect{X: cx - w/2, Y: cy - h/2, Width: w, Height: h}
}

func (r Rect) Intersects(other Rect) bool {
	return r.X < other.X+other.Width &&
		r.X+r.Width > other.X &&
		r.Y < other.Y+other.Height &&
		r.Y+r.Height > other.Y
}

func (r Rect) Top() float64    { return r.Y }
func (r Rect) Bottom() float64 { return r.Y + r.Height }
