// Package viewport holds the camera window over the world grid and the
// projection math between world cells and screen cells.
//
// A State is a value; Pan and Clamp return the adjusted copy. All
// movement funnels through Clamp so an origin can never leave the loaded
// bounds no matter which input produced it.
package viewport

import "marsmc/internal/world"

// Screen footprint of one world cell. Two columns per cell keeps the
// grid roughly square in a terminal font.
const (
	CellW = 2
	CellH = 1
)

// State is the viewport origin and size, all in world cells.
type State struct {
	X, Y          int
	Width, Height int
}

// Clamp pins the origin so the viewport stays inside b. When the world
// extent along an axis is smaller than the viewport, the origin pins to
// the minimum edge. Unloaded bounds pin to (0,0).
func (s State) Clamp(b world.Bounds) State {
	if !b.Loaded {
		s.X, s.Y = 0, 0
		return s
	}
	s.X = clampAxis(s.X, b.Min.X, b.Max.X, s.Width)
	s.Y = clampAxis(s.Y, b.Min.Y, b.Max.Y, s.Height)
	return s
}

// clampAxis returns the candidate origin limited to [min, max-span+1].
// A degenerate interval (span wider than the extent) collapses to min.
func clampAxis(c, min, max, span int) int {
	hi := max - span + 1
	if hi < min {
		return min
	}
	if c < min {
		return min
	}
	if c > hi {
		return hi
	}
	return c
}

// Pan shifts the origin by whole cells and re-clamps against b.
func (s State) Pan(dx, dy int, b world.Bounds) State {
	s.X += dx
	s.Y += dy
	return s.Clamp(b)
}

// Contains reports whether the world cell is inside the viewport window.
func (s State) Contains(c world.Coord) bool {
	return c.X >= s.X && c.X < s.X+s.Width &&
		c.Y >= s.Y && c.Y < s.Y+s.Height
}

// WorldToScreen projects a world cell to the pane-local character
// position of its top-left corner. Callers check Contains first; cells
// outside the window project to off-pane positions.
func (s State) WorldToScreen(c world.Coord) (sx, sy int) {
	return (c.X - s.X) * CellW, (c.Y - s.Y) * CellH
}

// ScreenToWorld maps a pane-local character position back to the world
// cell covering it. Exact inverse of WorldToScreen for any cell in the
// window: every character of a cell's footprint maps to that cell.
func (s State) ScreenToWorld(sx, sy int) world.Coord {
	return world.Coord{
		X: s.X + floorDiv(sx, CellW),
		Y: s.Y + floorDiv(sy, CellH),
	}
}

// floorDiv is integer division rounding toward negative infinity, so
// positions left or above the origin still land on the right cell.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
