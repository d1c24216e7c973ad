package grid

import "math"

// Vec2i is an integer 2-vector. It is used both for pixel positions and for
// grid cell / intersection indices; the two spaces are never mixed without
// going through a Geometry conversion.
type Vec2i struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pt is a shorthand constructor for Vec2i.
func Pt(x, y int) Vec2i {
	return Vec2i{X: x, Y: y}
}

// Add returns v + w.
func (v Vec2i) Add(w Vec2i) Vec2i {
	return Vec2i{v.X + w.X, v.Y + w.Y}
}

// Sub returns v - w.
func (v Vec2i) Sub(w Vec2i) Vec2i {
	return Vec2i{v.X - w.X, v.Y - w.Y}
}

// Distance returns the Euclidean distance from v to w.
func (v Vec2i) Distance(w Vec2i) float64 {
	d := v.Sub(w)
	return math.Hypot(float64(d.X), float64(d.Y))
}

// Manhattan returns the L1 distance from v to w.
func (v Vec2i) Manhattan(w Vec2i) int {
	return abs(v.X-w.X) + abs(v.Y-w.Y)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
