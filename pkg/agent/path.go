package agent

import "github.com/ChicagoDave/episim/pkg/grid"

// NextIntersection returns the intersection one grid step from current
// toward target. The x gap is closed before the y gap, so consecutive calls
// trace an L-shaped path. If current equals target it is returned unchanged.
func NextIntersection(current, target grid.Vec2i) grid.Vec2i {
	next := current
	switch {
	case current.X < target.X:
		next.X++
	case current.X > target.X:
		next.X--
	case current.Y < target.Y:
		next.Y++
	case current.Y > target.Y:
		next.Y--
	}
	return next
}

// stepToward moves from toward to by at most step, never past to.
func stepToward(from, to, step int) int {
	if to > from {
		return min(from+step, to)
	}
	return max(from-step, to)
}
