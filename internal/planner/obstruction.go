package planner

// IsBlocked reports whether the straight path from start to end passes
// within clearance of any obstacle center.
//
// Obstacles coincident with either endpoint are ignored, so the ball that
// travels the path and the ball it travels to never block themselves. An
// obstacle blocks only when it is both close to the line and its distance
// from start is shorter than the path, i.e. it is not past the far end.
// clearance should be at least a ball diameter so a rolling ball of finite
// size cannot clip the obstacle.
func IsBlocked(start, end Vec2, obstacles []Ball, clearance float64) bool {
	length := start.DistanceTo(end)

	for _, obs := range obstacles {
		c := obs.Position
		if c.Near(start) || c.Near(end) {
			continue
		}
		if DistanceToLine(start, end, c) >= clearance {
			continue
		}
		if start.DistanceTo(c) < length {
			return true
		}
	}
	return false
}

// others returns every ball except balls[skip].
func others(balls []Ball, skip int) []Ball {
	out := make([]Ball, 0, len(balls))
	for i, b := range balls {
		if i != skip {
			out = append(out, b)
		}
	}
	return out
}
