package planner

// DefaultMaxCutAngle is the widest cut, in degrees, accepted by default.
// A cut approaching 90° transfers almost no momentum to the target ball.
const DefaultMaxCutAngle = 70.0

// Feasibility decides whether a cue→target→hole geometry can be struck.
//
// The cut angle is the deflection between the cue ball's incoming direction
// at the target and the target→hole direction. Given the vectors from the
// target to the cue ball and from the target to the hole, their angle is
// 180° for a straight-in shot; the cut angle is 180° minus that.
type Feasibility struct {
	MaxCutAngle float64 `json:"max_cut_angle"`
}

// CutAngle returns the deflection in degrees required to send target toward
// hole when the cue ball arrives travelling along incoming.
func CutAngle(incoming, targetToHole Vec2) float64 {
	return AngleBetween(incoming, targetToHole)
}

// Allows reports whether the straight cue→target→hole geometry is strikeable.
func (f Feasibility) Allows(cue, target, hole Vec2) bool {
	toCue := cue.Minus(target)
	toHole := hole.Minus(target)
	if toCue.Magnitude() < Epsilon || toHole.Magnitude() < Epsilon {
		return false
	}
	return 180-AngleBetween(toCue, toHole) <= f.MaxCutAngle
}

// AllowsIncoming is Allows for a cue ball that does not arrive on the
// straight line from its resting position, e.g. after a cushion.
func (f Feasibility) AllowsIncoming(incoming, target, hole Vec2) bool {
	toHole := hole.Minus(target)
	if incoming.Magnitude() < Epsilon || toHole.Magnitude() < Epsilon {
		return false
	}
	return CutAngle(incoming, toHole) <= f.MaxCutAngle
}
