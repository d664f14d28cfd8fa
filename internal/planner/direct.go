package planner

// Params are the tunables of one planning cycle.
type Params struct {
	// Clearance is the minimum line-to-center distance treated as
	// collision-free. Roughly a ball diameter.
	Clearance   float64     `json:"clearance"`
	Feasibility Feasibility `json:"feasibility"`
}

// DefaultParams returns parameters for 15 mm radius balls.
func DefaultParams() Params {
	return Params{
		Clearance:   30,
		Feasibility: Feasibility{MaxCutAngle: DefaultMaxCutAngle},
	}
}

// EnumerateDirect returns every feasible straight shot, in ball-then-hole
// order. A (target, hole) pair qualifies when the target→hole and
// cue→target paths are clear of every other target ball and the cut angle
// is within limits. Obstacles are every target but this one by position
// in the slice, so IDs need not be unique here.
func EnumerateDirect(cue Ball, targets []Ball, holes []Hole, p Params) []Shot {
	var shots []Shot

	for i, target := range targets {
		if target.Position.Near(cue.Position) {
			continue
		}
		obstacles := others(targets, i)

		// the approach leg does not depend on the hole
		if IsBlocked(cue.Position, target.Position, obstacles, p.Clearance) {
			continue
		}

		for _, hole := range holes {
			if target.Position.Near(hole.Position) {
				continue
			}
			if IsBlocked(target.Position, hole.Position, obstacles, p.Clearance) {
				continue
			}
			if !p.Feasibility.Allows(cue.Position, target.Position, hole.Position) {
				continue
			}
			shots = append(shots, newShot(Direct(), cue, target, hole, target.Position))
		}
	}

	return shots
}
