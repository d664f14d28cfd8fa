package planner

// bank is a usable single-cushion approach to one target ball.
type bank struct {
	wall     Wall
	mirror   Vec2
	incoming Vec2 // cue ball direction after the cushion, toward the target
}

// EnumerateReflected returns every feasible one-cushion shot, in
// ball-then-hole-then-wall order.
//
// The target is mirrored across each wall line; aiming the cue ball at the
// mirror point makes it leave the cushion at an angle equal to the angle of
// incidence and continue straight into the real target. The cue leg is
// checked for obstruction in two parts inside the table (cue→cushion and
// cushion→target), the cut angle is taken from the post-cushion direction,
// and the target→hole leg uses the real ball position.
func EnumerateReflected(cue Ball, targets []Ball, holes []Hole, walls []Wall, p Params) []Shot {
	var shots []Shot

	for i, target := range targets {
		if target.Position.Near(cue.Position) {
			continue
		}
		obstacles := others(targets, i)
		banks := approachBanks(cue, target, targets, obstacles, walls, p.Clearance)
		if len(banks) == 0 {
			continue
		}

		for _, hole := range holes {
			if target.Position.Near(hole.Position) {
				continue
			}
			if IsBlocked(target.Position, hole.Position, obstacles, p.Clearance) {
				continue
			}
			for _, b := range banks {
				if !p.Feasibility.AllowsIncoming(b.incoming, target.Position, hole.Position) {
					continue
				}
				shots = append(shots, newShot(Reflected(b.wall), cue, target, hole, b.mirror))
			}
		}
	}

	return shots
}

// approachBanks returns, in wall order, the cushions off which the cue ball
// can reach target unobstructed.
func approachBanks(cue, target Ball, all, obstacles []Ball, walls []Wall, clearance float64) []bank {
	var out []bank

	for _, w := range walls {
		dir := w.Direction()
		if dir.Magnitude() < Epsilon {
			continue
		}
		// both balls must be on the playing side of the cushion
		if !sameSide(cue.Position, target.Position, w.P1, w.P2) {
			continue
		}

		mirror := ReflectPoint(target.Position, w.P1, w.P2)
		if cue.Position.Near(mirror) {
			continue
		}
		bounce, ok := lineIntersectLine(cue.Position, mirror, w.P1, w.P2)
		if !ok || !onSegment(bounce, w.P1, w.P2) {
			continue
		}

		// the target itself also blocks the way to the cushion
		if IsBlocked(cue.Position, bounce, all, clearance) {
			continue
		}
		if IsBlocked(bounce, target.Position, obstacles, clearance) {
			continue
		}

		out = append(out, bank{
			wall:     w,
			mirror:   mirror,
			incoming: ReflectDirection(mirror.Minus(cue.Position), dir),
		})
	}

	return out
}
