package planner

// Cost is the path length of a shot as seen from cue: the cue→aim leg plus
// the target→hole leg.
func Cost(s Shot, cue Ball) float64 {
	return cue.Position.DistanceTo(s.AimPoint()) + s.Target().Position.DistanceTo(s.Hole().Position)
}

// SelectBest picks the cheapest direct shot, or, only when there is none,
// the cheapest reflected shot. Reflections are never weighed against direct
// shots. Ties keep the earliest candidate, so the result follows enumeration
// order and is deterministic for a given snapshot. ok is false when both
// sets are empty.
func SelectBest(direct, reflected []Shot, cue Ball) (best Shot, ok bool) {
	if len(direct) > 0 {
		return cheapest(direct, cue), true
	}
	if len(reflected) > 0 {
		return cheapest(reflected, cue), true
	}
	return Shot{}, false
}

func cheapest(shots []Shot, cue Ball) Shot {
	best := shots[0]
	bestCost := Cost(best, cue)
	for _, s := range shots[1:] {
		if c := Cost(s, cue); c < bestCost {
			best, bestCost = s, c
		}
	}
	return best
}
