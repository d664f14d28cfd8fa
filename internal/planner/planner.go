package planner

import "fmt"

// Rejection records an input element dropped before planning.
type Rejection struct {
	Kind   string `json:"kind"` // "ball", "wall", "hole"
	ID     int    `json:"id"`
	Reason string `json:"reason"`
}

// Sanitize drops degenerate input so no later step normalizes a zero vector:
// target balls with a non-positive radius or coincident with the cue ball
// or an earlier target, and zero-length walls. The snapshot is copied,
// never modified in place. It fails only when the cue ball itself is unusable.
//
// Obstacles are found by target ID, so the kept targets must carry distinct
// IDs. When they do not (a client that omits them decodes every ID as 0),
// the kept targets are renumbered 1..n in input order.
func Sanitize(snap Snapshot) (Snapshot, []Rejection, error) {
	if snap.CueBall.Radius <= 0 {
		return Snapshot{}, nil, fmt.Errorf("cue ball radius %.3f: %w", snap.CueBall.Radius, ErrDegenerateInput)
	}

	var rejected []Rejection
	out := Snapshot{CueBall: snap.CueBall}

	kept := []Vec2{snap.CueBall.Position}
	for _, b := range snap.Targets {
		if b.Radius <= 0 {
			rejected = append(rejected, Rejection{Kind: "ball", ID: b.ID, Reason: "non-positive radius"})
			continue
		}
		dup := false
		for _, k := range kept {
			if k.Near(b.Position) {
				dup = true
				break
			}
		}
		if dup {
			rejected = append(rejected, Rejection{Kind: "ball", ID: b.ID, Reason: "coincident position"})
			continue
		}
		kept = append(kept, b.Position)
		out.Targets = append(out.Targets, b)
	}

	if !distinctIDs(out.Targets) {
		for i := range out.Targets {
			out.Targets[i].ID = i + 1
		}
	}

	for _, w := range snap.Walls {
		if w.P1.Near(w.P2) {
			rejected = append(rejected, Rejection{Kind: "wall", ID: w.ID, Reason: "zero length"})
			continue
		}
		out.Walls = append(out.Walls, w)
	}

	out.Holes = append(out.Holes, snap.Holes...)

	return out, rejected, nil
}

func distinctIDs(balls []Ball) bool {
	seen := make(map[int]bool, len(balls))
	for _, b := range balls {
		if seen[b.ID] {
			return false
		}
		seen[b.ID] = true
	}
	return true
}

// Plan is the outcome of one planning cycle.
type Plan struct {
	Shot       Shot        `json:"shot"`
	Aim        Aim         `json:"aim"`
	Direct     int         `json:"direct_candidates"`
	Reflected  int         `json:"reflected_candidates"`
	Rejections []Rejection `json:"rejections,omitempty"`
}

// Planner binds the parameters of a planning cycle.
type Planner struct {
	Params Params
	Aim    AimParams
}

func New(p Params, a AimParams) *Planner {
	return &Planner{Params: p, Aim: a}
}

// Plan selects one shot for the snapshot and derives its aim. Reflections
// are enumerated only when no direct shot exists. It returns
// ErrNoFeasibleShot when nothing qualifies.
func (pl *Planner) Plan(snap Snapshot) (Plan, error) {
	clean, rejected, err := Sanitize(snap)
	if err != nil {
		return Plan{}, err
	}
	result := Plan{Rejections: rejected}

	direct := EnumerateDirect(clean.CueBall, clean.Targets, clean.Holes, pl.Params)
	result.Direct = len(direct)

	var reflected []Shot
	if len(direct) == 0 {
		reflected = EnumerateReflected(clean.CueBall, clean.Targets, clean.Holes, clean.Walls, pl.Params)
		result.Reflected = len(reflected)
	}

	shot, ok := SelectBest(direct, reflected, clean.CueBall)
	if !ok {
		return result, ErrNoFeasibleShot
	}

	aim, err := DeriveAim(shot, pl.Aim)
	if err != nil {
		return result, fmt.Errorf("derive aim for %s: %w", shot, err)
	}

	result.Shot = shot
	result.Aim = aim
	return result, nil
}
