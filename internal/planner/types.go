package planner

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoFeasibleShot means neither direct nor single-bank enumeration
	// produced a candidate. It is terminal for the planning cycle.
	ErrNoFeasibleShot = errors.New("no feasible shot")

	// ErrDegenerateInput marks geometry that cannot be planned against:
	// coincident balls, zero-length walls, zero-length aim vectors.
	ErrDegenerateInput = errors.New("degenerate input")
)

// Ball is a ball on the table. ID is its stable identity within a snapshot.
type Ball struct {
	ID       int     `json:"id"`
	Position Vec2    `json:"position"`
	Radius   float64 `json:"radius"`
}

// Hole is a pocket.
type Hole struct {
	ID       int  `json:"id"`
	Position Vec2 `json:"position"`
}

// Wall is one cushion segment of the closed table boundary.
type Wall struct {
	ID int  `json:"id"`
	P1 Vec2 `json:"p1"`
	P2 Vec2 `json:"p2"`
}

// Direction returns the vector from P1 to P2.
func (w Wall) Direction() Vec2 {
	return w.P2.Minus(w.P1)
}

// Snapshot is the board state for one planning cycle. It is passed by value
// and never mutated by the planner.
type Snapshot struct {
	CueBall Ball   `json:"cue_ball"`
	Targets []Ball `json:"targets"`
	Holes   []Hole `json:"holes"`
	Walls   []Wall `json:"walls"`
}

// ShotKind distinguishes a direct shot from a single-cushion bank shot.
// The zero value is Direct; a Reflected kind always carries its wall.
type ShotKind struct {
	wall      Wall
	reflected bool
}

// Direct is the kind of a straight cue→target shot.
func Direct() ShotKind { return ShotKind{} }

// Reflected is the kind of a shot banked off w before reaching the target.
func Reflected(w Wall) ShotKind { return ShotKind{wall: w, reflected: true} }

// Wall returns the banking wall and true for a reflected kind.
func (k ShotKind) Wall() (Wall, bool) {
	return k.wall, k.reflected
}

func (k ShotKind) IsReflected() bool { return k.reflected }

func (k ShotKind) String() string {
	if k.reflected {
		return fmt.Sprintf("reflected(wall %d)", k.wall.ID)
	}
	return "direct"
}

// Shot is one feasible candidate. It is immutable once built.
type Shot struct {
	kind          ShotKind
	cue           Ball
	target        Ball
	hole          Hole
	aimPoint      Vec2
	totalDistance float64
}

// newShot builds a shot whose total distance is the cue→aim leg plus the
// target→hole leg.
func newShot(kind ShotKind, cue, target Ball, hole Hole, aim Vec2) Shot {
	return Shot{
		kind:          kind,
		cue:           cue,
		target:        target,
		hole:          hole,
		aimPoint:      aim,
		totalDistance: cue.Position.DistanceTo(aim) + target.Position.DistanceTo(hole.Position),
	}
}

func (s Shot) Kind() ShotKind         { return s.kind }
func (s Shot) CueBall() Ball          { return s.cue }
func (s Shot) Target() Ball           { return s.target }
func (s Shot) Hole() Hole             { return s.hole }
func (s Shot) AimPoint() Vec2         { return s.aimPoint }
func (s Shot) TotalDistance() float64 { return s.totalDistance }

func (s Shot) String() string {
	return fmt.Sprintf("%s ball=%d hole=%d aim=(%.1f,%.1f) dist=%.1f",
		s.kind, s.target.ID, s.hole.ID, s.aimPoint.X, s.aimPoint.Y, s.totalDistance)
}

type shotJSON struct {
	Kind          string  `json:"kind"`
	WallID        *int    `json:"wall_id,omitempty"`
	TargetBall    Ball    `json:"target_ball"`
	TargetHole    Hole    `json:"target_hole"`
	AimPoint      Vec2    `json:"aim_point"`
	TotalDistance float64 `json:"total_distance"`
}

func (s Shot) MarshalJSON() ([]byte, error) {
	out := shotJSON{
		Kind:          "direct",
		TargetBall:    s.target,
		TargetHole:    s.hole,
		AimPoint:      s.aimPoint,
		TotalDistance: s.totalDistance,
	}
	if w, ok := s.kind.Wall(); ok {
		out.Kind = "reflected"
		id := w.ID
		out.WallID = &id
	}
	return json.Marshal(out)
}
