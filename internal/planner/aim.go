package planner

import "fmt"

// Pose is a 6-DOF tool pose: millimeters and degrees.
type Pose struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Roll  float64 `json:"roll"`
	Pitch float64 `json:"pitch"`
	Yaw   float64 `json:"yaw"`
}

// Array returns the pose in x, y, z, roll, pitch, yaw order.
func (p Pose) Array() [6]float64 {
	return [6]float64{p.X, p.Y, p.Z, p.Roll, p.Pitch, p.Yaw}
}

// AimParams fix how a planned shot is turned into a tool pose.
type AimParams struct {
	// CueOffset is how far along the strike line from the cue ball center
	// the tool is placed.
	CueOffset float64 `json:"cue_offset"`
	StrikeZ   float64 `json:"strike_z"`
	Roll      float64 `json:"roll"`
	Pitch     float64 `json:"pitch"`
	// ToolForward is the table-frame direction the tool faces at yaw == YawOffset.
	ToolForward Vec2    `json:"tool_forward"`
	YawOffset   float64 `json:"yaw_offset"`
}

func DefaultAimParams() AimParams {
	return AimParams{
		CueOffset:   18,
		ToolForward: Vec2{X: 0, Y: -1},
		YawOffset:   -90,
	}
}

// Aim is the execution-facing result of a plan: where to put the tool and
// how far the balls travel in total.
type Aim struct {
	Pose     Pose    `json:"pose"`
	Distance float64 `json:"distance"`

	// Contact is where the cue ball center must be when it touches the
	// target, in the frame the cue ball is aimed in (mirrored for bank shots).
	Contact Vec2 `json:"contact"`
	// HoleDirection is the unit vector from the (effective) target to the
	// (effective) hole.
	HoleDirection Vec2 `json:"hole_direction"`
	// StrikeDirection is the unit vector the cue ball is launched along.
	StrikeDirection Vec2 `json:"strike_direction"`
}

// DeriveAim converts a selected shot into a contact point and tool pose.
//
// For a bank shot the target and hole are both mirrored across the wall, so
// the cue ball is aimed at a contact point in the mirror frame and the
// cushion folds the path back onto the real target.
//
// The pose yaw is taken from HoleDirection, the target-to-hole unit vector.
// The tool position lies on the cue ball's line of travel (StrikeDirection),
// so for cut and bank shots yaw and tool placement use different vectors.
func DeriveAim(s Shot, p AimParams) (Aim, error) {
	target := s.Target().Position
	hole := s.Hole().Position
	if w, ok := s.Kind().Wall(); ok {
		target = s.AimPoint()
		hole = ReflectPoint(hole, w.P1, w.P2)
	}

	u, ok := hole.Minus(target).Normalize()
	if !ok {
		return Aim{}, fmt.Errorf("target %d sits on hole %d: %w", s.Target().ID, s.Hole().ID, ErrDegenerateInput)
	}
	contact := target.Minus(u.Times(s.Target().Radius + s.CueBall().Radius))

	cue := s.CueBall().Position
	strike, ok := contact.Minus(cue).Normalize()
	if !ok {
		return Aim{}, fmt.Errorf("cue ball already at contact point: %w", ErrDegenerateInput)
	}

	pos := cue.Plus(strike.Times(p.CueOffset))
	return Aim{
		Pose: Pose{
			X:     pos.X,
			Y:     pos.Y,
			Z:     p.StrikeZ,
			Roll:  p.Roll,
			Pitch: p.Pitch,
			Yaw:   Yaw(u, p),
		},
		Distance:        s.TotalDistance(),
		Contact:         contact,
		HoleDirection:   u,
		StrikeDirection: strike,
	}, nil
}

// Yaw returns the tool yaw for a unit direction: the angle to the
// tool-forward reference, signed by which side of it the direction falls on.
func Yaw(dir Vec2, p AimParams) float64 {
	theta := AngleBetween(dir, p.ToolForward)
	if p.ToolForward.Cross(dir) > 0 {
		return p.YawOffset + theta
	}
	return p.YawOffset - theta
}
