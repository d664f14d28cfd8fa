package planner

import "math"

// Epsilon is the coordinate tolerance in millimeters used when deciding
// whether two points coincide.
const Epsilon = 1e-6

// Vec2 is a planar vector or point in the table frame, in millimeters.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Plus(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Minus(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Times(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

func (v Vec2) Dot(o Vec2) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the z component of the 3D cross product. Unlike the
// magnitude-only variant, the sign is kept: positive when o lies to the left of v.
func (v Vec2) Cross(o Vec2) float64 {
	return v.X*o.Y - v.Y*o.X
}

func (v Vec2) Magnitude() float64 {
	return math.Hypot(v.X, v.Y)
}

func (v Vec2) MagnitudeSquared() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalize returns the unit vector along v and false when v has no direction.
func (v Vec2) Normalize() (Vec2, bool) {
	m := v.Magnitude()
	if m < Epsilon {
		return Vec2{}, false
	}
	return v.Times(1.0 / m), true
}

func (v Vec2) LeftNormal() Vec2 {
	return Vec2{X: -v.Y, Y: v.X}
}

func (v Vec2) DistanceTo(o Vec2) float64 {
	return o.Minus(v).Magnitude()
}

// Near reports whether two points coincide within Epsilon.
func (v Vec2) Near(o Vec2) bool {
	return v.DistanceTo(o) < Epsilon
}

func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
