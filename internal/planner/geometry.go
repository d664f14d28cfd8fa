package planner

import "math"

// DistanceToLine returns the perpendicular distance from p to the infinite
// line through a and b. A degenerate line (a == b) falls back to |p-a|.
func DistanceToLine(a, b, p Vec2) float64 {
	dir := b.Minus(a)
	length := dir.Magnitude()
	if length < Epsilon {
		return a.DistanceTo(p)
	}
	return math.Abs(dir.Cross(p.Minus(a))) / length
}

// AngleBetween returns the angle between v1 and v2 in degrees, in [0, 180].
// The cosine is clamped to [-1, 1] so floating-point drift never produces NaN.
// Zero-length inputs yield 0.
func AngleBetween(v1, v2 Vec2) float64 {
	denom := v1.Magnitude() * v2.Magnitude()
	if denom == 0 {
		return 0
	}
	cos := v1.Dot(v2) / denom
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return math.Acos(cos) * 180 / math.Pi
}

// ReflectPoint mirrors p across the infinite line through a and b.
func ReflectPoint(p, a, b Vec2) Vec2 {
	dir, ok := b.Minus(a).Normalize()
	if !ok {
		return p
	}
	// foot of the perpendicular from p onto the line
	foot := a.Plus(dir.Times(p.Minus(a).Dot(dir)))
	return foot.Times(2).Minus(p)
}

// ReflectDirection mirrors a direction vector off a line with direction
// lineDir: R = V - 2(V·N)N with N the unit normal.
func ReflectDirection(v, lineDir Vec2) Vec2 {
	dir, ok := lineDir.Normalize()
	if !ok {
		return v
	}
	n := dir.LeftNormal()
	return v.Minus(n.Times(2 * v.Dot(n)))
}

// lineIntersectLine returns the intersection of the infinite lines p1p2 and
// p3p4, and false when they are parallel.
func lineIntersectLine(p1, p2, p3, p4 Vec2) (Vec2, bool) {
	a1 := p2.Y - p1.Y
	b1 := p1.X - p2.X
	c1 := p2.X*p1.Y - p1.X*p2.Y

	a2 := p4.Y - p3.Y
	b2 := p3.X - p4.X
	c2 := p4.X*p3.Y - p3.X*p4.Y

	denom := a1*b2 - a2*b1
	if math.Abs(denom) < Epsilon {
		return Vec2{}, false
	}

	return Vec2{
		X: (b1*c2 - b2*c1) / denom,
		Y: (a2*c1 - a1*c2) / denom,
	}, true
}

// onSegment reports whether p, already known to be on the line ab, lies
// between a and b (inclusive, with tolerance).
func onSegment(p, a, b Vec2) bool {
	return p.Minus(a).Dot(p.Minus(b)) <= Epsilon
}

// sameSide reports whether p and q lie strictly on the same side of line ab.
func sameSide(p, q, a, b Vec2) bool {
	dir := b.Minus(a)
	sp := dir.Cross(p.Minus(a))
	sq := dir.Cross(q.Minus(a))
	return sp*sq > 0
}
