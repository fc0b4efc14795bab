// Package geom provides 2D pose math, convex shapes and narrow-phase
// collision tests for the simulation engine. Everything here is pure:
// functions either return a result or report "no contact", never an error.
package geom

import "math"

// Vec2 is a 2D vector.
type Vec2 struct {
	X float64
	Y float64
}

func (v Vec2) Add(o Vec2) Vec2      { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2      { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }
func (v Vec2) Dot(o Vec2) float64   { return v.X*o.X + v.Y*o.Y }
func (v Vec2) Cross(o Vec2) float64 { return v.X*o.Y - v.Y*o.X }
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }
func (v Vec2) Neg() Vec2    { return Vec2{-v.X, -v.Y} }

// Perp returns v rotated 90 degrees counter-clockwise.
func (v Vec2) Perp() Vec2 { return Vec2{-v.Y, v.X} }

// Normalized returns the unit vector, or (1,0) for a near-zero input.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l < 1e-12 {
		return Vec2{1, 0}
	}
	return Vec2{v.X / l, v.Y / l}
}

// IsFinite reports whether both components are finite.
func (v Vec2) IsFinite() bool {
	return !math.IsNaN(v.X) && !math.IsInf(v.X, 0) && !math.IsNaN(v.Y) && !math.IsInf(v.Y, 0)
}

// Pose is a 2D rigid transform: translation in meters plus a heading in
// radians. It is an immutable value type; all methods return new poses.
type Pose struct {
	X     float64
	Y     float64
	Theta float64
}

// Translated shifts the pose by (dx, dy) in world coordinates.
func (p Pose) Translated(dx, dy float64) Pose {
	return Pose{p.X + dx, p.Y + dy, p.Theta}
}

// Rotated adds dtheta to the heading.
func (p Pose) Rotated(dtheta float64) Pose {
	return Pose{p.X, p.Y, p.Theta + dtheta}
}

// TransformPoint maps a point from the pose's local frame into world space.
func (p Pose) TransformPoint(pt Vec2) Vec2 {
	c := math.Cos(p.Theta)
	s := math.Sin(p.Theta)
	return Vec2{
		X: p.X + c*pt.X - s*pt.Y,
		Y: p.Y + s*pt.X + c*pt.Y,
	}
}

// Compose treats other as a pose expressed in p's frame and returns it in
// world space: rigid-transform multiplication.
func (p Pose) Compose(other Pose) Pose {
	t := p.TransformPoint(Vec2{other.X, other.Y})
	return Pose{t.X, t.Y, p.Theta + other.Theta}
}

// Inverse returns the inverse transform, so that p.Compose(p.Inverse()) is
// the identity.
func (p Pose) Inverse() Pose {
	c := math.Cos(p.Theta)
	s := math.Sin(p.Theta)
	return Pose{
		X:     -p.X*c - p.Y*s,
		Y:     p.X*s - p.Y*c,
		Theta: -p.Theta,
	}
}

// Position returns the translation part as a vector.
func (p Pose) Position() Vec2 { return Vec2{p.X, p.Y} }

// Heading returns the unit vector the pose is facing along.
func (p Pose) Heading() Vec2 {
	return Vec2{math.Cos(p.Theta), math.Sin(p.Theta)}
}

// IsFinite reports whether all three components are finite.
func (p Pose) IsFinite() bool {
	for _, v := range [3]float64{p.X, p.Y, p.Theta} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
