// Package core provides the geometry primitives shared by the transform
// engine and the terminal front end: float32 points, 2D affine matrices in
// the scene-graph convention, clamping helpers and a character screen buffer.
// It has no external dependencies.
package core

import "math"

// Point is a 2D point in scene units. The scene graph works in float32, so
// matrix math and claimed offsets use this type.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float32) Point {
	return Point{X: x, Y: y}
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{p.X + q.X, p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{p.X - q.X, p.Y - q.Y}
}

// IsZero reports whether both components are zero.
func (p Point) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Affine is a 2D affine matrix laid out as
//
//	| A  C  TX |
//	| B  D  TY |
//	| 0  0   1 |
type Affine struct {
	A, B, C, D, TX, TY float32
}

// Identity is the identity matrix.
var Identity = Affine{A: 1, D: 1}

// Apply transforms a point by the matrix.
func (m Affine) Apply(p Point) Point {
	return Point{
		X: m.A*p.X + m.C*p.Y + m.TX,
		Y: m.B*p.X + m.D*p.Y + m.TY,
	}
}

// Then returns the matrix that applies m first and then n.
func (m Affine) Then(n Affine) Affine {
	return Affine{
		A:  m.A*n.A + m.B*n.C,
		B:  m.A*n.B + m.B*n.D,
		C:  m.C*n.A + m.D*n.C,
		D:  m.C*n.B + m.D*n.D,
		TX: m.TX*n.A + m.TY*n.C + n.TX,
		TY: m.TX*n.B + m.TY*n.D + n.TY,
	}
}

// Rotation returns a matrix rotating by deg degrees clockwise, the scene
// graph's sign convention.
func Rotation(deg float32) Affine {
	if deg == 0 {
		return Identity
	}
	rad := -Radians(deg)
	s, c := math.Sincos(float64(rad))
	cs, sn := float32(c), float32(s)
	return Affine{A: cs, B: sn, C: -sn, D: cs}
}

// Radians converts degrees to radians in float32.
func Radians(deg float32) float32 {
	return deg * math.Pi / 180
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// ClampF restricts a float64 value to be within [min, max].
func ClampF(val, min, max float64) float64 {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
