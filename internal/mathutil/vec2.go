package mathutil

import "math"

// Vec2 is a 2-component screen-space vector (x right, y down).
type Vec2 [2]float64

func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a[0] + b[0], a[1] + b[1]}
}

func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a[0] - b[0], a[1] - b[1]}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{v[0] * s, v[1] * s}
}

func (v Vec2) Neg() Vec2 {
	return Vec2{-v[0], -v[1]}
}

func (v Vec2) X() float64 { return v[0] }
func (v Vec2) Y() float64 { return v[1] }

// ApproxEqual reports whether both components differ by at most eps.
func (a Vec2) ApproxEqual(b Vec2, eps float64) bool {
	return math.Abs(a[0]-b[0]) <= eps && math.Abs(a[1]-b[1]) <= eps
}
