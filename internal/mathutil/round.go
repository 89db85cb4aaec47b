package mathutil

import "math"

// Round rounds half toward +Inf, the way browser Math.round does.
// math.Round rounds half away from zero, which differs for negative halves (-2.5 -> -2 here).
func Round(v float64) float64 {
	return math.Floor(v + 0.5)
}

// Clamp01 limits v to [0, 1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	if v != v || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// NearlyEqual compares two floats with an absolute tolerance.
func NearlyEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Positive reports whether v is a finite number above zero.
func Positive(v float64) bool {
	return Finite(v) && v > 0
}
