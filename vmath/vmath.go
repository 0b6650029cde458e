// Package vmath provides the float64 vector and easing helpers used by the flow field
// and the color mapper.
package vmath

// Clamp limits v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp interpolates a→b by t, t is not clamped
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Smoothstep returns the cubic Hermite ease of v across [lo, hi]
// 0 below lo, 1 above hi, u²(3-2u) in between
func Smoothstep(lo, hi, v float64) float64 {
	u := Clamp((v-lo)/(hi-lo), 0, 1)
	return u * u * (3 - 2*u)
}
