// Package noise provides the coherent noise sources that drive the flow field.
//
// A Source is a pure function of three coordinates once constructed: identical inputs always
// produce identical outputs, nearby inputs produce nearby outputs, and every output lies in
// [-1, 1]. Each animation session owns its own instance, so no permutation state is shared
// between callers.
package noise

// Source samples coherent noise at a 3D coordinate
type Source interface {
	Sample(x, y, z float64) float64
}

// Func adapts a plain function to Source
type Func func(x, y, z float64) float64

func (f Func) Sample(x, y, z float64) float64 {
	return f(x, y, z)
}

// Constant returns a Source that always yields v
func Constant(v float64) Source {
	return Func(func(_, _, _ float64) float64 { return v })
}

// clampUnit keeps adapter output inside [-1, 1]
func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
