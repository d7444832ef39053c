package common

import "math"

// Dot3 computes the dot product of two 3-component vectors.
//
// Parameters:
//   - a, b: input vectors
//
// Returns:
//   - float32: a · b
func Dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

// Cross3 computes the cross product of two 3-component vectors.
//
// Parameters:
//   - a, b: input vectors
//
// Returns:
//   - [3]float32: a × b
func Cross3(a, b [3]float32) [3]float32 {
	return [3]float32{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

// Length3 computes the Euclidean length of a 3-component vector.
func Length3(v [3]float32) float32 {
	return float32(math.Sqrt(float64(Dot3(v, v))))
}

// Normalize3 returns v scaled to unit length. A zero vector is returned
// unchanged.
//
// Parameters:
//   - v: input vector
//
// Returns:
//   - [3]float32: normalized vector
func Normalize3(v [3]float32) [3]float32 {
	l := Length3(v)
	if l == 0 {
		return v
	}
	inv := 1.0 / l
	return [3]float32{v[0] * inv, v[1] * inv, v[2] * inv}
}

// Add3 returns the component-wise sum a + b.
func Add3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

// Sub3 returns the component-wise difference a - b.
func Sub3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] - b[0], a[1] - b[1], a[2] - b[2]}
}

// Scale3 returns v scaled by s.
func Scale3(v [3]float32, s float32) [3]float32 {
	return [3]float32{v[0] * s, v[1] * s, v[2] * s}
}

// Mul3 returns the component-wise product a * b.
func Mul3(a, b [3]float32) [3]float32 {
	return [3]float32{a[0] * b[0], a[1] * b[1], a[2] * b[2]}
}

// Max3 returns the component-wise maximum of a and b.
func Max3(a, b [3]float32) [3]float32 {
	return [3]float32{
		max(a[0], b[0]),
		max(a[1], b[1]),
		max(a[2], b[2]),
	}
}

// Mix3 linearly interpolates between a and b by t, matching WGSL mix().
func Mix3(a, b [3]float32, t float32) [3]float32 {
	return [3]float32{
		Mix(a[0], b[0], t),
		Mix(a[1], b[1], t),
		Mix(a[2], b[2], t),
	}
}

// Mix linearly interpolates between a and b by t, matching WGSL mix().
func Mix(a, b, t float32) float32 {
	return a + (b-a)*t
}

// Clamp constrains v to the range [lo, hi].
func Clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Saturate constrains v to the range [0, 1].
func Saturate(v float32) float32 {
	return Clamp(v, 0, 1)
}

// Smoothstep computes the Hermite interpolation of x between edge0 and edge1,
// matching WGSL smoothstep(): 0 at or below edge0, 1 at or above edge1, with
// smooth cubic falloff in between.
//
// Parameters:
//   - edge0, edge1: interpolation edges
//   - x: input value
//
// Returns:
//   - float32: interpolated value in [0, 1]
func Smoothstep(edge0, edge1, x float32) float32 {
	t := Saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}

// PowF32 raises base to exp in float32 precision, matching WGSL pow() for
// non-negative bases.
func PowF32(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}

// AbsF32 returns the absolute value of v.
func AbsF32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
