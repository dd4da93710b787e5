package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Mat4 is a 4×4 affine transform stored row-major.
// Value type so scene nodes can copy transforms without heap allocation.
type Mat4 [16]float64

// Identity returns the identity transform.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mul returns a × b. Applied to a point, b acts first.
func Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a point (w=1).
func (m Mat4) MulPoint(v r3.Vec) r3.Vec {
	return r3.Vec{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3],
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7],
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11],
	}
}

// Translation returns a pure translation transform.
func Translation(t r3.Vec) Mat4 {
	return Mat4{
		1, 0, 0, t.X,
		0, 1, 0, t.Y,
		0, 0, 1, t.Z,
		0, 0, 0, 1,
	}
}

// Rotation returns the transform rotating by alpha radians about axis.
func Rotation(alpha float64, axis r3.Vec) Mat4 {
	rot := r3.NewRotation(alpha, axis)
	ex := snap(rot.Rotate(r3.Vec{X: 1}))
	ey := snap(rot.Rotate(r3.Vec{Y: 1}))
	ez := snap(rot.Rotate(r3.Vec{Z: 1}))
	return Mat4{
		ex.X, ey.X, ez.X, 0,
		ex.Y, ey.Y, ez.Y, 0,
		ex.Z, ey.Z, ez.Z, 0,
		0, 0, 0, 1,
	}
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 {
	return deg * math.Pi / 180
}

// FromColumnMajor builds a transform from 16 values in column-major order,
// the layout used by glTF node matrices.
func FromColumnMajor(v [16]float64) Mat4 {
	var m Mat4
	for c := 0; c < 4; c++ {
		for r := 0; r < 4; r++ {
			m[r*4+c] = v[c*4+r]
		}
	}
	return m
}

// FromTRS composes translation, rotation quaternion (x, y, z, w) and scale
// into T × R × S.
func FromTRS(t [3]float64, q [4]float64, s [3]float64) Mat4 {
	x, y, z, w := q[0], q[1], q[2], q[3]
	xx, yy, zz := x*x, y*y, z*z
	xy, xz, yz := x*y, x*z, y*z
	wx, wy, wz := w*x, w*y, w*z

	return Mat4{
		(1 - 2*(yy+zz)) * s[0], 2 * (xy - wz) * s[1], 2 * (xz + wy) * s[2], t[0],
		2 * (xy + wz) * s[0], (1 - 2*(xx+zz)) * s[1], 2 * (yz - wx) * s[2], t[1],
		2 * (xz - wy) * s[0], 2 * (yz + wx) * s[1], (1 - 2*(xx+yy)) * s[2], t[2],
		0, 0, 0, 1,
	}
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	id := Identity()
	for i := 0; i < 16; i++ {
		d := m[i] - id[i]
		if d > 1e-8 || d < -1e-8 {
			return false
		}
	}
	return true
}

// snap rounds components within 1e-12 of an integer so that quarter and half
// turns produce exact axis permutations.
func snap(v r3.Vec) r3.Vec {
	f := func(x float64) float64 {
		if r := math.Round(x); math.Abs(x-r) < 1e-12 {
			return r
		}
		return x
	}
	return r3.Vec{X: f(v.X), Y: f(v.Y), Z: f(v.Z)}
}
