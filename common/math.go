package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// RotationEpsilon is the default tolerance used when checking that a matrix is a proper rotation.
const RotationEpsilon = 1e-4

// TranslateV builds a 4x4 translation matrix from a vector.
//
// Parameters:
//   - v: translation vector
//
// Returns:
//   - mgl32.Mat4: the translation matrix (column-major)
func TranslateV(v mgl32.Vec3) mgl32.Mat4 {
	return mgl32.Translate3D(v[0], v[1], v[2])
}

// StripTranslation returns m with its translation column replaced by (0, 0, 0, 1).
//
// Parameters:
//   - m: source matrix (column-major)
//
// Returns:
//   - mgl32.Mat4: the matrix without translation
func StripTranslation(m mgl32.Mat4) mgl32.Mat4 {
	m.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return m
}

// IsRotation reports whether the upper 3x3 of m is orthonormal with determinant +1
// and the remaining row/column hold no translation or projection terms.
//
// Parameters:
//   - m: the matrix to check
//   - eps: absolute tolerance per element
//
// Returns:
//   - bool: true if m is a pure rotation within eps
func IsRotation(m mgl32.Mat4, eps float32) bool {
	r := m.Mat3()
	rrt := r.Mul3(r.Transpose())
	if !rrt.ApproxEqualThreshold(mgl32.Ident3(), eps) {
		return false
	}
	if !mgl32.FloatEqualThreshold(r.Det(), 1, eps) {
		return false
	}
	for i := 0; i < 3; i++ {
		if abs32(m.At(i, 3)) > eps || abs32(m.At(3, i)) > eps {
			return false
		}
	}
	return mgl32.FloatEqualThreshold(m.At(3, 3), 1, eps)
}

// Orthonormalize rebuilds the upper 3x3 of m with Gram-Schmidt so that accumulated
// floating point error cannot introduce shear or scale into a pose.
// The third column is recomputed as the cross product of the first two.
//
// Parameters:
//   - m: a near-rotation matrix
//
// Returns:
//   - mgl32.Mat4: a proper rotation with no translation
func Orthonormalize(m mgl32.Mat4) mgl32.Mat4 {
	x := m.Col(0).Vec3()
	y := m.Col(1).Vec3()
	if x.Len() < 1e-8 {
		x = mgl32.Vec3{1, 0, 0}
	}
	x = x.Normalize()
	y = y.Sub(x.Mul(x.Dot(y)))
	if y.Len() < 1e-8 {
		y = AnyPerpendicular(x)
	}
	y = y.Normalize()
	z := x.Cross(y)
	return mgl32.Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		0, 0, 0, 1,
	}
}

// AnyPerpendicular returns a unit vector perpendicular to v.
//
// Parameters:
//   - v: a non-zero vector
//
// Returns:
//   - mgl32.Vec3: a unit vector orthogonal to v
func AnyPerpendicular(v mgl32.Vec3) mgl32.Vec3 {
	axis := mgl32.Vec3{1, 0, 0}
	if abs32(v[0]) > abs32(v[1]) {
		axis = mgl32.Vec3{0, 1, 0}
	}
	return v.Cross(axis).Normalize()
}

func abs32(f float32) float32 {
	return float32(math.Abs(float64(f)))
}
