package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Frustum describes an OpenGL-style view frustum. Left, Right, Bottom and Top are
// measured on the near plane in eye space. Near and Far are positive distances.
type Frustum struct {
	Left   float32
	Right  float32
	Bottom float32
	Top    float32
	Near   float32
	Far    float32
}

// SymmetricFrustum builds a frustum centered on the view axis.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - Frustum: the symmetric frustum
func SymmetricFrustum(fovY, aspect, near, far float32) Frustum {
	top := near * float32(math.Tan(float64(fovY)/2))
	right := top * aspect
	return Frustum{
		Left:   -right,
		Right:  right,
		Bottom: -top,
		Top:    top,
		Near:   near,
		Far:    far,
	}
}

// Shift returns a copy of the frustum moved horizontally on the near plane.
// Side-by-side stereo uses this to build the asymmetric per-eye frusta that
// converge on a common screen plane.
//
// Parameters:
//   - dx: horizontal shift on the near plane
//
// Returns:
//   - Frustum: the shifted frustum
func (f Frustum) Shift(dx float32) Frustum {
	f.Left += dx
	f.Right += dx
	return f
}

// Matrix returns the projection matrix equivalent to glFrustum.
//
// Returns:
//   - mgl32.Mat4: the projection matrix (column-major)
func (f Frustum) Matrix() mgl32.Mat4 {
	return mgl32.Frustum(f.Left, f.Right, f.Bottom, f.Top, f.Near, f.Far)
}

// Valid reports whether the frustum describes a non-degenerate volume.
//
// Returns:
//   - bool: true if Right > Left, Top > Bottom and 0 < Near < Far
func (f Frustum) Valid() bool {
	return f.Right > f.Left && f.Top > f.Bottom && f.Near > 0 && f.Far > f.Near
}
