package viewmat

import (
	_ "embed"

	"github.com/go-gl/mathgl/mgl32"
)

// GPUEyeUniformSource is the GLSL 1.20 declaration matching GPUEyeUniform. Prepend it to a
// vertex shader after the #version line.
//
//go:embed assets/eye_uniform.glsl
var GPUEyeUniformSource string

// Uniform names declared by GPUEyeUniformSource.
const (
	UniformViewProj    = "viewProj"
	UniformEyePosition = "eyePosition"
)

// GPUEyeUniform holds the per-eye values uploaded to shaders.
type GPUEyeUniform struct {
	ViewProj    mgl32.Mat4 // uniform viewProj: combined view-projection matrix (column-major)
	EyePosition mgl32.Vec3 // uniform eyePosition: world-space eye position
}
