package camera

import (
	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// PoseSource supplies raw eye poses to a CameraController. The set of sources is
// closed: use NewManualSource or NewOculusSource.
type PoseSource interface {
	// getSeparate returns a world-space position, a camera-to-world rotation and the
	// eye the pose is actually for.
	getSeparate(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye)

	// beginFrame marks per-frame state stale.
	beginFrame()
}
