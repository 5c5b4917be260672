package dispmode

import (
	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// desktop renders one middle-eye viewport covering the whole window.
type desktop struct {
	*modeBase
}

var _ DisplayMode = &desktop{}

// NewDesktop creates a mono display mode with a single viewport showing common.EyeMiddle.
// Eye offsets are still available (±ipd/2 on x) for callers that request a stereo eye.
//
// Parameters:
//   - options: functional options to configure the display mode
//
// Returns:
//   - DisplayMode: the desktop display mode
func NewDesktop(options ...DisplayModeBuilderOption) DisplayMode {
	return &desktop{modeBase: newModeBase(options...)}
}

func (d *desktop) Name() string {
	return "desktop"
}

func (d *desktop) NumViewports() int {
	return 1
}

func (d *desktop) checkViewport(op string, viewportID int) {
	if viewportID != 0 {
		panicViewport(op, viewportID, 1)
	}
}

func (d *desktop) EyeType(viewportID int) common.Eye {
	d.checkViewport("EyeType", viewportID)
	return common.EyeMiddle
}

func (d *desktop) Viewport(viewportID int) [4]int {
	d.checkViewport("Viewport", viewportID)
	w, h := d.size()
	return [4]int{0, 0, w, h}
}

func (d *desktop) Frustum(viewportID int) common.Frustum {
	d.checkViewport("Frustum", viewportID)
	w, h := d.size()
	near, far := d.clipPlanes()
	return common.SymmetricFrustum(d.fovY, float32(w)/float32(max(h, 1)), near, far)
}

func (d *desktop) ProjectionMatrix(viewportID int) mgl32.Mat4 {
	return d.Frustum(viewportID).Matrix()
}

func (d *desktop) EyeOffset(eye common.Eye) mgl32.Vec3 {
	return d.ipdEyeOffset("EyeOffset", eye)
}

func (d *desktop) BeginFrame() {}

func (d *desktop) EndFrame() {}

func (d *desktop) BeginEye(viewportID int) {
	d.checkViewport("BeginEye", viewportID)
}

func (d *desktop) EndEye(viewportID int) {
	d.checkViewport("EndEye", viewportID)
}
