package dispmode

import (
	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// sideBySide splits the window into a left-eye half and a right-eye half.
// Viewport 0 is the left eye, viewport 1 the right eye.
type sideBySide struct {
	*modeBase
}

var _ DisplayMode = &sideBySide{}

// NewSideBySide creates a stereo display mode that renders the left eye into the left
// half of the window and the right eye into the right half. Each eye gets an
// asymmetric frustum converging at the configured convergence distance.
//
// Parameters:
//   - options: functional options to configure the display mode
//
// Returns:
//   - DisplayMode: the side-by-side display mode
func NewSideBySide(options ...DisplayModeBuilderOption) DisplayMode {
	return &sideBySide{modeBase: newModeBase(options...)}
}

func (s *sideBySide) Name() string {
	return "sidebyside"
}

func (s *sideBySide) NumViewports() int {
	return 2
}

func (s *sideBySide) eyeFor(op string, viewportID int) common.Eye {
	switch viewportID {
	case 0:
		return common.EyeLeft
	case 1:
		return common.EyeRight
	}
	panicViewport(op, viewportID, 2)
	return common.EyeUnknown
}

func (s *sideBySide) EyeType(viewportID int) common.Eye {
	return s.eyeFor("EyeType", viewportID)
}

func (s *sideBySide) Viewport(viewportID int) [4]int {
	s.eyeFor("Viewport", viewportID)
	w, h := s.size()
	half := w / 2
	return [4]int{viewportID * half, 0, half, h}
}

func (s *sideBySide) Frustum(viewportID int) common.Frustum {
	eye := s.eyeFor("Frustum", viewportID)
	w, h := s.size()
	near, far := s.clipPlanes()
	f := common.SymmetricFrustum(s.fovY, float32(w/2)/float32(max(h, 1)), near, far)

	// The left eye sits at -ipd/2, so its frustum shifts right to converge on the
	// screen plane; the right eye mirrors it.
	shift := (s.currentIPD() / 2) * near / s.convergence
	if eye == common.EyeRight {
		shift = -shift
	}
	return f.Shift(shift)
}

func (s *sideBySide) ProjectionMatrix(viewportID int) mgl32.Mat4 {
	return s.Frustum(viewportID).Matrix()
}

func (s *sideBySide) EyeOffset(eye common.Eye) mgl32.Vec3 {
	return s.ipdEyeOffset("EyeOffset", eye)
}

func (s *sideBySide) BeginFrame() {}

func (s *sideBySide) EndFrame() {}

func (s *sideBySide) BeginEye(viewportID int) {
	s.eyeFor("BeginEye", viewportID)
}

func (s *sideBySide) EndEye(viewportID int) {
	s.eyeFor("EndEye", viewportID)
}
