package dispmode

import (
	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/config"
	"github.com/go-gl/mathgl/mgl32"
)

// Oculus is a display mode backed by an HMD session. Besides the DisplayMode contract
// it exposes the per-frame eye poses the camera controller fuses into a view.
type Oculus interface {
	DisplayMode

	// HMD returns the underlying hardware session.
	HMD() HMD

	// FrameIndex returns the index of the frame currently being rendered.
	// It advances by one on every EndFrame.
	//
	// Returns:
	//   - int64: the current frame index
	FrameIndex() int64

	// PollEyePoses samples fresh eye poses from the HMD for the current frame.
	PollEyePoses()

	// EyePose returns the eye pose sampled by the last PollEyePoses call.
	//
	// Parameters:
	//   - eye: the hardware eye
	//
	// Returns:
	//   - EyePose: the sampled pose
	EyePose(eye HardwareEye) EyePose
}

type oculusImpl struct {
	*modeBase

	hmd        HMD
	frameIndex int64
	eyePoses   [2]EyePose
}

var _ Oculus = &oculusImpl{}

// NewOculus creates an HMD-backed stereo display mode with one viewport per eye.
// Eye offsets and projections come from the HMD; a configured "ipd" value is ignored
// and a warning is logged.
//
// Parameters:
//   - hmd: an initialized HMD session (must not be nil)
//   - options: functional options to configure the display mode
//
// Returns:
//   - Oculus: the HMD display mode
func NewOculus(hmd HMD, options ...DisplayModeBuilderOption) Oculus {
	if hmd == nil {
		panic("dispmode: NewOculus requires a non-nil HMD")
	}
	o := &oculusImpl{
		modeBase: newModeBase(options...),
		hmd:      hmd,
	}
	o.eyePoses[HardwareEyeLeft].Orientation = mgl32.QuatIdent()
	o.eyePoses[HardwareEyeRight].Orientation = mgl32.QuatIdent()

	o.logger.Printf("[Oculus] Initialized HMD: %s", hmd.Name())
	if o.cfg != nil {
		if v, ok := o.cfg.Get(config.KeyIPD); ok {
			diff := o.EyeOffset(common.EyeRight).Sub(o.EyeOffset(common.EyeLeft))
			o.logger.Printf("[Oculus] You specified 'ipd=%s' in the config. It is IGNORED because the HMD reports the IPD.", v)
			o.logger.Printf("[Oculus] The HMD is telling us to use %0.3f cm for the IPD.", diff[0]*100)
		}
	}
	return o
}

func (o *oculusImpl) Name() string {
	return "oculus"
}

func (o *oculusImpl) HMD() HMD {
	return o.hmd
}

func (o *oculusImpl) hardwareEye(op string, viewportID int) HardwareEye {
	switch viewportID {
	case 0:
		return HardwareEyeLeft
	case 1:
		return HardwareEyeRight
	}
	panicViewport(op, viewportID, 2)
	return HardwareEyeLeft
}

func (o *oculusImpl) NumViewports() int {
	return 2
}

func (o *oculusImpl) EyeType(viewportID int) common.Eye {
	if o.hardwareEye("EyeType", viewportID) == HardwareEyeRight {
		return common.EyeRight
	}
	return common.EyeLeft
}

func (o *oculusImpl) Viewport(viewportID int) [4]int {
	w, h := o.hmd.TextureSize(o.hardwareEye("Viewport", viewportID))
	return [4]int{0, 0, w, h}
}

// Frustum is not available for HMDs; only projection matrices are.
func (o *oculusImpl) Frustum(viewportID int) common.Frustum {
	panic(&PreconditionError{
		Op:       "Frustum",
		Eye:      o.EyeType(viewportID),
		Viewport: viewportID,
		Reason:   "the HMD only provides projection matrices, use ProjectionMatrix",
	})
}

func (o *oculusImpl) ProjectionMatrix(viewportID int) mgl32.Mat4 {
	eye := o.hardwareEye("ProjectionMatrix", viewportID)
	near, far := o.clipPlanes()
	return o.hmd.EyeProjection(eye, near, far)
}

// EyeOffset re-reads the head-to-eye offset from the HMD on every call since the
// IPD can be adjusted while the application runs.
func (o *oculusImpl) EyeOffset(eye common.Eye) mgl32.Vec3 {
	if !eye.IsStereo() {
		panicEye("EyeOffset", eye)
	}
	return o.hmd.HmdToEyeOffset(HardwareEyeFor(eye))
}

func (o *oculusImpl) FrameIndex() int64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.frameIndex
}

func (o *oculusImpl) PollEyePoses() {
	idx := o.FrameIndex()
	poses := o.hmd.EyePoses(idx)
	o.mu.Lock()
	o.eyePoses = poses
	o.mu.Unlock()
}

func (o *oculusImpl) EyePose(eye HardwareEye) EyePose {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.eyePoses[eye]
}

func (o *oculusImpl) BeginFrame() {}

func (o *oculusImpl) EndFrame() {
	o.mu.Lock()
	idx, poses := o.frameIndex, o.eyePoses
	o.mu.Unlock()

	if err := o.hmd.SubmitFrame(idx, poses); err != nil {
		o.logger.Printf("[Oculus] SubmitFrame(%d) failed: %v", idx, err)
	}

	o.mu.Lock()
	o.frameIndex++
	o.mu.Unlock()
}

func (o *oculusImpl) BeginEye(viewportID int) {
	o.hardwareEye("BeginEye", viewportID)
}

func (o *oculusImpl) EndEye(viewportID int) {
	o.hardwareEye("EndEye", viewportID)
}
