package dispmode

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// HardwareEye is the eye index used by head-mounted display hardware.
type HardwareEye int

const (
	HardwareEyeLeft HardwareEye = iota
	HardwareEyeRight
)

// HardwareEyeFor maps a renderer eye to a hardware eye. Only common.EyeRight maps to
// HardwareEyeRight; every other eye, including common.EyeMiddle, maps to HardwareEyeLeft.
//
// Parameters:
//   - eye: the renderer eye
//
// Returns:
//   - HardwareEye: the hardware eye index
func HardwareEyeFor(eye common.Eye) HardwareEye {
	if eye == common.EyeRight {
		return HardwareEyeRight
	}
	return HardwareEyeLeft
}

// EyePose is the tracked pose of one eye as reported by the HMD, in tracking space.
type EyePose struct {
	Position    mgl32.Vec3
	Orientation mgl32.Quat
}

// HMD is the head-mounted display hardware session a display mode drives.
// Calls are blocking and expected to return within a fraction of a millisecond.
type HMD interface {
	// Name returns a human readable product name.
	Name() string

	// EyePoses samples the predicted per-eye poses for a frame.
	//
	// Parameters:
	//   - frameIndex: the frame the poses will be displayed in
	//
	// Returns:
	//   - [2]EyePose: poses indexed by HardwareEye
	EyePoses(frameIndex int64) [2]EyePose

	// HmdToEyeOffset returns the current translation from the head center to an eye.
	// The value changes when the user adjusts the lens spacing.
	//
	// Parameters:
	//   - eye: the hardware eye
	//
	// Returns:
	//   - mgl32.Vec3: offset in head space, meters
	HmdToEyeOffset(eye HardwareEye) mgl32.Vec3

	// EyeProjection returns the projection matrix for an eye's lens field of view.
	//
	// Parameters:
	//   - eye: the hardware eye
	//   - near, far: clipping plane distances
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (column-major)
	EyeProjection(eye HardwareEye, near, far float32) mgl32.Mat4

	// TextureSize returns the recommended render target size for an eye.
	//
	// Parameters:
	//   - eye: the hardware eye
	//
	// Returns:
	//   - int, int: width and height in pixels
	TextureSize(eye HardwareEye) (int, int)

	// SubmitFrame hands a finished frame to the compositor.
	//
	// Parameters:
	//   - frameIndex: the frame being submitted
	//   - poses: the eye poses the frame was rendered with
	//
	// Returns:
	//   - error: error if the compositor rejected the frame
	SubmitFrame(frameIndex int64, poses [2]EyePose) error
}

// SimulatedHMD is a deterministic in-process HMD. The head pose and IPD are set
// explicitly, which makes it suitable for tests and for running the samples without hardware.
type SimulatedHMD struct {
	mu *sync.Mutex

	headPosition    mgl32.Vec3
	headOrientation mgl32.Quat
	ipd             float32
	fovY            float32
	width, height   int

	polls     int
	submitted []int64
}

var _ HMD = &SimulatedHMD{}

// NewSimulatedHMD creates a simulated HMD at the tracking origin with identity orientation
// and the default IPD.
//
// Returns:
//   - *SimulatedHMD: the simulated device
func NewSimulatedHMD() *SimulatedHMD {
	return &SimulatedHMD{
		mu:              &sync.Mutex{},
		headOrientation: mgl32.QuatIdent(),
		ipd:             DefaultIPD,
		fovY:            mgl32.DegToRad(90),
		width:           1184,
		height:          1464,
	}
}

// SetHeadPose sets the head center pose reported by subsequent EyePoses calls.
//
// Parameters:
//   - position: head center in tracking space
//   - orientation: head orientation (normalized on store)
func (h *SimulatedHMD) SetHeadPose(position mgl32.Vec3, orientation mgl32.Quat) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.headPosition = position
	h.headOrientation = orientation.Normalize()
}

// SetIPD changes the lens spacing, as a user adjusting the headset would.
//
// Parameters:
//   - ipd: interpupillary distance in meters
func (h *SimulatedHMD) SetIPD(ipd float32) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ipd = ipd
}

// Polls returns how many times EyePoses has been called.
//
// Returns:
//   - int: the poll count
func (h *SimulatedHMD) Polls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.polls
}

// Submitted returns the frame indices passed to SubmitFrame, in order.
//
// Returns:
//   - []int64: submitted frame indices
func (h *SimulatedHMD) Submitted() []int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]int64(nil), h.submitted...)
}

func (h *SimulatedHMD) Name() string {
	return "Simulated HMD"
}

func (h *SimulatedHMD) EyePoses(frameIndex int64) [2]EyePose {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.polls++
	var poses [2]EyePose
	for i, eye := range []HardwareEye{HardwareEyeLeft, HardwareEyeRight} {
		offset := h.headOrientation.Rotate(h.offsetLocked(eye))
		poses[i] = EyePose{
			Position:    h.headPosition.Add(offset),
			Orientation: h.headOrientation,
		}
	}
	return poses
}

func (h *SimulatedHMD) offsetLocked(eye HardwareEye) mgl32.Vec3 {
	if eye == HardwareEyeRight {
		return mgl32.Vec3{h.ipd / 2, 0, 0}
	}
	return mgl32.Vec3{-h.ipd / 2, 0, 0}
}

func (h *SimulatedHMD) HmdToEyeOffset(eye HardwareEye) mgl32.Vec3 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.offsetLocked(eye)
}

func (h *SimulatedHMD) EyeProjection(eye HardwareEye, near, far float32) mgl32.Mat4 {
	h.mu.Lock()
	defer h.mu.Unlock()
	f := common.SymmetricFrustum(h.fovY, float32(h.width)/float32(h.height), near, far)
	// Lens centers sit slightly toward the nose.
	nasal := (f.Right - f.Left) * 0.05
	if eye == HardwareEyeLeft {
		return f.Shift(nasal).Matrix()
	}
	return f.Shift(-nasal).Matrix()
}

func (h *SimulatedHMD) TextureSize(eye HardwareEye) (int, int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.width, h.height
}

func (h *SimulatedHMD) SubmitFrame(frameIndex int64, poses [2]EyePose) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.submitted = append(h.submitted, frameIndex)
	return nil
}
