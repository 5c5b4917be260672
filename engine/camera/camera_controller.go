package camera

import (
	"log"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/dispmode"
	"github.com/go-gl/mathgl/mgl32"
)

// MiddleAveraging selects how a middle eye is derived from a left/right pair.
type MiddleAveraging int

const (
	// AverageTrue places the middle eye halfway between the two eyes.
	AverageTrue MiddleAveraging = iota
	// AverageLegacy divides the summed eye positions by three. It reproduces the output
	// of older builds and is kept for comparing recorded experiment data.
	AverageLegacy
)

func (m MiddleAveraging) divisor() float32 {
	if m == AverageLegacy {
		return 3
	}
	return 2
}

// MismatchFunc is called when the controller returns a view for a different eye than requested.
type MismatchFunc func(requested, actual common.Eye)

// CameraController produces per-eye view matrices from a PoseSource. When the source
// cannot produce the requested eye directly, the controller derives it from the eye
// the source did produce and the display mode's eye offsets.
type CameraController interface {
	// Get returns the view matrix for an eye.
	//
	// Parameters:
	//   - eye: the requested eye
	//
	// Returns:
	//   - mgl32.Mat4: world-to-eye view matrix (column-major)
	//   - common.Eye: the eye the matrix is actually for; differs from eye only on a logged mismatch
	Get(eye common.Eye) (mgl32.Mat4, common.Eye)

	// GetSeparate returns the raw pose the source produced for an eye, before any
	// reconciliation.
	//
	// Parameters:
	//   - eye: the requested eye
	//
	// Returns:
	//   - mgl32.Vec3: world-space position
	//   - mgl32.Mat4: camera-to-world rotation with no translation
	//   - common.Eye: the eye the pose is actually for
	GetSeparate(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye)

	// Position returns the world-space position of an eye, recovered from its view matrix.
	//
	// Parameters:
	//   - eye: the requested eye
	//
	// Returns:
	//   - mgl32.Vec3: world-space eye position
	//   - common.Eye: the eye the position is actually for
	Position(eye common.Eye) (mgl32.Vec3, common.Eye)

	// BeginFrame marks any per-frame pose state in the source as stale. Call it once
	// at the start of every frame, before the first Get.
	BeginFrame()

	// Source returns the pose source the controller reads from.
	//
	// Returns:
	//   - PoseSource: the pose source
	Source() PoseSource

	// DisplayMode returns the display mode the controller reads eye offsets from.
	//
	// Returns:
	//   - dispmode.DisplayMode: the display mode
	DisplayMode() dispmode.DisplayMode

	// Mismatches returns how many times Get returned an eye other than the requested one.
	//
	// Returns:
	//   - uint64: the mismatch count
	Mismatches() uint64
}

type cameraControllerImpl struct {
	mu *sync.Mutex

	display dispmode.DisplayMode
	source  PoseSource

	averaging  MiddleAveraging
	onMismatch MismatchFunc
	mismatches atomic.Uint64
	logger     *log.Logger
}

var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a controller that reads poses from source and eye offsets from display.
// The controller does not own either; both must outlive it.
//
// Parameters:
//   - display: the display mode being rendered to (must not be nil)
//   - source: the pose source (must not be nil)
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(display dispmode.DisplayMode, source PoseSource, options ...CameraControllerOption) CameraController {
	if display == nil {
		panic("camera: NewCameraController requires a display mode")
	}
	if source == nil {
		panic("camera: NewCameraController requires a pose source")
	}
	cc := &cameraControllerImpl{
		mu:        &sync.Mutex{},
		display:   display,
		source:    source,
		averaging: AverageTrue,
		logger:    log.Default(),
	}
	for _, option := range options {
		option(cc)
	}
	return cc
}

// ViewFromPosRot builds a view matrix from a camera position and its camera-to-world
// rotation: transpose(rot) * translate(-pos).
//
// Parameters:
//   - pos: world-space camera position
//   - rot: camera-to-world rotation (translation is ignored)
//
// Returns:
//   - mgl32.Mat4: the world-to-camera view matrix
func ViewFromPosRot(pos mgl32.Vec3, rot mgl32.Mat4) mgl32.Mat4 {
	return rot.Transpose().Mul4(common.TranslateV(pos.Mul(-1)))
}

func (cc *cameraControllerImpl) GetSeparate(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) {
	pos, rot, actual := cc.source.getSeparate(eye)
	return pos, common.StripTranslation(rot), actual
}

func (cc *cameraControllerImpl) Get(requested common.Eye) (mgl32.Mat4, common.Eye) {
	pos, rot, actual := cc.GetSeparate(requested)

	if actual == requested {
		return ViewFromPosRot(pos, rot), actual
	}

	// A middle pose becomes a stereo eye by shifting the world opposite to the eye offset.
	if actual == common.EyeMiddle && requested.IsStereo() {
		offset := cc.display.EyeOffset(requested)
		shift := common.TranslateV(offset.Mul(-1))
		return shift.Mul4(ViewFromPosRot(pos, rot)), requested
	}

	if requested == common.EyeMiddle && actual.IsStereo() {
		otherPos, _, other := cc.GetSeparate(actual.Other())
		if other == actual.Other() {
			cc.mu.Lock()
			div := cc.averaging.divisor()
			cc.mu.Unlock()
			avg := pos.Add(otherPos).Mul(1 / div)
			return ViewFromPosRot(avg, rot), common.EyeMiddle
		}
	}

	cc.mismatch(requested, actual)
	return ViewFromPosRot(pos, rot), actual
}

func (cc *cameraControllerImpl) mismatch(requested, actual common.Eye) {
	cc.mismatches.Add(1)
	cc.mu.Lock()
	logger, hook := cc.logger, cc.onMismatch
	cc.mu.Unlock()

	logger.Printf("[Camera] Requested eye %s but returning eye %s", requested, actual)
	if hook != nil {
		hook(requested, actual)
	}
}

func (cc *cameraControllerImpl) Position(eye common.Eye) (mgl32.Vec3, common.Eye) {
	view, actual := cc.Get(eye)
	return view.Inv().Col(3).Vec3(), actual
}

func (cc *cameraControllerImpl) BeginFrame() {
	cc.source.beginFrame()
}

func (cc *cameraControllerImpl) Source() PoseSource {
	return cc.source
}

func (cc *cameraControllerImpl) DisplayMode() dispmode.DisplayMode {
	return cc.display
}

func (cc *cameraControllerImpl) Mismatches() uint64 {
	return cc.mismatches.Load()
}
