package camera

import (
	"log"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/config"
	"github.com/Carmen-Shannon/oxy-vr/engine/dispmode"
	"github.com/Carmen-Shannon/oxy-vr/engine/sensorfuse"
	"github.com/Carmen-Shannon/oxy-vr/engine/tracker"
	"github.com/go-gl/mathgl/mgl32"
)

// OculusSource reads eye poses from an HMD display mode. When a tracker object is
// configured the HMD orientation is fused with the tracker's, and the tracker supplies
// the position.
type OculusSource interface {
	PoseSource

	// InitialPosition returns the offset added to HMD-reported positions.
	//
	// Returns:
	//   - mgl32.Vec3: the offset in world space
	InitialPosition() mgl32.Vec3

	// SetInitialPosition changes the offset added to HMD-reported positions, e.g. to
	// place the tracking origin at standing eye height.
	//
	// Parameters:
	//   - pos: the offset in world space
	SetInitialPosition(pos mgl32.Vec3)

	// TrackerObject returns the tracker object fused with the HMD, or "" if none is configured.
	//
	// Returns:
	//   - string: the tracker object name
	TrackerObject() string
}

// framePose is the base pose sampled once per frame.
type framePose struct {
	valid bool
	stale bool
	frame int64

	// Only meaningful when a tracker object was configured at refresh time.
	fused    bool
	position mgl32.Vec3
	rotation mgl32.Mat4
}

type oculusSourceImpl struct {
	mu *sync.Mutex

	display    dispmode.Oculus
	tracker    tracker.Tracker
	fuser      sensorfuse.Fuser
	cfg        config.Config
	object     string
	initialPos mgl32.Vec3
	logger     *log.Logger

	cache        framePose
	warnedObject string
}

var _ OculusSource = &oculusSourceImpl{}

// NewOculusSource creates a pose source backed by an HMD display mode.
//
// Parameters:
//   - display: the HMD display mode (must not be nil)
//   - initialPos: offset added to HMD-reported positions
//   - options: functional options to configure the source
//
// Returns:
//   - OculusSource: the newly created source
func NewOculusSource(display dispmode.Oculus, initialPos mgl32.Vec3, options ...OculusSourceOption) OculusSource {
	if display == nil {
		panic("camera: NewOculusSource requires an Oculus display mode")
	}
	src := &oculusSourceImpl{
		mu:         &sync.Mutex{},
		display:    display,
		initialPos: initialPos,
		logger:     log.Default(),
	}
	for _, option := range options {
		option(src)
	}
	if src.fuser == nil {
		src.fuser = sensorfuse.NewComplementary()
	}
	return src
}

// trackerObject returns the configured tracker object name. Caller must hold the mutex.
func (src *oculusSourceImpl) trackerObject() string {
	if src.tracker == nil {
		return ""
	}
	if src.cfg == nil {
		return src.object
	}
	name, _ := src.cfg.Get(config.KeyTrackerObject)
	return common.Coalesce(name, src.object)
}

func (src *oculusSourceImpl) TrackerObject() string {
	src.mu.Lock()
	defer src.mu.Unlock()
	return src.trackerObject()
}

func (src *oculusSourceImpl) InitialPosition() mgl32.Vec3 {
	src.mu.Lock()
	defer src.mu.Unlock()
	return src.initialPos
}

func (src *oculusSourceImpl) SetInitialPosition(pos mgl32.Vec3) {
	src.mu.Lock()
	defer src.mu.Unlock()
	src.initialPos = pos
}

func (src *oculusSourceImpl) beginFrame() {
	src.mu.Lock()
	defer src.mu.Unlock()
	src.cache.stale = true
}

// refresh samples the HMD, and the tracker when one is configured, if the cached pose
// does not belong to the current frame. Caller must hold the mutex.
func (src *oculusSourceImpl) refresh(object string) {
	frame := src.display.FrameIndex()
	if src.cache.valid && !src.cache.stale && src.cache.frame == frame {
		return
	}

	src.display.PollEyePoses()
	src.cache = framePose{valid: true, frame: frame, rotation: mgl32.Ident4()}
	if object == "" {
		return
	}

	hmdRot := src.display.EyePose(dispmode.HardwareEyeLeft).Orientation.Normalize().Mat4()
	pos, trackerRot, ok := src.tracker.Get(object)
	if !ok {
		if src.warnedObject != object {
			src.logger.Printf("[Camera] Tracker object %q has not reported a pose, using HMD orientation only", object)
			src.warnedObject = object
		}
		pos = src.initialPos
		trackerRot = hmdRot
	}
	src.cache.fused = true
	src.cache.position = pos
	src.cache.rotation = src.fuser.Fuse(hmdRot, trackerRot)
}

func (src *oculusSourceImpl) getSeparate(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) {
	src.mu.Lock()
	defer src.mu.Unlock()

	object := src.trackerObject()
	src.refresh(object)

	// Both eyes share the fused base pose; the eye offset is applied by the controller.
	if object != "" && src.cache.fused {
		return src.cache.position, src.cache.rotation, common.EyeMiddle
	}

	hw := dispmode.HardwareEyeFor(eye)
	pose := src.display.EyePose(hw)
	pos := pose.Position.Add(src.initialPos)
	rot := pose.Orientation.Normalize().Mat4()

	// A middle request reads the left hardware eye, so report it as such and let the
	// controller derive the middle eye from both.
	if hw == dispmode.HardwareEyeRight {
		return pos, rot, common.EyeRight
	}
	return pos, rot, common.EyeLeft
}
