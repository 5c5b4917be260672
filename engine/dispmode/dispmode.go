// Package dispmode describes rendering target topologies: how many viewports exist,
// which eye each one shows, their projections, and the per-eye offset from the middle eye.
package dispmode

import (
	"fmt"
	"log"
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/config"
	"github.com/go-gl/mathgl/mgl32"
)

// Default display parameters, in meters and radians.
const (
	DefaultIPD         = float32(0.064)
	DefaultFovY        = float32(60.0 * math.Pi / 180.0)
	DefaultNear        = float32(0.1)
	DefaultFar         = float32(200.0)
	DefaultConvergence = float32(2.0)
)

// DisplayMode is the rendering target topology consumed by the camera controllers.
// A DisplayMode has no knowledge of any camera.
type DisplayMode interface {
	// Name returns a short identifier for logging ("desktop", "sidebyside", "oculus").
	Name() string

	// NumViewports returns the number of viewports rendered each frame.
	//
	// Returns:
	//   - int: viewport count (1 for mono, 2 for stereo)
	NumViewports() int

	// EyeType returns the eye shown in a viewport.
	// Panics with *PreconditionError if viewportID is out of range.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - common.Eye: the eye rendered into the viewport
	EyeType(viewportID int) common.Eye

	// Viewport returns the pixel rectangle {x, y, width, height} of a viewport.
	// Panics with *PreconditionError if viewportID is out of range.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - [4]int: x, y, width, height in pixels
	Viewport(viewportID int) [4]int

	// Frustum returns the view frustum of a viewport.
	// Panics with *PreconditionError if viewportID is out of range or the mode only
	// exposes projection matrices.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - common.Frustum: the frustum
	Frustum(viewportID int) common.Frustum

	// ProjectionMatrix returns the projection matrix of a viewport.
	// Panics with *PreconditionError if viewportID is out of range.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (column-major)
	ProjectionMatrix(viewportID int) mgl32.Mat4

	// EyeOffset returns the translation from the middle eye to the requested eye.
	// It is re-evaluated on every call because the IPD can change at runtime.
	// Panics with *PreconditionError unless eye is common.EyeLeft or common.EyeRight.
	//
	// Parameters:
	//   - eye: common.EyeLeft or common.EyeRight
	//
	// Returns:
	//   - mgl32.Vec3: the offset in head space, meters
	EyeOffset(eye common.Eye) mgl32.Vec3

	// Resize updates the window size the viewports are derived from.
	//
	// Parameters:
	//   - width, height: framebuffer size in pixels
	Resize(width, height int)

	// BeginFrame is called once before any viewport of a frame is rendered.
	BeginFrame()

	// EndFrame is called once after all viewports of a frame are rendered.
	EndFrame()

	// BeginEye is called before rendering into a viewport.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	BeginEye(viewportID int)

	// EndEye is called after rendering into a viewport.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	EndEye(viewportID int)
}

// PreconditionError reports a programming error in the caller, such as asking for the
// eye offset of the middle eye or for a viewport that does not exist. Display modes
// panic with a *PreconditionError rather than returning it.
type PreconditionError struct {
	Op       string
	Eye      common.Eye
	Viewport int
	Reason   string
}

func (e *PreconditionError) Error() string {
	if e.Viewport >= 0 {
		return fmt.Sprintf("dispmode: %s: viewport %d: %s", e.Op, e.Viewport, e.Reason)
	}
	return fmt.Sprintf("dispmode: %s: eye %s: %s", e.Op, e.Eye, e.Reason)
}

func panicEye(op string, eye common.Eye) {
	panic(&PreconditionError{Op: op, Eye: eye, Viewport: -1, Reason: "only the left or right eye is valid"})
}

func panicViewport(op string, viewportID, count int) {
	panic(&PreconditionError{
		Op:       op,
		Eye:      common.EyeUnknown,
		Viewport: viewportID,
		Reason:   fmt.Sprintf("valid viewports are 0..%d", count-1),
	})
}

// modeBase carries the settings shared by every display mode.
type modeBase struct {
	mu *sync.Mutex

	width  int
	height int

	ipd         float32
	fovY        float32
	near        float32
	far         float32
	convergence float32

	cfg    config.Config
	logger *log.Logger
}

func newModeBase(options ...DisplayModeBuilderOption) *modeBase {
	b := &modeBase{
		mu:          &sync.Mutex{},
		width:       1280,
		height:      720,
		ipd:         DefaultIPD,
		fovY:        DefaultFovY,
		near:        DefaultNear,
		far:         DefaultFar,
		convergence: DefaultConvergence,
		logger:      log.Default(),
	}
	for _, opt := range options {
		opt(b)
	}
	return b
}

// currentIPD returns the configured IPD, preferring the live config value.
func (b *modeBase) currentIPD() float32 {
	if b.cfg != nil {
		return b.cfg.Float(config.KeyIPD, b.ipd)
	}
	return b.ipd
}

func (b *modeBase) clipPlanes() (near, far float32) {
	near, far = b.near, b.far
	if b.cfg != nil {
		near = b.cfg.Float(config.KeyNearPlane, near)
		far = b.cfg.Float(config.KeyFarPlane, far)
	}
	return near, far
}

// ipdEyeOffset returns ±ipd/2 along the head's x axis.
func (b *modeBase) ipdEyeOffset(op string, eye common.Eye) mgl32.Vec3 {
	half := b.currentIPD() / 2
	switch eye {
	case common.EyeLeft:
		return mgl32.Vec3{-half, 0, 0}
	case common.EyeRight:
		return mgl32.Vec3{half, 0, 0}
	}
	panicEye(op, eye)
	return mgl32.Vec3{}
}

func (b *modeBase) Resize(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if width > 0 {
		b.width = width
	}
	if height > 0 {
		b.height = height
	}
}

func (b *modeBase) size() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.width, b.height
}
