// Package viewmat computes the per-viewport view and projection matrices for a frame.
package viewmat

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/camera"
	"github.com/Carmen-Shannon/oxy-vr/engine/dispmode"
	"github.com/go-gl/mathgl/mgl32"
)

// Viewmat binds a display mode to a camera controller. Update recomputes the matrices of
// every viewport once per frame; the accessors return the cached results.
type Viewmat interface {
	// Update asks the controller for the view matrix of each viewport's eye and the display
	// mode for its projection. Call once per frame after BeginFrame.
	Update()

	// Get returns the matrices of a viewport.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	//   - mgl32.Mat4: the projection matrix
	//   - common.Eye: the eye the view matrix is actually for
	Get(viewportID int) (mgl32.Mat4, mgl32.Mat4, common.Eye)

	// View returns the view matrix of a viewport.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix (column-major)
	View(viewportID int) mgl32.Mat4

	// Projection returns the projection matrix of a viewport.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix (column-major)
	Projection(viewportID int) mgl32.Mat4

	// ViewProjection returns projection * view for a viewport.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix (column-major)
	ViewProjection(viewportID int) mgl32.Mat4

	// Eye returns the eye a viewport's view matrix is actually for.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - common.Eye: the eye
	Eye(viewportID int) common.Eye

	// Viewport returns the window rectangle of a viewport as x, y, width, height.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - [4]int: the rectangle in pixels
	Viewport(viewportID int) [4]int

	// NumViewports returns the number of viewports computed by the last Update.
	//
	// Returns:
	//   - int: the viewport count
	NumViewports() int

	// Position returns the world-space position of an eye.
	//
	// Parameters:
	//   - eye: the requested eye
	//
	// Returns:
	//   - mgl32.Vec3: the position
	//   - common.Eye: the eye the position is actually for
	Position(eye common.Eye) (mgl32.Vec3, common.Eye)

	// Uniform returns the shader uniform values of a viewport.
	//
	// Parameters:
	//   - viewportID: index in [0, NumViewports())
	//
	// Returns:
	//   - GPUEyeUniform: the uniform data
	Uniform(viewportID int) GPUEyeUniform

	// Controller returns the camera controller.
	Controller() camera.CameraController

	// DisplayMode returns the display mode.
	DisplayMode() dispmode.DisplayMode
}

type eyeView struct {
	eye            common.Eye
	viewport       [4]int
	view           mgl32.Mat4
	projection     mgl32.Mat4
	viewProjection mgl32.Mat4
}

type viewmatImpl struct {
	mu *sync.Mutex

	display    dispmode.DisplayMode
	controller camera.CameraController

	views []eyeView
}

var _ Viewmat = &viewmatImpl{}

// NewViewmat creates a Viewmat and computes the first set of matrices.
//
// Parameters:
//   - display: the display mode (must not be nil)
//   - controller: the camera controller (must not be nil)
//
// Returns:
//   - Viewmat: the new Viewmat
func NewViewmat(display dispmode.DisplayMode, controller camera.CameraController) Viewmat {
	if display == nil || controller == nil {
		panic("viewmat: NewViewmat requires a display mode and a camera controller")
	}
	v := &viewmatImpl{
		mu:         &sync.Mutex{},
		display:    display,
		controller: controller,
	}
	v.Update()
	return v
}

func (v *viewmatImpl) Update() {
	n := v.display.NumViewports()
	views := make([]eyeView, n)
	for id := range n {
		view, actual := v.controller.Get(v.display.EyeType(id))
		proj := v.display.ProjectionMatrix(id)
		views[id] = eyeView{
			eye:            actual,
			viewport:       v.display.Viewport(id),
			view:           view,
			projection:     proj,
			viewProjection: proj.Mul4(view),
		}
	}

	v.mu.Lock()
	v.views = views
	v.mu.Unlock()
}

func (v *viewmatImpl) lookup(op string, viewportID int) eyeView {
	v.mu.Lock()
	defer v.mu.Unlock()
	if viewportID < 0 || viewportID >= len(v.views) {
		panic(&dispmode.PreconditionError{
			Op:       op,
			Eye:      common.EyeUnknown,
			Viewport: viewportID,
			Reason:   fmt.Sprintf("valid viewports are 0..%d", len(v.views)-1),
		})
	}
	return v.views[viewportID]
}

func (v *viewmatImpl) Get(viewportID int) (mgl32.Mat4, mgl32.Mat4, common.Eye) {
	ev := v.lookup("Get", viewportID)
	return ev.view, ev.projection, ev.eye
}

func (v *viewmatImpl) View(viewportID int) mgl32.Mat4 {
	return v.lookup("View", viewportID).view
}

func (v *viewmatImpl) Projection(viewportID int) mgl32.Mat4 {
	return v.lookup("Projection", viewportID).projection
}

func (v *viewmatImpl) ViewProjection(viewportID int) mgl32.Mat4 {
	return v.lookup("ViewProjection", viewportID).viewProjection
}

func (v *viewmatImpl) Eye(viewportID int) common.Eye {
	return v.lookup("Eye", viewportID).eye
}

func (v *viewmatImpl) Viewport(viewportID int) [4]int {
	return v.lookup("Viewport", viewportID).viewport
}

func (v *viewmatImpl) NumViewports() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.views)
}

func (v *viewmatImpl) Position(eye common.Eye) (mgl32.Vec3, common.Eye) {
	return v.controller.Position(eye)
}

func (v *viewmatImpl) Uniform(viewportID int) GPUEyeUniform {
	ev := v.lookup("Uniform", viewportID)
	return GPUEyeUniform{
		ViewProj:    ev.viewProjection,
		EyePosition: ev.view.Inv().Col(3).Vec3(),
	}
}

func (v *viewmatImpl) Controller() camera.CameraController {
	return v.controller
}

func (v *viewmatImpl) DisplayMode() dispmode.DisplayMode {
	return v.display
}
