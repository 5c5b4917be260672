package viewmat

import (
	"io"
	"log"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/camera"
	"github.com/Carmen-Shannon/oxy-vr/engine/dispmode"
	"github.com/go-gl/mathgl/mgl32"
)

func newSideBySide(t *testing.T) (Viewmat, camera.ManualSource) {
	t.Helper()
	display := dispmode.NewSideBySide(dispmode.WithWindowSize(1600, 800), dispmode.WithIPD(0.06))
	src := camera.NewManualSource(
		camera.WithPosition(mgl32.Vec3{0, 1.6, 3}),
		camera.WithTarget(mgl32.Vec3{0, 1.6, 0}),
	)
	cc := camera.NewCameraController(display, src, camera.WithLogger(log.New(io.Discard, "", 0)))
	return NewViewmat(display, cc), src
}

func TestUpdatePerViewport(t *testing.T) {
	vm, _ := newSideBySide(t)
	if vm.NumViewports() != 2 {
		t.Fatalf("NumViewports() = %d", vm.NumViewports())
	}
	for id, want := range []common.Eye{common.EyeLeft, common.EyeRight} {
		if vm.Eye(id) != want {
			t.Fatalf("Eye(%d) = %s, want %s", id, vm.Eye(id), want)
		}
		view, proj, eye := vm.Get(id)
		if eye != want {
			t.Fatalf("Get(%d) eye = %s", id, eye)
		}
		if !proj.ApproxEqual(vm.DisplayMode().ProjectionMatrix(id)) {
			t.Fatalf("projection %d does not come from the display mode", id)
		}
		if !vm.ViewProjection(id).ApproxEqualThreshold(proj.Mul4(view), 1e-5) {
			t.Fatalf("ViewProjection(%d) != Projection * View", id)
		}
	}
	if vp := vm.Viewport(1); vp != [4]int{800, 0, 800, 800} {
		t.Fatalf("Viewport(1) = %v", vp)
	}

	left := vm.Uniform(0).EyePosition
	right := vm.Uniform(1).EyePosition
	if !left.ApproxEqualThreshold(mgl32.Vec3{-0.03, 1.6, 3}, 1e-5) || !right.ApproxEqualThreshold(mgl32.Vec3{0.03, 1.6, 3}, 1e-5) {
		t.Fatalf("eye positions = %v, %v", left, right)
	}
}

func TestUpdateFollowsCamera(t *testing.T) {
	vm, src := newSideBySide(t)
	before := vm.View(0)
	src.PanRight(10)
	if vm.View(0) != before {
		t.Fatal("View changed before Update")
	}
	vm.Update()
	if vm.View(0) == before {
		t.Fatal("View did not change after Update")
	}
	pos, eye := vm.Position(common.EyeMiddle)
	if eye != common.EyeMiddle || !pos.ApproxEqualThreshold(src.Position(), 1e-5) {
		t.Fatalf("Position(middle) = %v %s, want %v", pos, eye, src.Position())
	}
}

func TestInvalidViewportPanics(t *testing.T) {
	vm, _ := newSideBySide(t)
	defer func() {
		err, ok := recover().(*dispmode.PreconditionError)
		if !ok {
			t.Fatal("expected a *dispmode.PreconditionError panic")
		}
		if err.Viewport != 2 || !strings.Contains(err.Error(), "View") {
			t.Fatalf("unexpected error %v", err)
		}
	}()
	vm.View(2)
}

func TestGPUEyeUniform(t *testing.T) {
	vm, _ := newSideBySide(t)
	for id := range vm.NumViewports() {
		u := vm.Uniform(id)
		if !u.ViewProj.ApproxEqualThreshold(vm.ViewProjection(id), 1e-5) {
			t.Fatalf("viewport %d: uniform view-projection differs from ViewProjection", id)
		}
		pos, _ := vm.Position(vm.Eye(id))
		if !u.EyePosition.ApproxEqualThreshold(pos, 1e-4) {
			t.Fatalf("viewport %d: eye position = %v, want %v", id, u.EyePosition, pos)
		}
	}
	for _, name := range []string{UniformViewProj, UniformEyePosition} {
		if !strings.Contains(GPUEyeUniformSource, "uniform") || !strings.Contains(GPUEyeUniformSource, name) {
			t.Fatalf("GLSL source does not declare %s", name)
		}
	}
}
