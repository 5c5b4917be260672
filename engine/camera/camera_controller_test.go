package camera

import (
	"bytes"
	"log"
	"math"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/dispmode"
	"github.com/go-gl/mathgl/mgl32"
)

const tol = 1e-5

// stubSource is a PoseSource driven by a function, for exercising the reconciliation rules.
type stubSource func(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye)

func (s stubSource) getSeparate(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) {
	return s(eye)
}

func (s stubSource) beginFrame() {}

func middleAt(pos mgl32.Vec3, rot mgl32.Mat4) stubSource {
	return func(common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) {
		return pos, rot, common.EyeMiddle
	}
}

// stereoPair reports exactly the stereo eye requested, and the left eye for anything else.
func stereoPair(left, right mgl32.Vec3, rot mgl32.Mat4) stubSource {
	return func(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) {
		if eye == common.EyeRight {
			return right, rot, common.EyeRight
		}
		return left, rot, common.EyeLeft
	}
}

func quietLogger() (*log.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return log.New(&buf, "", 0), &buf
}

func assertMat(t *testing.T, name string, got, want mgl32.Mat4) {
	t.Helper()
	if !got.ApproxEqualThreshold(want, tol) {
		t.Fatalf("%s =\n%v\nwant\n%v", name, got, want)
	}
}

func assertVec(t *testing.T, name string, got, want mgl32.Vec3) {
	t.Helper()
	if !got.ApproxEqualThreshold(want, tol) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestViewFromPosRotRoundTrip(t *testing.T) {
	p := mgl32.Vec3{1.5, -2, 4}
	r := mgl32.HomogRotate3D(0.7, mgl32.Vec3{1, 2, 3}.Normalize())

	view := ViewFromPosRot(p, r)
	camToWorld := view.Inv()
	assertVec(t, "recovered position", camToWorld.Col(3).Vec3(), p)
	assertMat(t, "recovered rotation", common.StripTranslation(camToWorld), r)

	// The camera's own position lands on the origin, and the world origin lands on R^T(-p).
	assertVec(t, "camera position in view space", view.Mul4x1(p.Vec4(1)).Vec3(), mgl32.Vec3{})
	want := r.Transpose().Mul4x1(p.Mul(-1).Vec4(1)).Vec3()
	assertVec(t, "world origin in view space", view.Col(3).Vec3(), want)
}

func TestGetExactMatch(t *testing.T) {
	p := mgl32.Vec3{0, 1, 2}
	r := mgl32.HomogRotate3DY(0.3)
	src := stubSource(func(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) { return p, r, eye })
	cc := NewCameraController(dispmode.NewDesktop(), src)

	for _, eye := range []common.Eye{common.EyeLeft, common.EyeRight, common.EyeMiddle} {
		view, actual := cc.Get(eye)
		if actual != eye {
			t.Fatalf("Get(%s) returned eye %s", eye, actual)
		}
		assertMat(t, "view", view, ViewFromPosRot(p, r))
	}
}

func TestGetSeparateStripsTranslation(t *testing.T) {
	src := middleAt(mgl32.Vec3{1, 2, 3}, mgl32.Translate3D(5, 5, 5))
	cc := NewCameraController(dispmode.NewDesktop(), src)
	_, rot, _ := cc.GetSeparate(common.EyeMiddle)
	assertMat(t, "rotation", rot, mgl32.Ident4())
}

func TestGetAppliesEyeOffsetToMiddlePose(t *testing.T) {
	cc := NewCameraController(dispmode.NewDesktop(dispmode.WithIPD(0.064)), middleAt(mgl32.Vec3{}, mgl32.Ident4()))

	view, actual := cc.Get(common.EyeLeft)
	if actual != common.EyeLeft {
		t.Fatalf("Get(left) returned eye %s", actual)
	}
	assertVec(t, "left translation", view.Col(3).Vec3(), mgl32.Vec3{0.032, 0, 0})

	view, actual = cc.Get(common.EyeRight)
	if actual != common.EyeRight {
		t.Fatalf("Get(right) returned eye %s", actual)
	}
	assertVec(t, "right translation", view.Col(3).Vec3(), mgl32.Vec3{-0.032, 0, 0})
}

func TestGetEyeOffsetComposition(t *testing.T) {
	display := dispmode.NewSideBySide(dispmode.WithIPD(0.07))
	p := mgl32.Vec3{0.2, 1.7, -1}
	r := mgl32.HomogRotate3D(-0.4, mgl32.Vec3{0, 1, 0.2}.Normalize())
	cc := NewCameraController(display, middleAt(p, r))

	for _, eye := range []common.Eye{common.EyeLeft, common.EyeRight} {
		view, _ := cc.Get(eye)
		want := common.TranslateV(display.EyeOffset(eye).Mul(-1)).Mul4(ViewFromPosRot(p, r))
		assertMat(t, eye.String()+" view", view, want)
	}

	// The eyes end up one IPD apart along the camera's right axis.
	left, _ := cc.Position(common.EyeLeft)
	right, _ := cc.Position(common.EyeRight)
	if d := right.Sub(left).Len(); !mgl32.FloatEqualThreshold(d, 0.07, tol) {
		t.Fatalf("eye separation = %v, want 0.07", d)
	}
	assertVec(t, "separation direction", right.Sub(left).Normalize(), r.Col(0).Vec3())
}

func TestGetDerivesMiddleFromStereoPair(t *testing.T) {
	left := mgl32.Vec3{-0.03, 1.6, 0}
	right := mgl32.Vec3{0.03, 1.6, 0}

	cases := []struct {
		name      string
		averaging MiddleAveraging
		want      mgl32.Vec3
	}{
		{"true average", AverageTrue, mgl32.Vec3{0, 1.6, 0}},
		{"legacy", AverageLegacy, mgl32.Vec3{0, 3.2 / 3.0, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cc := NewCameraController(dispmode.NewDesktop(), stereoPair(left, right, mgl32.Ident4()),
				WithMiddleAveraging(tc.averaging))
			view, actual := cc.Get(common.EyeMiddle)
			if actual != common.EyeMiddle {
				t.Fatalf("Get(middle) returned eye %s", actual)
			}
			assertMat(t, "view", view, ViewFromPosRot(tc.want, mgl32.Ident4()))
			pos, _ := cc.Position(common.EyeMiddle)
			assertVec(t, "middle position", pos, tc.want)
		})
	}
}

func TestGetMiddleUsesFirstEyeRotation(t *testing.T) {
	rl := mgl32.HomogRotate3DY(0.1)
	rr := mgl32.HomogRotate3DY(-0.1)
	src := stubSource(func(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) {
		if eye == common.EyeRight {
			return mgl32.Vec3{1, 0, 0}, rr, common.EyeRight
		}
		return mgl32.Vec3{-1, 0, 0}, rl, common.EyeLeft
	})
	cc := NewCameraController(dispmode.NewDesktop(), src)
	view, _ := cc.Get(common.EyeMiddle)
	assertMat(t, "view", view, ViewFromPosRot(mgl32.Vec3{}, rl))
}

func TestGetDegradedPath(t *testing.T) {
	logger, buf := quietLogger()
	var hooked []common.Eye
	src := stubSource(func(common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) {
		return mgl32.Vec3{1, 2, 3}, mgl32.Ident4(), common.EyeUnknown
	})
	cc := NewCameraController(dispmode.NewDesktop(), src,
		WithLogger(logger),
		WithMismatchHook(func(requested, actual common.Eye) { hooked = append(hooked, requested, actual) }),
	)

	view, actual := cc.Get(common.EyeMiddle)
	if actual != common.EyeUnknown {
		t.Fatalf("Get(middle) returned eye %s, want unknown", actual)
	}
	for _, f := range view {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			t.Fatalf("degraded view is not finite: %v", view)
		}
	}
	assertMat(t, "view", view, ViewFromPosRot(mgl32.Vec3{1, 2, 3}, mgl32.Ident4()))
	if !strings.Contains(buf.String(), "Requested eye middle but returning eye unknown") {
		t.Fatalf("missing warning, log = %q", buf.String())
	}
	if len(hooked) != 2 || hooked[0] != common.EyeMiddle || hooked[1] != common.EyeUnknown {
		t.Fatalf("mismatch hook got %v", hooked)
	}
	if cc.Mismatches() != 1 {
		t.Fatalf("Mismatches() = %d", cc.Mismatches())
	}
}

func TestGetDegradedWhenOtherEyeMissing(t *testing.T) {
	logger, buf := quietLogger()
	var calls []common.Eye
	src := stubSource(func(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) {
		calls = append(calls, eye)
		if eye == common.EyeRight {
			return mgl32.Vec3{}, mgl32.Ident4(), common.EyeUnknown
		}
		return mgl32.Vec3{-0.03, 1.6, 0}, mgl32.Ident4(), common.EyeLeft
	})
	cc := NewCameraController(dispmode.NewDesktop(), src, WithLogger(logger))

	view, actual := cc.Get(common.EyeMiddle)
	if actual != common.EyeLeft {
		t.Fatalf("Get(middle) returned eye %s, want left", actual)
	}
	if len(calls) != 2 || calls[0] != common.EyeMiddle || calls[1] != common.EyeRight {
		t.Fatalf("source calls = %v", calls)
	}
	assertMat(t, "view", view, ViewFromPosRot(mgl32.Vec3{-0.03, 1.6, 0}, mgl32.Ident4()))
	if buf.Len() == 0 {
		t.Fatal("expected a warning")
	}
}

func TestGetStereoEyeRequestedButOtherStereoEyeReturned(t *testing.T) {
	logger, _ := quietLogger()
	src := stubSource(func(common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) {
		return mgl32.Vec3{}, mgl32.Ident4(), common.EyeRight
	})
	cc := NewCameraController(dispmode.NewDesktop(), src, WithLogger(logger))
	if _, actual := cc.Get(common.EyeLeft); actual != common.EyeRight {
		t.Fatalf("Get(left) returned eye %s, want right", actual)
	}
	if cc.Mismatches() != 1 {
		t.Fatalf("Mismatches() = %d", cc.Mismatches())
	}
}

func TestGetUnknownFromMiddleSource(t *testing.T) {
	logger, _ := quietLogger()
	cc := NewCameraController(dispmode.NewDesktop(), middleAt(mgl32.Vec3{}, mgl32.Ident4()), WithLogger(logger))

	// Unknown is neither stereo nor middle, so the controller logs a mismatch and
	// never asks the display mode for an offset.
	_, actual := cc.Get(common.EyeUnknown)
	if actual != common.EyeMiddle {
		t.Fatalf("Get(unknown) returned eye %s, want middle", actual)
	}
}

func TestNewCameraControllerRequiresCollaborators(t *testing.T) {
	for name, fn := range map[string]func(){
		"display": func() { NewCameraController(nil, middleAt(mgl32.Vec3{}, mgl32.Ident4())) },
		"source":  func() { NewCameraController(dispmode.NewDesktop(), nil) },
	} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("missing %s did not panic", name)
				}
			}()
			fn()
		}()
	}
}
