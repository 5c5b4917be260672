package camera

import (
	"bytes"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/Carmen-Shannon/oxy-vr/engine/config"
	"github.com/Carmen-Shannon/oxy-vr/engine/dispmode"
	"github.com/Carmen-Shannon/oxy-vr/engine/sensorfuse"
	"github.com/Carmen-Shannon/oxy-vr/engine/tracker"
	"github.com/go-gl/mathgl/mgl32"
)

var discard = log.New(io.Discard, "", 0)

// trackerWins is a fuser that returns the tracker orientation unchanged.
var trackerWins = sensorfuse.FuserFunc(func(hmd, tracker mgl32.Mat4) mgl32.Mat4 { return tracker })

type oculusRig struct {
	hmd     *dispmode.SimulatedHMD
	display dispmode.Oculus
	tracker tracker.Tracker
	cc      CameraController
}

func newOculusRig(t *testing.T, object string, initialPos mgl32.Vec3, options ...OculusSourceOption) *oculusRig {
	t.Helper()
	hmd := dispmode.NewSimulatedHMD()
	display := dispmode.NewOculus(hmd, dispmode.WithLogger(discard))
	tr := tracker.NewTracker(tracker.WithLogger(discard))
	opts := []OculusSourceOption{WithFuser(trackerWins), WithSourceLogger(discard)}
	if object != "" {
		opts = append(opts, WithTracker(tr, object))
	}
	opts = append(opts, options...)
	src := NewOculusSource(display, initialPos, opts...)
	return &oculusRig{
		hmd:     hmd,
		display: display,
		tracker: tr,
		cc:      NewCameraController(display, src, WithLogger(discard)),
	}
}

// basePose strips the eye offset from a stereo view matrix.
func (r *oculusRig) basePose(view mgl32.Mat4, eye common.Eye) mgl32.Mat4 {
	return common.TranslateV(r.display.EyeOffset(eye)).Mul4(view)
}

func TestOculusFusedPoseIsCachedWithinFrame(t *testing.T) {
	rig := newOculusRig(t, "DK2", mgl32.Vec3{})
	rot := mgl32.QuatRotate(0.4, mgl32.Vec3{0, 1, 0})
	rig.tracker.Update("DK2", mgl32.Vec3{0, 1.7, 0}, rot)

	rig.cc.BeginFrame()
	left, eyeL := rig.cc.Get(common.EyeLeft)

	// The tracker moves between the two eyes of one frame.
	rig.tracker.Update("DK2", mgl32.Vec3{5, 5, 5}, mgl32.QuatIdent())
	right, eyeR := rig.cc.Get(common.EyeRight)

	if eyeL != common.EyeLeft || eyeR != common.EyeRight {
		t.Fatalf("eyes = %s, %s", eyeL, eyeR)
	}
	want := ViewFromPosRot(mgl32.Vec3{0, 1.7, 0}, rot.Mat4())
	assertMat(t, "left base pose", rig.basePose(left, common.EyeLeft), want)
	assertMat(t, "right base pose", rig.basePose(right, common.EyeRight), want)

	// The next frame sees the new tracker pose.
	rig.cc.BeginFrame()
	next, _ := rig.cc.Get(common.EyeLeft)
	assertMat(t, "next frame base pose", rig.basePose(next, common.EyeLeft),
		ViewFromPosRot(mgl32.Vec3{5, 5, 5}, mgl32.Ident4()))
}

func TestOculusCacheRefreshesWhenFrameAdvances(t *testing.T) {
	rig := newOculusRig(t, "DK2", mgl32.Vec3{})
	rig.tracker.Update("DK2", mgl32.Vec3{1, 0, 0}, mgl32.QuatIdent())
	rig.cc.Get(common.EyeLeft)
	polls := rig.hmd.Polls()

	rig.cc.Get(common.EyeRight)
	rig.cc.Get(common.EyeMiddle)
	if rig.hmd.Polls() != polls {
		t.Fatalf("HMD polled %d times within one frame", rig.hmd.Polls()-polls)
	}

	rig.tracker.Update("DK2", mgl32.Vec3{2, 0, 0}, mgl32.QuatIdent())
	rig.display.EndFrame()
	pos, _ := rig.cc.Position(common.EyeMiddle)
	assertVec(t, "middle position after EndFrame", pos, mgl32.Vec3{2, 0, 0})
	if rig.hmd.Polls() != polls+1 {
		t.Fatalf("HMD polls = %d, want %d", rig.hmd.Polls(), polls+1)
	}
}

func TestOculusFusedReportsMiddle(t *testing.T) {
	rig := newOculusRig(t, "DK2", mgl32.Vec3{})
	rig.tracker.Update("DK2", mgl32.Vec3{0, 1.6, 0}, mgl32.QuatIdent())
	for _, eye := range []common.Eye{common.EyeLeft, common.EyeRight, common.EyeMiddle} {
		if _, _, actual := rig.cc.GetSeparate(eye); actual != common.EyeMiddle {
			t.Errorf("GetSeparate(%s) reported %s", eye, actual)
		}
	}
	pos, actual := rig.cc.Position(common.EyeMiddle)
	if actual != common.EyeMiddle {
		t.Fatalf("Position(middle) eye = %s", actual)
	}
	assertVec(t, "middle position", pos, mgl32.Vec3{0, 1.6, 0})
}

func TestOculusTrackerObjectFromConfig(t *testing.T) {
	cfg := config.New(map[string]string{config.KeyTrackerObject: "Head"})
	hmd := dispmode.NewSimulatedHMD()
	display := dispmode.NewOculus(hmd, dispmode.WithLogger(discard))
	tr := tracker.NewTracker()
	tr.Update("Head", mgl32.Vec3{0, 2, 0}, mgl32.QuatIdent())
	src := NewOculusSource(display, mgl32.Vec3{}, WithTracker(tr, ""), WithConfig(cfg), WithFuser(trackerWins))
	if src.TrackerObject() != "Head" {
		t.Fatalf("TrackerObject() = %q", src.TrackerObject())
	}

	cc := NewCameraController(display, src)
	pos, _ := cc.Position(common.EyeMiddle)
	assertVec(t, "position", pos, mgl32.Vec3{0, 2, 0})

	// Removing the key turns fusion off from the next frame on.
	cfg.Unset(config.KeyTrackerObject)
	cc.BeginFrame()
	if _, _, actual := cc.GetSeparate(common.EyeRight); actual != common.EyeRight {
		t.Fatalf("GetSeparate(right) without tracker reported %s", actual)
	}
}

func TestOculusMissingTrackerObjectFallsBack(t *testing.T) {
	var buf bytes.Buffer
	rig := newOculusRig(t, "Ghost", mgl32.Vec3{0, 1.5, 0}, WithSourceLogger(log.New(&buf, "", 0)))
	rig.cc.BeginFrame()
	pos, _ := rig.cc.Position(common.EyeMiddle)
	rig.cc.BeginFrame()
	rig.cc.Get(common.EyeLeft)

	assertVec(t, "fallback position", pos, mgl32.Vec3{0, 1.5, 0})
	if n := strings.Count(buf.String(), "Ghost"); n != 1 {
		t.Fatalf("warning logged %d times, want once: %q", n, buf.String())
	}
}

func TestOculusWithoutTrackerUsesHMDEyes(t *testing.T) {
	rig := newOculusRig(t, "", mgl32.Vec3{0, 1.5, 0})
	head := mgl32.QuatRotate(0.25, mgl32.Vec3{0, 1, 0})
	rig.hmd.SetHeadPose(mgl32.Vec3{0, 0.1, 0}, head)
	rig.cc.BeginFrame()

	half := dispmode.DefaultIPD / 2
	for _, eye := range []common.Eye{common.EyeLeft, common.EyeRight} {
		pos, rot, actual := rig.cc.GetSeparate(eye)
		if actual != eye {
			t.Fatalf("GetSeparate(%s) reported %s", eye, actual)
		}
		x := -half
		if eye == common.EyeRight {
			x = half
		}
		want := head.Rotate(mgl32.Vec3{x, 0, 0}).Add(mgl32.Vec3{0, 1.6, 0})
		assertVec(t, eye.String()+" position", pos, want)
		assertMat(t, eye.String()+" rotation", rot, head.Mat4())

		view, _ := rig.cc.Get(eye)
		assertMat(t, eye.String()+" view", view, ViewFromPosRot(want, head.Mat4()))
	}

	// A middle request reads the left hardware eye and is averaged with the right one.
	if _, _, actual := rig.cc.GetSeparate(common.EyeMiddle); actual != common.EyeLeft {
		t.Fatalf("GetSeparate(middle) reported %s, want left", actual)
	}
	pos, actual := rig.cc.Position(common.EyeMiddle)
	if actual != common.EyeMiddle {
		t.Fatalf("Position(middle) eye = %s", actual)
	}
	assertVec(t, "middle position", pos, mgl32.Vec3{0, 1.6, 0})
}

func TestOculusIPDChangeIsPickedUp(t *testing.T) {
	rig := newOculusRig(t, "DK2", mgl32.Vec3{})
	rig.tracker.Update("DK2", mgl32.Vec3{}, mgl32.QuatIdent())

	left, _ := rig.cc.Position(common.EyeLeft)
	assertVec(t, "left eye", left, mgl32.Vec3{-dispmode.DefaultIPD / 2, 0, 0})

	rig.hmd.SetIPD(0.07)
	left, _ = rig.cc.Position(common.EyeLeft)
	assertVec(t, "left eye after IPD change", left, mgl32.Vec3{-0.035, 0, 0})
}

func TestNewOculusSourceRequiresDisplay(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("NewOculusSource(nil) did not panic")
		}
	}()
	NewOculusSource(nil, mgl32.Vec3{})
}
