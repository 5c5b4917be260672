package sensorfuse

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/floats"
)

func yaw(deg float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(mgl32.DegToRad(deg))
}

func approxMat(t *testing.T, name string, got, want mgl32.Mat4, tol float64) {
	t.Helper()
	g := make([]float64, 16)
	w := make([]float64, 16)
	for i := range got {
		g[i] = float64(got[i])
		w[i] = float64(want[i])
	}
	if !floats.EqualApprox(g, w, tol) {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func TestComplementaryFirstCallSnapsToTracker(t *testing.T) {
	f := NewComplementary()
	out := f.Fuse(mgl32.Ident4(), yaw(30))
	approxMat(t, "first fuse", out, yaw(30), 1e-4)
}

func TestComplementaryOutputIsRotation(t *testing.T) {
	f := NewComplementary(WithGain(0.3))
	hmd := mgl32.HomogRotate3D(0.4, mgl32.Vec3{1, 1, 0}.Normalize())
	tracker := mgl32.HomogRotate3D(-1.2, mgl32.Vec3{0, 1, 1}.Normalize())
	for i := 0; i < 20; i++ {
		out := f.Fuse(hmd, tracker)
		if !common.IsRotation(out, common.RotationEpsilon) {
			t.Fatalf("iteration %d: output %v is not a rotation", i, out)
		}
		hmd = hmd.Mul4(yaw(3))
	}
}

func TestComplementaryConvergesToTracker(t *testing.T) {
	f := NewComplementary(WithGain(0.05))
	f.Fuse(mgl32.Ident4(), yaw(30))

	// The HMD drifts by 10 degrees while the tracker holds still.
	var out mgl32.Mat4
	for i := 0; i < 400; i++ {
		out = f.Fuse(yaw(10), yaw(30))
	}
	approxMat(t, "converged", out, yaw(30), 1e-3)
}

func TestComplementaryFullGainFollowsTracker(t *testing.T) {
	f := NewComplementary(WithGain(2))
	f.Fuse(mgl32.Ident4(), mgl32.Ident4())
	out := f.Fuse(yaw(45), yaw(-20))
	approxMat(t, "gain 1", out, yaw(-20), 1e-4)
}

func TestComplementaryReset(t *testing.T) {
	f := NewComplementary(WithGain(0))
	f.Fuse(mgl32.Ident4(), yaw(90))
	f.Reset()
	if c := f.Correction(); !c.ApproxEqual(mgl32.QuatIdent()) {
		t.Fatalf("correction after reset = %v", c)
	}
	out := f.Fuse(mgl32.Ident4(), yaw(15))
	approxMat(t, "after reset", out, yaw(15), 1e-4)
}

func TestFuserFunc(t *testing.T) {
	var f Fuser = FuserFunc(func(hmd, tracker mgl32.Mat4) mgl32.Mat4 { return tracker })
	if got := f.Fuse(mgl32.Ident4(), yaw(5)); got != yaw(5) {
		t.Fatalf("FuserFunc did not forward: %v", got)
	}
}
