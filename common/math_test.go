package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestStripTranslation(t *testing.T) {
	m := mgl32.HomogRotate3DY(0.7).Mul4(mgl32.Translate3D(1, 2, 3))
	s := StripTranslation(m)
	if s.Col(3) != (mgl32.Vec4{0, 0, 0, 1}) {
		t.Fatalf("translation column not cleared: %v", s.Col(3))
	}
	if !IsRotation(s, RotationEpsilon) {
		t.Fatalf("stripped matrix should be a rotation: %v", s)
	}
}

func TestIsRotationRejectsScaleAndShear(t *testing.T) {
	if IsRotation(mgl32.Scale3D(2, 1, 1), RotationEpsilon) {
		t.Error("scale accepted as rotation")
	}
	shear := mgl32.Ident4()
	shear[4] = 0.5
	if IsRotation(shear, RotationEpsilon) {
		t.Error("shear accepted as rotation")
	}
	if IsRotation(mgl32.Scale3D(-1, 1, 1), RotationEpsilon) {
		t.Error("reflection accepted as rotation")
	}
	if IsRotation(mgl32.Translate3D(1, 0, 0), RotationEpsilon) {
		t.Error("translation accepted as rotation")
	}
}

func TestOrthonormalize(t *testing.T) {
	m := mgl32.HomogRotate3D(1.1, mgl32.Vec3{1, 2, 3}.Normalize())
	m[0] *= 1.01
	m[5] += 0.02
	if IsRotation(m, 1e-4) {
		t.Fatal("test setup should have produced a non-rotation")
	}
	if got := Orthonormalize(m); !IsRotation(got, RotationEpsilon) {
		t.Fatalf("Orthonormalize did not produce a rotation: %v", got)
	}
}

func TestAnyPerpendicular(t *testing.T) {
	for _, v := range []mgl32.Vec3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}, {1, 1, 1}} {
		p := AnyPerpendicular(v)
		if abs32(p.Dot(v)) > 1e-6 || !mgl32.FloatEqualThreshold(p.Len(), 1, 1e-6) {
			t.Errorf("AnyPerpendicular(%v) = %v", v, p)
		}
	}
}
