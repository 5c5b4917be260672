// Package sensorfuse combines the orientation reported by a head-mounted display with
// the orientation reported by an external tracker.
package sensorfuse

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/gonum/num/quat"
)

// DefaultGain is the fraction of the remaining drift removed on every Fuse call.
const DefaultGain = 0.02

// Fuser merges two orientation estimates into one.
type Fuser interface {
	// Fuse combines the HMD orientation with the tracker orientation.
	//
	// Parameters:
	//   - hmd: orientation reported by the HMD (rotation-only matrix)
	//   - tracker: orientation reported by the external tracker (rotation-only matrix)
	//
	// Returns:
	//   - mgl32.Mat4: the fused orientation, always a proper rotation with no translation
	Fuse(hmd, tracker mgl32.Mat4) mgl32.Mat4
}

// FuserFunc adapts an ordinary function to the Fuser interface.
type FuserFunc func(hmd, tracker mgl32.Mat4) mgl32.Mat4

func (f FuserFunc) Fuse(hmd, tracker mgl32.Mat4) mgl32.Mat4 {
	return f(hmd, tracker)
}

// Complementary is a drift-correcting complementary filter. The HMD supplies the
// high-frequency motion and the tracker supplies the low-frequency absolute heading.
type Complementary interface {
	Fuser

	// Reset forgets the accumulated correction. The next Fuse call snaps to the tracker.
	Reset()

	// Correction returns the rotation currently applied on top of the HMD orientation.
	//
	// Returns:
	//   - mgl32.Quat: the correction quaternion
	Correction() mgl32.Quat
}

type complementaryImpl struct {
	mu *sync.Mutex

	gain       float64
	correction quat.Number
	primed     bool
}

var _ Complementary = &complementaryImpl{}

// NewComplementary creates a complementary filter fuser.
//
// Parameters:
//   - options: functional options to configure the filter
//
// Returns:
//   - Complementary: the filter
func NewComplementary(options ...ComplementaryBuilderOption) Complementary {
	c := &complementaryImpl{
		mu:         &sync.Mutex{},
		gain:       DefaultGain,
		correction: quat.Number{Real: 1},
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *complementaryImpl) Fuse(hmd, tracker mgl32.Mat4) mgl32.Mat4 {
	h := toNumber(mgl32.Mat4ToQuat(common.Orthonormalize(hmd)))
	t := toNumber(mgl32.Mat4ToQuat(common.Orthonormalize(tracker)))

	// target * h == t
	target := normalize(quat.Mul(t, quat.Inv(h)))

	c.mu.Lock()
	if !c.primed {
		c.correction = target
		c.primed = true
	} else {
		c.correction = slerp(c.correction, target, c.gain)
	}
	out := normalize(quat.Mul(c.correction, h))
	c.mu.Unlock()

	return common.Orthonormalize(fromNumber(out).Mat4())
}

func (c *complementaryImpl) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.correction = quat.Number{Real: 1}
	c.primed = false
}

func (c *complementaryImpl) Correction() mgl32.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fromNumber(c.correction)
}

// slerp interpolates along the shorter arc from a to b.
func slerp(a, b quat.Number, t float64) quat.Number {
	if dot(a, b) < 0 {
		b = quat.Scale(-1, b)
	}
	if t <= 0 {
		return a
	}
	if t >= 1 {
		return b
	}
	delta := normalize(quat.Mul(quat.Conj(a), b))
	if math.Abs(delta.Real) > 1-1e-12 {
		return a
	}
	return normalize(quat.Mul(a, quat.Pow(delta, quat.Number{Real: t})))
}

func dot(a, b quat.Number) float64 {
	return a.Real*b.Real + a.Imag*b.Imag + a.Jmag*b.Jmag + a.Kmag*b.Kmag
}

func normalize(q quat.Number) quat.Number {
	n := quat.Abs(q)
	if n == 0 {
		return quat.Number{Real: 1}
	}
	return quat.Scale(1/n, q)
}

func toNumber(q mgl32.Quat) quat.Number {
	return quat.Number{
		Real: float64(q.W),
		Imag: float64(q.V[0]),
		Jmag: float64(q.V[1]),
		Kmag: float64(q.V[2]),
	}
}

func fromNumber(q quat.Number) mgl32.Quat {
	return mgl32.Quat{
		W: float32(q.Real),
		V: mgl32.Vec3{float32(q.Imag), float32(q.Jmag), float32(q.Kmag)},
	}
}
