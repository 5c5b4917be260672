package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-vr/common"
	"github.com/go-gl/mathgl/mgl32"
)

// ManualSource is an input-driven pose source. It keeps an explicit position, look-at
// target and up vector, and offers orbit controls (spherical coordinates around the
// target) together with planar controls (panning along the camera's local axes).
// It has a single vantage point, so every pose it produces is for common.EyeMiddle.
type ManualSource interface {
	PoseSource
	orbitControls
	planarControls

	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// SetPosition sets the camera's world-space position directly, leaving the target untouched.
	//
	// Parameters:
	//   - pos: world-space position
	SetPosition(pos mgl32.Vec3)

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space target position
	SetTarget(target mgl32.Vec3)

	// Up returns the up vector used to build the look-at rotation.
	//
	// Returns:
	//   - mgl32.Vec3: the up vector
	Up() mgl32.Vec3

	// SetUp sets the up vector.
	//
	// Parameters:
	//   - up: the up vector (need not be normalized)
	SetUp(up mgl32.Vec3)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// Drag applies a mouse drag to the orbit angles, scaled by MouseSensitivity.
	//
	// Parameters:
	//   - dx, dy: cursor movement in pixels
	Drag(dx, dy float32)
}

// orbitControls rotates the camera around its target using spherical coordinates
// (radius, azimuth, elevation).
type orbitControls interface {
	// OrbitLeft rotates the camera left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the camera right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the camera upward by one orbit speed step, clamped to max elevation.
	OrbitUp()

	// OrbitDown tilts the camera downward by one orbit speed step, clamped to min elevation.
	OrbitDown()

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to min/max bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)
}

// planarControls translates position and target together along the camera's local
// axes, preserving the orbit relationship.
type planarControls interface {
	// PanRight translates the camera along its local right axis.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanRight(delta float32)

	// PanUp translates the camera along its local up axis.
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanUp(delta float32)

	// PanForward translates the camera along its local forward axis (dolly).
	//
	// Parameters:
	//   - delta: pan amount scaled by PanSpeed
	PanForward(delta float32)
}

type manualSourceImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3
	up       mgl32.Vec3

	radius    float32
	azimuth   float32
	elevation float32

	minRadius    float32
	maxRadius    float32
	minElevation float32
	maxElevation float32

	orbitSpeed       float32
	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32

	// explicitPosition is set when WithPosition was used, so construction derives the
	// spherical coordinates from it instead of overwriting it.
	explicitPosition bool
}

var _ ManualSource = &manualSourceImpl{}

// NewManualSource creates an input-driven pose source. Distances are in meters: the
// default camera orbits a point at standing eye height from 3 m away.
//
// Parameters:
//   - options: functional options to configure the source
//
// Returns:
//   - ManualSource: the newly created source
func NewManualSource(options ...ManualSourceOption) ManualSource {
	ms := &manualSourceImpl{
		mu:     &sync.Mutex{},
		target: mgl32.Vec3{0, 1.5, 0},
		up:     mgl32.Vec3{0, 1, 0},

		radius:    3.0,
		azimuth:   0.0,
		elevation: float32(math.Pi / 12),

		minRadius:    0.25,
		maxRadius:    50.0,
		minElevation: -float32(math.Pi/2 - 0.1),
		maxElevation: float32(math.Pi/2 - 0.1),

		orbitSpeed:       0.03,
		mouseSensitivity: 0.005,
		zoomSpeed:        0.25,
		panSpeed:         0.05,
	}

	for _, option := range options {
		option(ms)
	}

	if ms.explicitPosition {
		ms.syncSpherical()
	} else {
		ms.updatePosition()
	}
	return ms
}

// syncSpherical derives radius, azimuth and elevation from an explicitly set position so
// later orbit and zoom calls continue from it. Caller must hold the mutex.
func (ms *manualSourceImpl) syncSpherical() {
	offset := ms.position.Sub(ms.target)
	radius := offset.Len()
	if radius < 1e-6 {
		return
	}
	ms.radius = radius
	ms.azimuth = float32(math.Atan2(float64(offset[0]), float64(offset[2])))
	ms.elevation = float32(math.Asin(float64(mgl32.Clamp(offset[1]/radius, -1, 1))))
}

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (ms *manualSourceImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(ms.elevation)))
	sinElev := float32(math.Sin(float64(ms.elevation)))
	cosAzim := float32(math.Cos(float64(ms.azimuth)))
	sinAzim := float32(math.Sin(float64(ms.azimuth)))

	ms.position = ms.target.Add(mgl32.Vec3{
		ms.radius * cosElev * sinAzim,
		ms.radius * sinElev,
		ms.radius * cosElev * cosAzim,
	})
}

// localAxes returns the camera's right, up and forward axes consistent with the look-at
// rotation. The axes are always orthonormal, even when position and target coincide or
// the up vector is parallel to the view direction.
// Caller must hold the mutex.
func (ms *manualSourceImpl) localAxes() (right, up, forward mgl32.Vec3) {
	forward = ms.target.Sub(ms.position)
	if forward.Len() < 1e-6 {
		forward = mgl32.Vec3{0, 0, -1}
	}
	forward = forward.Normalize()

	worldUp := ms.up
	if worldUp.Len() < 1e-6 {
		worldUp = mgl32.Vec3{0, 1, 0}
	}
	right = forward.Cross(worldUp)
	if right.Len() < 1e-6 {
		right = common.AnyPerpendicular(forward)
	}
	right = right.Normalize()
	up = right.Cross(forward)
	return right, up, forward
}

func (ms *manualSourceImpl) getSeparate(eye common.Eye) (mgl32.Vec3, mgl32.Mat4, common.Eye) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	right, up, forward := ms.localAxes()
	// Columns are the camera axes in world space: the transpose of the rotation part of
	// mgl32.LookAtV(position, target, up), with localAxes guarding the degenerate cases.
	rot := mgl32.Mat4{
		right[0], right[1], right[2], 0,
		up[0], up[1], up[2], 0,
		-forward[0], -forward[1], -forward[2], 0,
		0, 0, 0, 1,
	}
	return ms.position, rot, common.EyeMiddle
}

func (ms *manualSourceImpl) beginFrame() {}

func (ms *manualSourceImpl) Position() mgl32.Vec3 {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.position
}

func (ms *manualSourceImpl) SetPosition(pos mgl32.Vec3) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.position = pos
	ms.syncSpherical()
}

func (ms *manualSourceImpl) Target() mgl32.Vec3 {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.target
}

func (ms *manualSourceImpl) SetTarget(target mgl32.Vec3) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.target = target
	ms.updatePosition()
}

func (ms *manualSourceImpl) Up() mgl32.Vec3 {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.up
}

func (ms *manualSourceImpl) SetUp(up mgl32.Vec3) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.up = up
}

func (ms *manualSourceImpl) Zoom(delta float32) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.radius = mgl32.Clamp(ms.radius-delta*ms.zoomSpeed, ms.minRadius, ms.maxRadius)
	ms.updatePosition()
}

func (ms *manualSourceImpl) Drag(dx, dy float32) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.azimuth -= dx * ms.mouseSensitivity
	ms.elevation = mgl32.Clamp(ms.elevation+dy*ms.mouseSensitivity, ms.minElevation, ms.maxElevation)
	ms.updatePosition()
}

func (ms *manualSourceImpl) OrbitLeft() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.azimuth -= ms.orbitSpeed
	ms.updatePosition()
}

func (ms *manualSourceImpl) OrbitRight() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.azimuth += ms.orbitSpeed
	ms.updatePosition()
}

func (ms *manualSourceImpl) OrbitUp() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.elevation = min(ms.elevation+ms.orbitSpeed, ms.maxElevation)
	ms.updatePosition()
}

func (ms *manualSourceImpl) OrbitDown() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.elevation = max(ms.elevation-ms.orbitSpeed, ms.minElevation)
	ms.updatePosition()
}

func (ms *manualSourceImpl) Radius() float32 {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.radius
}

func (ms *manualSourceImpl) SetRadius(radius float32) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.radius = mgl32.Clamp(radius, ms.minRadius, ms.maxRadius)
	ms.updatePosition()
}

func (ms *manualSourceImpl) Azimuth() float32 {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.azimuth
}

func (ms *manualSourceImpl) SetAzimuth(azimuth float32) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.azimuth = azimuth
	ms.updatePosition()
}

func (ms *manualSourceImpl) Elevation() float32 {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.elevation
}

func (ms *manualSourceImpl) SetElevation(elevation float32) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.elevation = mgl32.Clamp(elevation, ms.minElevation, ms.maxElevation)
	ms.updatePosition()
}

// pan shifts position and target together. Caller must hold the mutex.
func (ms *manualSourceImpl) pan(axis mgl32.Vec3, delta float32) {
	offset := axis.Mul(delta * ms.panSpeed)
	ms.target = ms.target.Add(offset)
	ms.position = ms.position.Add(offset)
}

func (ms *manualSourceImpl) PanRight(delta float32) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	right, _, _ := ms.localAxes()
	ms.pan(right, delta)
}

func (ms *manualSourceImpl) PanUp(delta float32) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	_, up, _ := ms.localAxes()
	ms.pan(up, delta)
}

func (ms *manualSourceImpl) PanForward(delta float32) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	_, _, forward := ms.localAxes()
	ms.pan(forward, delta)
}
