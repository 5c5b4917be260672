package camera

import "github.com/go-gl/mathgl/mgl32"

// ManualSourceOption is a functional option for configuring a ManualSource.
type ManualSourceOption func(*manualSourceImpl)

// WithPosition places the camera explicitly instead of deriving its position from the
// orbit angles. Orbit controls recompute the position from spherical coordinates again
// on their next use.
//
// Parameters:
//   - pos: world-space camera position
//
// Returns:
//   - ManualSourceOption: functional option to set the position
func WithPosition(pos mgl32.Vec3) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.position = pos
		ms.explicitPosition = true
	}
}

// WithTarget sets the look-at/pivot point.
//
// Parameters:
//   - target: world-space target position
//
// Returns:
//   - ManualSourceOption: functional option to set the target position
func WithTarget(target mgl32.Vec3) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.target = target
	}
}

// WithUp sets the up vector.
//
// Parameters:
//   - up: the up vector
//
// Returns:
//   - ManualSourceOption: functional option to set the up vector
func WithUp(up mgl32.Vec3) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.up = up
	}
}

// WithRadius sets the initial orbit radius (distance from target).
//
// Parameters:
//   - radius: distance from the orbit target
//
// Returns:
//   - ManualSourceOption: functional option to set the radius
func WithRadius(radius float32) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.radius = radius
	}
}

// WithAzimuth sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - azimuth: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - ManualSourceOption: functional option to set the azimuth
func WithAzimuth(azimuth float32) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical angle from the horizontal plane.
//
// Parameters:
//   - elevation: vertical angle in radians (0 = horizontal)
//
// Returns:
//   - ManualSourceOption: functional option to set the elevation
func WithElevation(elevation float32) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.elevation = elevation
	}
}

// WithRadiusBounds sets the minimum and maximum orbit radius.
//
// Parameters:
//   - min: minimum zoom distance
//   - max: maximum zoom distance
//
// Returns:
//   - ManualSourceOption: functional option to set radius bounds
func WithRadiusBounds(min, max float32) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.minRadius = min
		ms.maxRadius = max
	}
}

// WithElevationBounds sets the minimum and maximum elevation angles.
//
// Parameters:
//   - min: minimum vertical angle in radians
//   - max: maximum vertical angle in radians
//
// Returns:
//   - ManualSourceOption: functional option to set elevation bounds
func WithElevationBounds(min, max float32) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.minElevation = min
		ms.maxElevation = max
	}
}

// WithOrbitSpeed sets the keyboard orbit speed.
//
// Parameters:
//   - speed: radians per orbit call
//
// Returns:
//   - ManualSourceOption: functional option to set orbit speed
func WithOrbitSpeed(speed float32) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.orbitSpeed = speed
	}
}

// WithMouseSensitivity sets the radians per pixel applied by Drag.
//
// Parameters:
//   - sensitivity: multiplier for mouse movement
//
// Returns:
//   - ManualSourceOption: functional option to set mouse sensitivity
func WithMouseSensitivity(sensitivity float32) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the meters per zoom step.
//
// Parameters:
//   - speed: multiplier for zoom input
//
// Returns:
//   - ManualSourceOption: functional option to set zoom speed
func WithZoomSpeed(speed float32) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.zoomSpeed = speed
	}
}

// WithPanSpeed sets the meters per pan step.
//
// Parameters:
//   - speed: multiplier for pan input
//
// Returns:
//   - ManualSourceOption: functional option to set pan speed
func WithPanSpeed(speed float32) ManualSourceOption {
	return func(ms *manualSourceImpl) {
		ms.panSpeed = speed
	}
}
