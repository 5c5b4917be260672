package camera

import "log"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithMiddleAveraging selects how the middle eye is derived from a left/right pose pair.
//
// Parameters:
//   - mode: AverageTrue (default) or AverageLegacy
//
// Returns:
//   - CameraControllerOption: functional option to set the averaging mode
func WithMiddleAveraging(mode MiddleAveraging) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.averaging = mode
	}
}

// WithMismatchHook registers a callback invoked whenever Get cannot satisfy the requested eye.
//
// Parameters:
//   - fn: the callback
//
// Returns:
//   - CameraControllerOption: functional option to set the hook
func WithMismatchHook(fn MismatchFunc) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.onMismatch = fn
	}
}

// WithLogger sets the logger used for mismatch warnings.
//
// Parameters:
//   - logger: the logger (nil keeps the default)
//
// Returns:
//   - CameraControllerOption: functional option to set the logger
func WithLogger(logger *log.Logger) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if logger != nil {
			cc.logger = logger
		}
	}
}
