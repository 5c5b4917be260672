package dispmode

import (
	"log"

	"github.com/Carmen-Shannon/oxy-vr/engine/config"
)

// DisplayModeBuilderOption is a functional option for configuring any display mode.
type DisplayModeBuilderOption func(*modeBase)

// WithWindowSize sets the framebuffer size the viewports are derived from.
//
// Parameters:
//   - width, height: framebuffer size in pixels
//
// Returns:
//   - DisplayModeBuilderOption: option function to apply
func WithWindowSize(width, height int) DisplayModeBuilderOption {
	return func(b *modeBase) {
		b.width = width
		b.height = height
	}
}

// WithIPD sets the interpupillary distance in meters.
// A config "ipd" value, when present, overrides it at query time.
//
// Parameters:
//   - ipd: interpupillary distance in meters
//
// Returns:
//   - DisplayModeBuilderOption: option function to apply
func WithIPD(ipd float32) DisplayModeBuilderOption {
	return func(b *modeBase) {
		b.ipd = ipd
	}
}

// WithFovY sets the vertical field of view used by the desktop and side-by-side modes.
//
// Parameters:
//   - fovY: vertical field of view in radians
//
// Returns:
//   - DisplayModeBuilderOption: option function to apply
func WithFovY(fovY float32) DisplayModeBuilderOption {
	return func(b *modeBase) {
		b.fovY = fovY
	}
}

// WithClipPlanes sets the near and far clipping planes.
// Config "nearplane"/"farplane" values, when present, override them at query time.
//
// Parameters:
//   - near: near plane distance
//   - far: far plane distance
//
// Returns:
//   - DisplayModeBuilderOption: option function to apply
func WithClipPlanes(near, far float32) DisplayModeBuilderOption {
	return func(b *modeBase) {
		b.near = near
		b.far = far
	}
}

// WithConvergence sets the distance at which the side-by-side eye frusta converge.
//
// Parameters:
//   - distance: convergence distance in meters
//
// Returns:
//   - DisplayModeBuilderOption: option function to apply
func WithConvergence(distance float32) DisplayModeBuilderOption {
	return func(b *modeBase) {
		b.convergence = distance
	}
}

// WithConfig attaches a settings store that is re-read on every query.
//
// Parameters:
//   - cfg: the settings store
//
// Returns:
//   - DisplayModeBuilderOption: option function to apply
func WithConfig(cfg config.Config) DisplayModeBuilderOption {
	return func(b *modeBase) {
		b.cfg = cfg
	}
}

// WithLogger sets the logger used for display mode diagnostics.
//
// Parameters:
//   - logger: destination logger
//
// Returns:
//   - DisplayModeBuilderOption: option function to apply
func WithLogger(logger *log.Logger) DisplayModeBuilderOption {
	return func(b *modeBase) {
		if logger != nil {
			b.logger = logger
		}
	}
}
