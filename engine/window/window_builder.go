package window

import "github.com/go-gl/mathgl/mgl32"

// WindowBuilderOption is a functional option for configuring an engineWindow.
type WindowBuilderOption func(w *engineWindow)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(w *engineWindow) {
		w.title = title
	}
}

// WithSize sets the initial window size.
//
// Parameters:
//   - width, height: initial size in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSize(width, height int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.width = width
		w.height = height
	}
}

// WithSizeLimits sets the minimum and maximum window size enforced while resizing.
//
// Parameters:
//   - minWidth, minHeight: minimum size
//   - maxWidth, maxHeight: maximum size
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithSizeLimits(minWidth, minHeight, maxWidth, maxHeight int) WindowBuilderOption {
	return func(w *engineWindow) {
		w.minWidth = minWidth
		w.minHeight = minHeight
		w.maxWidth = maxWidth
		w.maxHeight = maxHeight
	}
}

// WithVSync enables or disables waiting for vertical sync on buffer swaps.
//
// Parameters:
//   - enabled: true to sync to the display refresh rate
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithVSync(enabled bool) WindowBuilderOption {
	return func(w *engineWindow) {
		w.vsync = enabled
	}
}

// WithClearColor sets the color each viewport is cleared to in ApplyEye.
//
// Parameters:
//   - color: RGBA in [0, 1]
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithClearColor(color mgl32.Vec4) WindowBuilderOption {
	return func(w *engineWindow) {
		w.clearColor = color
	}
}
