package common

// Virtual key codes used by the sample camera bindings.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyW     = 87  // pan forward
	KeyA     = 65  // pan left
	KeyS     = 83  // pan backward
	KeyD     = 68  // pan right
	KeyQ     = 81  // pan down
	KeyE     = 69  // pan up
	KeyR     = 82  // reset camera
	KeyP     = 80  // print middle eye position
	KeySpace = 32  // record a judgment in the distance sample
	KeyEsc   = 256 // Escape key (GLFW)
	KeyLeft  = 263 // orbit left (GLFW)
	KeyRight = 262 // orbit right (GLFW)
	KeyUp    = 265 // orbit up (GLFW)
	KeyDown  = 264 // orbit down (GLFW)
)

// Modifier keys
const (
	KeyLeftShift  = 340 // Left Shift (GLFW)
	KeyRightShift = 344 // Right Shift (GLFW)
)
