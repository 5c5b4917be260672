package common

import "strconv"

// Eye identifies which viewpoint a view matrix is produced for.
// EyeMiddle is the single cyclopean eye used for mono rendering and as the
// center point between EyeLeft and EyeRight.
type Eye int

const (
	EyeLeft Eye = iota
	EyeRight
	EyeMiddle
	EyeUnknown
)

// String returns a short lowercase name for the eye.
//
// Returns:
//   - string: "left", "right", "middle", "unknown" or "eye(N)" for out-of-range values
func (e Eye) String() string {
	switch e {
	case EyeLeft:
		return "left"
	case EyeRight:
		return "right"
	case EyeMiddle:
		return "middle"
	case EyeUnknown:
		return "unknown"
	}
	return "eye(" + strconv.Itoa(int(e)) + ")"
}

// IsStereo reports whether the eye is one of the two stereo eyes.
//
// Returns:
//   - bool: true for EyeLeft and EyeRight
func (e Eye) IsStereo() bool {
	return e == EyeLeft || e == EyeRight
}

// Other returns the complementary stereo eye. Non-stereo eyes are returned unchanged.
//
// Returns:
//   - Eye: EyeRight for EyeLeft, EyeLeft for EyeRight, otherwise e
func (e Eye) Other() Eye {
	switch e {
	case EyeLeft:
		return EyeRight
	case EyeRight:
		return EyeLeft
	}
	return e
}
