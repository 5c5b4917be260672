package tracker

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxDatagramSize is the largest pose datagram: a 255 byte name plus the header and pose.
const MaxDatagramSize = 1 + 255 + poseSize

// poseSize is 7 little-endian float32 values: px py pz qx qy qz qw.
const poseSize = 7 * 4

var (
	// ErrShortDatagram is returned when a datagram is too small for its declared name and pose.
	ErrShortDatagram = errors.New("tracker: short datagram")
	// ErrEmptyName is returned when a datagram carries no object name.
	ErrEmptyName = errors.New("tracker: empty object name")
)

// EncodeDatagram builds a pose datagram:
//
//	u8 nameLen | name | px py pz qx qy qz qw (float32, little endian)
//
// Parameters:
//   - object: tracked object name (1..255 bytes)
//   - position: position in tracking space
//   - orientation: orientation quaternion
//
// Returns:
//   - []byte: the encoded datagram
//   - error: error if the name is empty or too long
func EncodeDatagram(object string, position mgl32.Vec3, orientation mgl32.Quat) ([]byte, error) {
	if len(object) == 0 {
		return nil, ErrEmptyName
	}
	if len(object) > 255 {
		return nil, fmt.Errorf("tracker: object name is %d bytes, max 255", len(object))
	}
	out := make([]byte, 0, 1+len(object)+poseSize)
	out = append(out, byte(len(object)))
	out = append(out, object...)
	for _, f := range [7]float32{
		position[0], position[1], position[2],
		orientation.V[0], orientation.V[1], orientation.V[2], orientation.W,
	} {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	return out, nil
}

// DecodeDatagram parses a datagram built by EncodeDatagram. Trailing bytes are ignored.
//
// Parameters:
//   - b: the raw datagram
//
// Returns:
//   - string: the object name
//   - mgl32.Vec3: the position
//   - mgl32.Quat: the orientation
//   - error: error if the datagram is malformed
func DecodeDatagram(b []byte) (string, mgl32.Vec3, mgl32.Quat, error) {
	if len(b) < 1 {
		return "", mgl32.Vec3{}, mgl32.Quat{}, ErrShortDatagram
	}
	nameLen := int(b[0])
	if nameLen == 0 {
		return "", mgl32.Vec3{}, mgl32.Quat{}, ErrEmptyName
	}
	if len(b) < 1+nameLen+poseSize {
		return "", mgl32.Vec3{}, mgl32.Quat{}, fmt.Errorf("%w: %d bytes, need %d", ErrShortDatagram, len(b), 1+nameLen+poseSize)
	}
	name := string(b[1 : 1+nameLen])

	var v [7]float32
	body := b[1+nameLen:]
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4:]))
	}
	for _, f := range v {
		if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
			return "", mgl32.Vec3{}, mgl32.Quat{}, fmt.Errorf("tracker: non-finite value in pose for %q", name)
		}
	}
	return name,
		mgl32.Vec3{v[0], v[1], v[2]},
		mgl32.Quat{W: v[6], V: mgl32.Vec3{v[3], v[4], v[5]}},
		nil
}
