package bundle

import (
	"encoding/binary"
)

const (
	// Size is the byte length of the marker.
	Size = 48
	// HeaderSize is the number of leading bytes the stamping step patches.
	HeaderSize = 16
	// SignatureSize is the byte length of the trailing signature.
	SignatureSize = Size - HeaderSize
)

// placeholder holds the marker as compiled. Stamped binaries carry the real
// offset and length in the first HeaderSize bytes.
var placeholder = [Size]byte{
	// payload offset
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	// payload length
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	// SHA-256 of "squirrel bundle"
	0x94, 0xf0, 0xb1, 0x7b, 0x68, 0x93, 0xe0, 0x29,
	0x37, 0xeb, 0x34, 0xef, 0x53, 0xaa, 0xe7, 0xd4,
	0x2b, 0x54, 0xf5, 0x70, 0x7e, 0xf5, 0xd6, 0xf5,
	0x78, 0x54, 0x98, 0x3e, 0x5e, 0x94, 0xed, 0x7d,
}

// Marker locates the payload inside a host executable.
type Marker struct {
	Offset int64 `json:"offset" yaml:"offset"`
	Length int64 `json:"length" yaml:"length"`
}

// IsBundle reports whether the marker points at a payload.
func (m Marker) IsBundle() bool {
	return m.Offset != 0
}

// Valid reports whether the marker is in one of its two legal states:
// entirely unset, or a non-negative offset with a non-negative length that
// are both present.
func (m Marker) Valid() bool {
	if m.Offset == 0 && m.Length == 0 {
		return true
	}
	return m.Offset > 0 && m.Length > 0
}

// End returns the byte position one past the payload.
func (m Marker) End() int64 {
	return m.Offset + m.Length
}

// Embedded returns the marker compiled into the running binary.
func Embedded() Marker {
	return Decode(placeholder[:HeaderSize])
}

// IsBundle reports whether the running binary has been stamped.
func IsBundle() bool {
	return Embedded().IsBundle()
}

// Signature returns a copy of the marker signature.
func Signature() []byte {
	sig := make([]byte, SignatureSize)
	copy(sig, placeholder[HeaderSize:])
	return sig
}

// Placeholder returns the unstamped 48-byte marker as it appears in a
// freshly linked template.
func Placeholder() []byte {
	p := make([]byte, Size)
	copy(p[HeaderSize:], placeholder[HeaderSize:])
	return p
}

// Decode reads a marker header from the first HeaderSize bytes of b.
func Decode(b []byte) Marker {
	_ = b[HeaderSize-1]
	return Marker{
		Offset: int64(binary.LittleEndian.Uint64(b[0:8])),
		Length: int64(binary.LittleEndian.Uint64(b[8:16])),
	}
}

// Encode renders the marker header in its on-disk form.
func Encode(m Marker) [HeaderSize]byte {
	var b [HeaderSize]byte
	binary.LittleEndian.PutUint64(b[0:8], uint64(m.Offset))
	binary.LittleEndian.PutUint64(b[8:16], uint64(m.Length))
	return b
}
