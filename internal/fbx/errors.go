package fbx

import "errors"

var (
	// ErrMalformedHeader means the buffer does not start with the binary FBX magic.
	ErrMalformedHeader = errors.New("fbx: malformed header")

	// ErrUnsupportedPropertyType is returned for an unknown property type tag.
	// The cursor position is unrecoverable after it, so the parse aborts.
	ErrUnsupportedPropertyType = errors.New("fbx: unsupported property type")

	// ErrOutOfRange is returned when a read needs more bytes than remain.
	ErrOutOfRange = errors.New("fbx: read out of range")

	// ErrDecompress wraps a corrupt zlib array payload.
	ErrDecompress = errors.New("fbx: array decompression failed")
)
