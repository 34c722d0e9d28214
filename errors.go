package wad

import "errors"

// Error kinds reported by the container and record codecs. Callers match
// them with errors.Is; the codec wraps them with positional context.
var (
	// ErrBadTag means the archive's 4-byte type tag is neither IWAD nor PWAD.
	ErrBadTag = errors.New("wad: bad archive tag")

	// ErrTruncated means a directory or lump byte range exceeds the buffer.
	ErrTruncated = errors.New("wad: truncated archive")

	// ErrMissingMarker means an expected map marker lump is absent or non-empty.
	ErrMissingMarker = errors.New("wad: missing map marker")

	// ErrIncompleteMapGroup means a required geometry lump is missing or out
	// of order within a map lump group.
	ErrIncompleteMapGroup = errors.New("wad: incomplete map lump group")

	// ErrMalformedRecord means an entity lump's length is not a multiple of
	// its record size.
	ErrMalformedRecord = errors.New("wad: malformed record lump")

	// ErrDanglingReference means an entity index points outside its owning
	// slice. The codecs never raise it on their own; it comes from explicit
	// validation such as Level.Validate.
	ErrDanglingReference = errors.New("wad: dangling entity reference")
)
