package dif

import "errors"

// DIF errors. Callers match them with errors.Is; returned errors carry the
// failing record and byte offset as context.
var (
	ErrInvalidGeometry    = errors.New("invalid geometry")
	ErrEmptyMarkerList    = errors.New("path has no markers")
	ErrMarkerOutOfRange   = errors.New("marker index out of range")
	ErrUnsupportedVersion = errors.New("unsupported DIF version")
	ErrTruncatedInput     = errors.New("truncated DIF data")
	ErrMalformedChunk     = errors.New("malformed DIF data")
	ErrFieldOverflow      = errors.New("value does not fit DIF field")
	ErrIOFailure          = errors.New("DIF I/O failure")
)
