package matchfile

import "errors"

// Sentinel errors for match documents.
var (
	ErrUnknownFormat = errors.New("unknown match file format")
	ErrUnknownKind   = errors.New("unknown match kind")
	ErrDecode        = errors.New("decode match file")
)
