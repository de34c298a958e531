package schema

import "errors"

var (
	// ErrBadMagic is returned when a file's leading bytes do not match the
	// reference magic, or match it at an incompatible version.
	ErrBadMagic = errors.New("index file has the wrong magic number or version")

	// ErrIncomplete is returned when a file carries a valid magic but its
	// FileHeader lacks FlagComplete.
	ErrIncomplete = errors.New("index file was not fully built")

	// ErrShortRecord is returned when a fixed-layout record cannot be
	// decoded because fewer bytes than its width were supplied.
	ErrShortRecord = errors.New("too few bytes to decode a fixed-layout record")
)
