package arena

import "errors"

var (
	// ErrIO wraps any failure reading or writing the backing file.
	ErrIO = errors.New("arena: io failure")

	// ErrOutOfBounds is returned when a read or typed Get targets an
	// offset/length pair outside the allocated extent of the file.
	ErrOutOfBounds = errors.New("arena: offset out of bounds")

	// ErrChecksumMismatch is returned by integrity-checked reads when the
	// stored checksum does not match the record's bytes.
	ErrChecksumMismatch = errors.New("arena: checksum mismatch, possible torn write")
)
