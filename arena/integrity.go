package arena

import (
	"encoding/binary"

	"github.com/spaolacci/murmur3"
)

// checksumSize is the width of the trailer appended by PutChecked.
const checksumSize = 8

// PutChecked allocates space for b plus an 8-byte murmur3 checksum trailer
// and writes both. Only meaningful when the arena was opened with
// WithIntegrityChecks; otherwise it behaves exactly like an Allocate
// followed by WriteAt.
func (a *Arena) PutChecked(b []byte) (uint64, error) {
	if !a.checksum {
		off, err := a.Allocate(len(b))
		if err != nil {
			return 0, err
		}
		return off, a.WriteAt(off, b)
	}

	off, err := a.Allocate(len(b) + checksumSize)
	if err != nil {
		return 0, err
	}
	framed := make([]byte, len(b)+checksumSize)
	copy(framed, b)
	binary.LittleEndian.PutUint64(framed[len(b):], murmur3.Sum64(b))
	return off, a.WriteAt(off, framed)
}

// GetChecked reads n bytes written by PutChecked and verifies the trailer.
func (a *Arena) GetChecked(off uint64, n int) ([]byte, error) {
	if !a.checksum {
		return a.ReadAt(off, n)
	}

	framed, err := a.ReadAt(off, n+checksumSize)
	if err != nil {
		return nil, err
	}
	b := framed[:n]
	want := binary.LittleEndian.Uint64(framed[n:])
	if murmur3.Sum64(b) != want {
		return nil, ErrChecksumMismatch
	}
	return b, nil
}
