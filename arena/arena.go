// Package arena implements the append-only byte region backing an index
// file: a single growable file, monotonic offset allocation, and typed
// reads/writes of fixed-layout records at an offset.
//
// The teacher (forestrie-go-merklelog/massifs) addresses its blobs as
// in-memory []byte fetched whole from object storage; it has no local,
// growable, random-offset byte arena of its own. The os.File-plus-mutex
// shape here is grounded on vi88i-kvstash's store/writer.go instead, with
// the header-region-reservation discipline grounded on the teacher's
// massifs/logformat.go.
package arena

import (
	"fmt"
	"os"
	"sync"
)

// Arena is a single-writer-at-a-time append-only byte region over a file.
// Offsets returned by Allocate are stable for the lifetime of the file:
// once a record has been written at an offset and that offset has been
// handed to a caller, its bytes are never rewritten. There are two
// exceptions: the subtree-root cells of package indexer, which are
// rewritten in place as each memory subtree grows, and the lrt post-pass,
// which fills annotation slots that were reserved at insert time.
type Arena struct {
	mu       sync.Mutex
	file     *os.File
	size     int64 // current allocated extent
	checksum bool
}

// Option configures an Arena at Open/Create time.
type Option func(*Arena)

// WithIntegrityChecks enables a murmur3 checksum alongside every record
// written via PutChecked/GetChecked, for torn-write detection. Off by
// default: the arena's correctness does not depend on it, and the spec's
// concurrency model (single writer, readers only after COMPLETE) already
// rules out the concurrent-writer class of corruption this would catch.
func WithIntegrityChecks() Option {
	return func(a *Arena) { a.checksum = true }
}

// Create opens path for read/write, creating it or truncating any existing
// content, and reserves the first n bytes (typically schema.ArenaStart) as
// a fixed header region that the caller will fill in separately.
func Create(path string, headerReserve int64, opts ...Option) (*Arena, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %v", ErrIO, path, err)
	}
	a := &Arena{file: f}
	for _, opt := range opts {
		opt(a)
	}
	if headerReserve > 0 {
		if _, err := a.growTo(headerReserve); err != nil {
			f.Close()
			return nil, err
		}
	}
	return a, nil
}

// Open opens an existing arena file read/write for continued indexing, or
// read-only for querying.
func Open(path string, readOnly bool, opts ...Option) (*Arena, error) {
	flag := os.O_RDWR
	if readOnly {
		flag = os.O_RDONLY
	}
	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrIO, path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: stat %s: %v", ErrIO, path, err)
	}
	a := &Arena{file: f, size: info.Size()}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Size returns the current allocated extent of the arena.
func (a *Arena) Size() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.size
}

// IntegrityChecks reports whether PutChecked/GetChecked append and verify a
// murmur3 trailer on this arena, per WithIntegrityChecks.
func (a *Arena) IntegrityChecks() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.checksum
}

// SetIntegrityChecks overrides the checksum mode set at Open/Create time.
// query uses this to adopt whatever mode the file was built with, read back
// from FileHeader rather than chosen independently by the reader.
func (a *Arena) SetIntegrityChecks(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.checksum = enabled
}

// Allocate reserves n bytes and returns the offset of the first one. The
// reserved region is zero-filled; the caller is responsible for writing its
// contents with WriteAt before exposing the offset to anything else.
func (a *Arena) Allocate(n int) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	off := a.size
	if _, err := a.growTo(a.size + int64(n)); err != nil {
		return 0, err
	}
	return uint64(off), nil
}

// AllocateAligned is like Allocate but rounds the returned offset up to the
// next multiple of align (align must be a power of two).
func (a *Arena) AllocateAligned(n int, align int) (uint64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	mask := int64(align - 1)
	padded := (a.size + mask) &^ mask
	if padded != a.size {
		if _, err := a.growTo(padded); err != nil {
			return 0, err
		}
	}
	off := a.size
	if _, err := a.growTo(a.size + int64(n)); err != nil {
		return 0, err
	}
	return uint64(off), nil
}

// growTo extends the allocated extent to at least newSize, without touching
// already-allocated bytes. Must be called with a.mu held.
func (a *Arena) growTo(newSize int64) (int64, error) {
	if newSize <= a.size {
		return a.size, nil
	}
	if err := a.file.Truncate(newSize); err != nil {
		return 0, fmt.Errorf("%w: grow to %d: %v", ErrIO, newSize, err)
	}
	a.size = newSize
	return a.size, nil
}

// WriteAt writes b at offset off. off+len(b) must not exceed the allocated
// extent (callers write into space they have already Allocate'd).
func (a *Arena) WriteAt(off uint64, b []byte) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if int64(off)+int64(len(b)) > a.size {
		return fmt.Errorf("%w: write [%d,%d) exceeds extent %d", ErrOutOfBounds, off, off+uint64(len(b)), a.size)
	}
	if _, err := a.file.WriteAt(b, int64(off)); err != nil {
		return fmt.Errorf("%w: write at %d: %v", ErrIO, off, err)
	}
	return nil
}

// ReadAt reads n bytes starting at off.
func (a *Arena) ReadAt(off uint64, n int) ([]byte, error) {
	a.mu.Lock()
	size := a.size
	a.mu.Unlock()

	if int64(off)+int64(n) > size {
		return nil, fmt.Errorf("%w: read [%d,%d) exceeds extent %d", ErrOutOfBounds, off, off+uint64(n), size)
	}
	b := make([]byte, n)
	if _, err := a.file.ReadAt(b, int64(off)); err != nil {
		return nil, fmt.Errorf("%w: read at %d: %v", ErrIO, off, err)
	}
	return b, nil
}

// Sync flushes pending writes to stable storage.
func (a *Arena) Sync() error {
	if err := a.file.Sync(); err != nil {
		return fmt.Errorf("%w: sync: %v", ErrIO, err)
	}
	return nil
}

// Close releases the underlying file handle. Safe to call on every exit
// path, including after a failed Open/Create.
func (a *Arena) Close() error {
	if a == nil || a.file == nil {
		return nil
	}
	err := a.file.Close()
	a.file = nil
	if err != nil {
		return fmt.Errorf("%w: close: %v", ErrIO, err)
	}
	return nil
}
