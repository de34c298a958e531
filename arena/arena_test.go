package arena_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvalid/tarmac-trace-utilities/arena"
	"github.com/arvalid/tarmac-trace-utilities/schema"
)

func TestAllocateWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.tarmacidx")
	a, err := arena.Create(path, schema.ArenaStart)
	require.NoError(t, err)
	defer a.Close()

	assert.EqualValues(t, schema.ArenaStart, a.Size())

	off, err := a.Allocate(16)
	require.NoError(t, err)
	assert.EqualValues(t, schema.ArenaStart, off)

	want := []byte("0123456789abcdef")
	require.NoError(t, a.WriteAt(off, want))

	got, err := a.ReadAt(off, 16)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestReadPastExtentFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.tarmacidx")
	a, err := arena.Create(path, 8)
	require.NoError(t, err)
	defer a.Close()

	_, err = a.ReadAt(0, 100)
	assert.ErrorIs(t, err, arena.ErrOutOfBounds)
}

func TestWritePastExtentFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.tarmacidx")
	a, err := arena.Create(path, 8)
	require.NoError(t, err)
	defer a.Close()

	err = a.WriteAt(0, make([]byte, 100))
	assert.ErrorIs(t, err, arena.ErrOutOfBounds)
}

func TestAllocateAlignedPads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.tarmacidx")
	a, err := arena.Create(path, 3)
	require.NoError(t, err)
	defer a.Close()

	off, err := a.AllocateAligned(8, 8)
	require.NoError(t, err)
	assert.EqualValues(t, 8, off)
}

func TestPutGetTypedRecord(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.tarmacidx")
	a, err := arena.Create(path, 0)
	require.NoError(t, err)
	defer a.Close()

	p := schema.SeqOrderPayload{ModTime: 7, PC: 0x4000, TraceFileFirstLine: 3, TraceFileLines: 1}
	off, err := arena.Append(a, p)
	require.NoError(t, err)

	got, err := arena.Get[schema.SeqOrderPayload](a, off, schema.SeqOrderSize)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestIntegrityChecksDetectCorruption(t *testing.T) {
	path := filepath.Join(t.TempDir(), "idx.tarmacidx")
	a, err := arena.Create(path, 0, arena.WithIntegrityChecks())
	require.NoError(t, err)
	defer a.Close()

	off, err := a.PutChecked([]byte("hello"))
	require.NoError(t, err)

	got, err := a.GetChecked(off, 5)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), got)

	require.NoError(t, a.WriteAt(off, []byte("HELLO")))
	_, err = a.GetChecked(off, 5)
	assert.ErrorIs(t, err, arena.ErrChecksumMismatch)
}
