package query

import (
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvalid/tarmac-trace-utilities/arena"
	"github.com/arvalid/tarmac-trace-utilities/indexer"
	"github.com/arvalid/tarmac-trace-utilities/schema"
	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

func TestGetMemReturnsWrittenBytes(t *testing.T) {
	q, memroots := buildFixture(t)

	data, mask, lastTouch, err := q.GetMem(memroots[1], schema.SpaceMemory, 0x2000, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
	assert.Equal(t, []bool{true, true, true, true}, mask)
	assert.EqualValues(t, 2, lastTouch)
}

func TestGetMemUndefinedOutsideWrite(t *testing.T) {
	q, memroots := buildFixture(t)

	_, mask, _, err := q.GetMem(memroots[1], schema.SpaceMemory, 0x2000, 8)
	require.NoError(t, err)
	assert.Equal(t, []bool{true, true, true, true, false, false, false, false}, mask)
}

func TestGetMemBeforeWriteIsUndefined(t *testing.T) {
	q, memroots := buildFixture(t)

	_, mask, _, err := q.GetMem(memroots[0], schema.SpaceMemory, 0x2000, 4)
	require.NoError(t, err)
	assert.Equal(t, []bool{false, false, false, false}, mask)
}

func TestGetMemNext(t *testing.T) {
	q, memroots := buildFixture(t)

	found, at, err := q.GetMemNext(memroots[1], schema.SpaceMemory, 0x1ffc, 16)
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 0x2000, at)
}

func TestGetRegValue(t *testing.T) {
	q, memroots := buildFixture(t)
	reg := tarmacio.RegisterInfo{ID: 0, Name: "r0", Addr: 0x10, Size: 4}

	v, err := q.GetRegValue(memroots[3], reg)
	require.NoError(t, err)
	assert.EqualValues(t, 0x09090909, v)

	_, err = q.GetRegValue(memroots[0], reg)
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestGetIflags(t *testing.T) {
	q, memroots := buildFixture(t)
	reg := tarmacio.RegisterInfo{ID: 0, Name: "r0", Addr: 0x10, Size: 4}

	v, err := q.GetIflags(memroots[3], reg)
	require.NoError(t, err)
	assert.EqualValues(t, 0x09090909, v)

	_, err = q.GetIflags(memroots[0], reg)
	assert.ErrorIs(t, err, ErrUndefined)
}

func TestGetRegValueTooWide(t *testing.T) {
	q, memroots := buildFixture(t)
	reg := tarmacio.RegisterInfo{ID: 1, Name: "v0", Addr: 0x20, Size: 16}

	_, err := q.GetRegValue(memroots[3], reg)
	assert.ErrorIs(t, err, ErrRegisterTooWide)
}

// TestGetMemLastTouchFromDeferredFillRead builds a single read of
// undefined bytes at trace line 7 and checks that GetMem reports it as
// last_touch_line for the resolved region, the same as it would for a raw
// write (worked example S3).
func TestGetMemLastTouchFromDeferredFillRead(t *testing.T) {
	logger.New("TEST")
	path := filepath.Join(t.TempDir(), "deferredfill.idx")
	a, err := arena.Create(path, schema.ArenaStart)
	require.NoError(t, err)

	idx, err := indexer.New(a, indexer.Params{RecordMemory: true, RecordCalls: true}, nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, idx.HandleEvent(tarmacio.Event{
		Kind: tarmacio.EventMemoryAccess, Time: 1, PC: 0x1000,
		BytePos: 0, ByteLen: 10, FirstLine: 7, Lines: 1,
		Access: &tarmacio.MemoryAccess{Kind: tarmacio.AccessRead, Addr: 0x3000, Size: 4, Bytes: []byte{5, 6, 7, 8}},
	}))

	require.NoError(t, idx.Finalize(indexer.FinalizeOptions{LineNoOffset: 0}))
	require.NoError(t, a.Close())

	q, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	p, _, err := q.NodeAtLine(7)
	require.NoError(t, err)
	assert.EqualValues(t, 7, p.TraceFileFirstLine)

	data, mask, lastTouch, err := q.GetMem(p.MemoryRoot, schema.SpaceMemory, 0x3000, 4)
	require.NoError(t, err)
	assert.Equal(t, []byte{5, 6, 7, 8}, data)
	assert.Equal(t, []bool{true, true, true, true}, mask)
	assert.EqualValues(t, 7, lastTouch)
}

func TestFindNextMod(t *testing.T) {
	q, memroots := buildFixture(t)

	lo, hi, found, err := q.FindNextMod(memroots[4], schema.SpaceMemory, 0x2000, 1, true)
	require.NoError(t, err)
	assert.True(t, found)
	assert.EqualValues(t, 0x2000, lo)
	assert.EqualValues(t, 0x2003, hi)

	_, _, found, err = q.FindNextMod(memroots[4], schema.SpaceMemory, 0x2000, 3, true)
	require.NoError(t, err)
	assert.False(t, found)
}
