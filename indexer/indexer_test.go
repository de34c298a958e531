package indexer

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvalid/tarmac-trace-utilities/arena"
	"github.com/arvalid/tarmac-trace-utilities/schema"
	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

type stubRegisters struct {
	regs []tarmacio.RegisterInfo
}

func (s stubRegisters) All() []tarmacio.RegisterInfo { return s.regs }

func (s stubRegisters) Lookup(id tarmacio.RegisterID) (tarmacio.RegisterInfo, bool) {
	for _, r := range s.regs {
		if r.ID == id {
			return r, true
		}
	}
	return tarmacio.RegisterInfo{}, false
}

func newArena(t *testing.T) *arena.Arena {
	t.Helper()
	a, err := arena.Create(filepath.Join(t.TempDir(), "trace.idx"), schema.ArenaStart)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestFullBuildProducesCompleteIndex(t *testing.T) {
	logger.New("TEST")
	a := newArena(t)

	regs := stubRegisters{regs: []tarmacio.RegisterInfo{{ID: 0, Name: "r0", Addr: 0, Size: 4}}}
	heuristic := tarmacio.CallDepthHeuristicFunc(func(prevPC, curPC uint64, image tarmacio.Image, depth uint32) tarmacio.CallDepthVerdict {
		if curPC > prevPC+0x1000 {
			return tarmacio.Call
		}
		return tarmacio.Normal
	})

	idx, err := New(a, Params{RecordMemory: true, RecordCalls: true}, nil, regs, heuristic)
	require.NoError(t, err)

	require.NoError(t, idx.HandleEvent(tarmacio.Event{
		Kind: tarmacio.EventInstruction, Time: 1, PC: 0x1000,
		BytePos: 0, ByteLen: 16, FirstLine: 1, Lines: 1,
	}))

	require.NoError(t, idx.HandleEvent(tarmacio.Event{
		Kind: tarmacio.EventMemoryAccess, Time: 2, PC: 0x1004,
		BytePos: 16, ByteLen: 20, FirstLine: 2, Lines: 1,
		Access: &tarmacio.MemoryAccess{Kind: tarmacio.AccessWrite, Addr: 0x2000, Size: 4, Bytes: []byte{1, 2, 3, 4}},
	}))

	require.NoError(t, idx.HandleEvent(tarmacio.Event{
		Kind: tarmacio.EventMemoryAccess, Time: 3, PC: 0x5000,
		BytePos: 36, ByteLen: 20, FirstLine: 3, Lines: 1,
		Access: &tarmacio.MemoryAccess{Kind: tarmacio.AccessRead, Addr: 0x3000, Size: 4, Bytes: []byte{9, 9, 9, 9}},
	}))

	require.NoError(t, idx.Finalize(FinalizeOptions{LineNoOffset: 0}))

	assert.True(t, idx.finalized)
	assert.NotZero(t, idx.seqroot)

	raw, err := a.ReadAt(schema.MagicOffset, schema.ArenaStart)
	require.NoError(t, err)
	header, state, err := schema.CheckHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, schema.HeaderOK, state)
	assert.True(t, header.IsComplete())
	assert.Equal(t, idx.seqroot, header.SeqRoot)
	assert.Equal(t, idx.pcroot, header.ByPCRoot)
}

func TestNonMonotoneBytePositionRejected(t *testing.T) {
	logger.New("TEST")
	a := newArena(t)
	idx, err := New(a, Params{RecordMemory: true, RecordCalls: true}, nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, idx.HandleEvent(tarmacio.Event{Kind: tarmacio.EventInstruction, PC: 0x1000, BytePos: 100, FirstLine: 1, Lines: 1}))
	err = idx.HandleEvent(tarmacio.Event{Kind: tarmacio.EventInstruction, PC: 0x1004, BytePos: 50, FirstLine: 2, Lines: 1})
	assert.True(t, errors.Is(err, ErrNonMonotoneBytePos))
}

func TestFinalizeRejectsNonPersistableParams(t *testing.T) {
	logger.New("TEST")
	a := newArena(t)
	idx, err := New(a, Params{RecordMemory: false, RecordCalls: true}, nil, nil, nil)
	require.NoError(t, err)

	require.NoError(t, idx.HandleEvent(tarmacio.Event{Kind: tarmacio.EventInstruction, PC: 0x1000, BytePos: 0, FirstLine: 1, Lines: 1}))
	err = idx.Finalize(FinalizeOptions{})
	assert.True(t, errors.Is(err, ErrNotPersistable))
}

func TestCallDepthTracksCallAndReturn(t *testing.T) {
	logger.New("TEST")
	a := newArena(t)
	heuristic := tarmacio.CallDepthHeuristicFunc(func(prevPC, curPC uint64, image tarmacio.Image, depth uint32) tarmacio.CallDepthVerdict {
		switch curPC {
		case 0x9000:
			return tarmacio.Call
		case 0x1008:
			return tarmacio.Return
		default:
			return tarmacio.Normal
		}
	})
	idx, err := New(a, Params{RecordMemory: true, RecordCalls: true}, nil, nil, heuristic)
	require.NoError(t, err)

	events := []uint64{0x1000, 0x9000, 0x9004, 0x1008}
	wantDepth := []uint32{0, 1, 1, 0}
	for i, pc := range events {
		require.NoError(t, idx.HandleEvent(tarmacio.Event{
			Kind: tarmacio.EventInstruction, PC: pc, BytePos: uint64(i * 10), FirstLine: uint32(i + 1), Lines: 1,
		}))
		assert.Equal(t, wantDepth[i], idx.callDepth)
	}
}

func TestMemoryWriteThenOverlappingWriteSplits(t *testing.T) {
	logger.New("TEST")
	a := newArena(t)
	idx, err := New(a, Params{RecordMemory: true, RecordCalls: true}, nil, nil, nil)
	require.NoError(t, err)

	first := []byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15}
	require.NoError(t, idx.HandleEvent(tarmacio.Event{
		Kind: tarmacio.EventMemoryAccess, PC: 0x1000, BytePos: 0, FirstLine: 1, Lines: 1,
		Access: &tarmacio.MemoryAccess{Kind: tarmacio.AccessWrite, Addr: 0x1000, Size: 16, Bytes: first},
	}))
	require.NoError(t, idx.HandleEvent(tarmacio.Event{
		Kind: tarmacio.EventMemoryAccess, PC: 0x1004, BytePos: 10, FirstLine: 2, Lines: 1,
		Access: &tarmacio.MemoryAccess{Kind: tarmacio.AccessWrite, Addr: 0x1004, Size: 4, Bytes: []byte{1, 2, 3, 4}},
	}))

	covering, err := idx.coveringPayloads(schema.SpaceMemory, 0x1000, 0x100f)
	require.NoError(t, err)
	// the second write should have split the first into a below piece, the
	// new write itself, and an above piece: three raw entries plus nothing
	// left deferred-fill in this range.
	var rawCount int
	var below, above schema.MemoryPayload
	for _, p := range covering {
		if !p.Raw {
			continue
		}
		rawCount++
		switch p.Lo {
		case 0x1000:
			below = p
		case 0x1008:
			above = p
		}
	}
	assert.Equal(t, 3, rawCount)

	// the above piece must read back the upper half of the original write,
	// not the original write's Contents offset unshifted: a naive carve
	// that reinserts "above" with existing.Contents verbatim would read the
	// below piece's bytes here instead.
	belowBytes, err := a.ReadAt(below.Contents, 4)
	require.NoError(t, err)
	assert.Equal(t, first[0:4], belowBytes)

	aboveBytes, err := a.ReadAt(above.Contents, 8)
	require.NoError(t, err)
	assert.Equal(t, first[8:16], aboveBytes)
}
