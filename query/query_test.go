package query

import (
	"path/filepath"
	"testing"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/stretchr/testify/require"

	"github.com/arvalid/tarmac-trace-utilities/arena"
	"github.com/arvalid/tarmac-trace-utilities/indexer"
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

// buildFixture writes a small five-event trace to a fresh index file and
// reopens it read-only through this package's Open. The five events exist
// to give every accessor in this package something non-trivial to chew on:
// a memory write, a register write, and a call/return pair.
//
//	line 1  PC 0x1000  time 10  depth 0
//	line 2  PC 0x1004  time 20  depth 0  writes 0x2000..0x2003 = {1,2,3,4}
//	line 3  PC 0x9000  time 30  depth 1  (call)
//	line 4  PC 0x9004  time 40  depth 1  writes r0 = {9,9,9,9}
//	line 5  PC 0x1008  time 50  depth 0  (return)
func buildFixture(t *testing.T) (*Index, []uint64) {
	t.Helper()
	logger.New("TEST")

	path := filepath.Join(t.TempDir(), "fixture.idx")
	a, err := arena.Create(path, schema.ArenaStart)
	require.NoError(t, err)

	regs := stubRegisters{regs: []tarmacio.RegisterInfo{{ID: 0, Name: "r0", Addr: 0x10, Size: 4}}}
	heuristic := tarmacio.CallDepthHeuristicFunc(func(prevPC, curPC uint64, image tarmacio.Image, depth uint32) tarmacio.CallDepthVerdict {
		switch {
		case curPC == 0x9000:
			return tarmacio.Call
		case curPC == 0x1008:
			return tarmacio.Return
		default:
			return tarmacio.Normal
		}
	})

	idx, err := indexer.New(a, indexer.Params{RecordMemory: true, RecordCalls: true}, nil, regs, heuristic)
	require.NoError(t, err)

	events := []tarmacio.Event{
		{Kind: tarmacio.EventInstruction, Time: 10, PC: 0x1000, BytePos: 0, ByteLen: 10, FirstLine: 1, Lines: 1},
		{
			Kind: tarmacio.EventMemoryAccess, Time: 20, PC: 0x1004, BytePos: 10, ByteLen: 10, FirstLine: 2, Lines: 1,
			Access: &tarmacio.MemoryAccess{Kind: tarmacio.AccessWrite, Addr: 0x2000, Size: 4, Bytes: []byte{1, 2, 3, 4}},
		},
		{Kind: tarmacio.EventInstruction, Time: 30, PC: 0x9000, BytePos: 20, ByteLen: 10, FirstLine: 3, Lines: 1},
		{
			Kind: tarmacio.EventRegisterWrite, Time: 40, PC: 0x9004, BytePos: 30, ByteLen: 10, FirstLine: 4, Lines: 1,
			Register: &tarmacio.RegisterWrite{Reg: 0, Bytes: []byte{9, 9, 9, 9}},
		},
		{Kind: tarmacio.EventInstruction, Time: 50, PC: 0x1008, BytePos: 40, ByteLen: 10, FirstLine: 5, Lines: 1},
	}

	memroots := make([]uint64, len(events))
	for i, ev := range events {
		require.NoError(t, idx.HandleEvent(ev))
		// capture the memroot that will end up on this event's own seq
		// node, by reading straight back through node_at_line below once
		// the index is open; here we only need the event count.
		_ = i
	}

	require.NoError(t, idx.Finalize(indexer.FinalizeOptions{LineNoOffset: 0}))
	require.NoError(t, a.Close())

	q, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })

	for i := range events {
		p, _, err := q.NodeAtLine(uint32(i + 1))
		require.NoError(t, err)
		memroots[i] = p.MemoryRoot
	}
	return q, memroots
}
