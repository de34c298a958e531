package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeqOrderPayloadRoundTrip(t *testing.T) {
	p := SeqOrderPayload{
		ModTime: 1000, PC: 0x8000, TraceFilePos: 4096, TraceFileLen: 64,
		TraceFileFirstLine: 10, TraceFileLines: 2, MemoryRoot: 512, CallDepth: 3,
	}
	raw := p.MarshalBinary()
	require.Len(t, raw, SeqOrderSize)

	var got SeqOrderPayload
	require.NoError(t, got.UnmarshalBinary(raw))
	assert.Equal(t, p, got)
	assert.True(t, got.ContainsLine(10))
	assert.True(t, got.ContainsLine(11))
	assert.False(t, got.ContainsLine(12))
}

func TestSeqOrderPayloadCompare(t *testing.T) {
	a := SeqOrderPayload{TraceFileFirstLine: 5}
	b := SeqOrderPayload{TraceFileFirstLine: 10}
	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestMemoryPayloadOverlapIsEqual(t *testing.T) {
	a := MemoryPayload{SpaceID: SpaceMemory, Lo: 0x1000, Hi: 0x1010}
	b := MemoryPayload{SpaceID: SpaceMemory, Lo: 0x1005, Hi: 0x1020}
	c := MemoryPayload{SpaceID: SpaceMemory, Lo: 0x2000, Hi: 0x2010}

	assert.Equal(t, 0, a.Compare(b), "overlapping intervals compare equal")
	assert.Equal(t, -1, a.Compare(c))
	assert.Equal(t, 1, c.Compare(a))
}

func TestMemoryPayloadSpaceOrdering(t *testing.T) {
	r := MemoryPayload{SpaceID: SpaceRegister, Lo: 0, Hi: 8}
	m := MemoryPayload{SpaceID: SpaceMemory, Lo: 0, Hi: 8}
	// spaces order by their byte value: 'm' (0x6d) before 'r' (0x72)
	assert.Equal(t, 1, r.Compare(m))
}

func TestMemoryPayloadRoundTrip(t *testing.T) {
	p := MemoryPayload{SpaceID: SpaceMemory, Raw: true, Lo: 0x1000, Hi: 0x1001, Contents: 777, TraceFileFirstLine: 5}
	raw := p.MarshalBinary()
	require.Len(t, raw, MemoryPayloadSize)

	var got MemoryPayload
	require.NoError(t, got.UnmarshalBinary(raw))
	assert.Equal(t, p, got)
}

func TestMemoryAnnotationCombineTreatsZeroAsAbsent(t *testing.T) {
	none := MemoryAnnotation{Latest: 0}
	touched := MemoryAnnotation{Latest: 42}

	assert.Equal(t, touched, CombineMemoryAnnotation(none, touched))
	assert.Equal(t, touched, CombineMemoryAnnotation(touched, none))
	assert.Equal(t, none, CombineMemoryAnnotation(none, none))
}

func TestByPCPayloadCompare(t *testing.T) {
	a := ByPCPayload{PC: 0x100, TraceFileFirstLine: 4}
	b := ByPCPayload{PC: 0x100, TraceFileFirstLine: 8}
	c := ByPCPayload{PC: 0x104, TraceFileFirstLine: 1}

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, -1, b.Compare(c))
	assert.Equal(t, 0, a.Compare(a))
}

func TestMemorySubPayloadRoundTrip(t *testing.T) {
	p := MemorySubPayload{Lo: 0x2000, Hi: 0x2003, Contents: 99, TraceFileFirstLine: 7}
	raw := p.MarshalBinary()
	require.Len(t, raw, MemorySubPayloadSize)

	var got MemorySubPayload
	require.NoError(t, got.UnmarshalBinary(raw))
	assert.Equal(t, p, got)
}

func TestCallDepthArrayEntryRoundTrip(t *testing.T) {
	e := CallDepthArrayEntry{CallDepth: SentinelDepth, CumulativeLines: 12, CumulativeInsns: 3, LeftLink: 1, RightLink: 2}
	raw := e.MarshalBinary()
	require.Len(t, raw, CallDepthArrayEntrySize)

	var got CallDepthArrayEntry
	require.NoError(t, got.UnmarshalBinary(raw))
	assert.Equal(t, e, got)
}
