package schema

// SentinelDepth terminates every CallDepthArrayEntry array. It equals
// 2^32-2, per spec.md 3.3: nothing recurses anywhere near that deep, so it is
// safe to reserve as "all depths, no upper bound".
const SentinelDepth uint32 = 0xFFFFFFFE

// SeqOrderAnnotationSize is the fixed width of a SeqOrderAnnotation record.
const SeqOrderAnnotationSize = 8 + 4

// SeqOrderAnnotation describes where a node's CallDepthArrayEntry array
// lives. The array itself is filled in only by the lrt post-pass (see
// package lrt); at insert time the slot is reserved and zeroed.
type SeqOrderAnnotation struct {
	CallDepthArrayOff OffT
	CallDepthArrayLen uint32
}

func (a SeqOrderAnnotation) MarshalBinary() []byte {
	b := make([]byte, SeqOrderAnnotationSize)
	putU64(b[0:8], a.CallDepthArrayOff)
	putU32(b[8:12], a.CallDepthArrayLen)
	return b
}

func (a *SeqOrderAnnotation) UnmarshalBinary(b []byte) error {
	if len(b) < SeqOrderAnnotationSize {
		return ErrShortRecord
	}
	a.CallDepthArrayOff = getU64(b[0:8])
	a.CallDepthArrayLen = getU32(b[8:12])
	return nil
}

// CallDepthArrayEntrySize is the fixed width of one CallDepthArrayEntry.
const CallDepthArrayEntrySize = 4 + 4 + 4 + 4 + 4

// CallDepthArrayEntry is one row of a node's cumulative-frequency table,
// sorted by CallDepth ascending and terminated by an entry at SentinelDepth
// whose cumulative counts equal the totals for the subtree. LeftLink and
// RightLink are indices into the corresponding child's array: the first
// entry there with CallDepth >= this entry's CallDepth.
type CallDepthArrayEntry struct {
	CallDepth        uint32
	CumulativeLines  uint32
	CumulativeInsns  uint32
	LeftLink         uint32
	RightLink        uint32
}

func (e CallDepthArrayEntry) MarshalBinary() []byte {
	b := make([]byte, CallDepthArrayEntrySize)
	putU32(b[0:4], e.CallDepth)
	putU32(b[4:8], e.CumulativeLines)
	putU32(b[8:12], e.CumulativeInsns)
	putU32(b[12:16], e.LeftLink)
	putU32(b[16:20], e.RightLink)
	return b
}

func (e *CallDepthArrayEntry) UnmarshalBinary(b []byte) error {
	if len(b) < CallDepthArrayEntrySize {
		return ErrShortRecord
	}
	e.CallDepth = getU32(b[0:4])
	e.CumulativeLines = getU32(b[4:8])
	e.CumulativeInsns = getU32(b[8:12])
	e.LeftLink = getU32(b[12:16])
	e.RightLink = getU32(b[16:20])
	return nil
}
