package schema

// Space identifies an address space within the memory tree: registers
// occupy a small synthetic address range of their own, which lets the same
// tree hold both memory and registers (and lets registers like s0/d0 overlap
// in that synthetic space without colliding with real memory addresses).
type Space byte

const (
	SpaceRegister Space = 'r'
	SpaceMemory   Space = 'm'
)

// MemoryPayloadSize is the fixed width of a MemoryPayload record.
const MemoryPayloadSize = 1 + 1 + 8 + 8 + 8 + 4

// MemoryPayload describes one address-interval entry in a memory tree. All
// entries reachable from one memory tree root, for a given Space, have
// pairwise-disjoint [Lo,Hi] intervals: together they partition the space, and
// gaps are implicitly undefined.
//
// If Raw is true, Contents is the arena offset of the raw bytes covering
// [Lo,Hi]. If Raw is false, Contents is the offset of a one-word "subtree
// cell" (see indexer/cell.go) holding the current root of a MemorySubTree
// of MemorySubPayload entries, filled in retroactively as the indexer learns
// more about the region.
type MemoryPayload struct {
	SpaceID            Space
	Raw                bool
	Lo, Hi             Addr
	Contents           OffT
	TraceFileFirstLine uint32
}

// Compare treats any overlap between intervals in the same space as
// equality, so a Lookup for a new write's interval finds any entry it
// overlaps, which the indexer then splits rather than silently duplicating
// coverage. Different spaces order by their byte value.
func (p MemoryPayload) Compare(rhs MemoryPayload) int {
	if p.SpaceID != rhs.SpaceID {
		if p.SpaceID < rhs.SpaceID {
			return -1
		}
		return 1
	}
	if p.Hi < rhs.Lo {
		return -1
	}
	if p.Lo > rhs.Hi {
		return 1
	}
	return 0
}

func (p MemoryPayload) MarshalBinary() []byte {
	b := make([]byte, MemoryPayloadSize)
	b[0] = byte(p.SpaceID)
	if p.Raw {
		b[1] = 1
	}
	putU64(b[2:10], p.Lo)
	putU64(b[10:18], p.Hi)
	putU64(b[18:26], p.Contents)
	putU32(b[26:30], p.TraceFileFirstLine)
	return b
}

func (p *MemoryPayload) UnmarshalBinary(b []byte) error {
	if len(b) < MemoryPayloadSize {
		return ErrShortRecord
	}
	p.SpaceID = Space(b[0])
	p.Raw = b[1] != 0
	p.Lo = getU64(b[2:10])
	p.Hi = getU64(b[10:18])
	p.Contents = getU64(b[18:26])
	p.TraceFileFirstLine = getU32(b[26:30])
	return nil
}

// MemoryAnnotationSize is the fixed width of a MemoryAnnotation record.
const MemoryAnnotationSize = 4

// MemoryAnnotation tracks, for a subtree of the memory tree, the most recent
// trace_file_firstline that touched any byte within it. A value of zero
// means "no modification recorded" (see DESIGN.md for the open-question
// resolution on this point); Combine therefore just takes the max, which
// already does the right thing when one side is absent.
type MemoryAnnotation struct {
	Latest uint32
}

func LiftMemoryAnnotation(p MemoryPayload) MemoryAnnotation {
	return MemoryAnnotation{Latest: p.TraceFileFirstLine}
}

func CombineMemoryAnnotation(lhs, rhs MemoryAnnotation) MemoryAnnotation {
	if lhs.Latest > rhs.Latest {
		return lhs
	}
	return rhs
}

func (a MemoryAnnotation) MarshalBinary() []byte {
	b := make([]byte, MemoryAnnotationSize)
	putU32(b[0:4], a.Latest)
	return b
}

func (a *MemoryAnnotation) UnmarshalBinary(b []byte) error {
	if len(b) < MemoryAnnotationSize {
		return ErrShortRecord
	}
	a.Latest = getU32(b[0:4])
	return nil
}
