package schema

// MemorySubPayloadSize is the fixed width of a MemorySubPayload record.
const MemorySubPayloadSize = 8 + 8 + 8 + 4

// MemorySubPayload is an entry in a memory subtree: a deferred-fill
// partition of the interval owned by a MemoryPayload with Raw=false. The
// address-space identifier is not repeated here; it is implied by the
// MemoryPayload that references this subtree's root cell. Any byte not
// covered by some MemorySubPayload in the subtree is undefined.
// TraceFileFirstLine is the line of the read that resolved these bytes,
// the sub-block's own last_touch_line contribution.
type MemorySubPayload struct {
	Lo, Hi             Addr
	Contents           OffT
	TraceFileFirstLine uint32
}

func (p MemorySubPayload) Compare(rhs MemorySubPayload) int {
	if p.Hi < rhs.Lo {
		return -1
	}
	if p.Lo > rhs.Hi {
		return 1
	}
	return 0
}

func (p MemorySubPayload) MarshalBinary() []byte {
	b := make([]byte, MemorySubPayloadSize)
	putU64(b[0:8], p.Lo)
	putU64(b[8:16], p.Hi)
	putU64(b[16:24], p.Contents)
	putU32(b[24:28], p.TraceFileFirstLine)
	return b
}

func (p *MemorySubPayload) UnmarshalBinary(b []byte) error {
	if len(b) < MemorySubPayloadSize {
		return ErrShortRecord
	}
	p.Lo = getU64(b[0:8])
	p.Hi = getU64(b[8:16])
	p.Contents = getU64(b[16:24])
	p.TraceFileFirstLine = getU32(b[24:28])
	return nil
}
