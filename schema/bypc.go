package schema

// ExceptionPC is the reserved PC value marking an exception event in the
// by-PC tree. 6 can never be a legal PC: legal PCs are 0 mod 4 for A32/A64,
// or 1/3 mod 4 for Thumb (the "low bit set" BX encoding).
const ExceptionPC Addr = 6

// ByPCPayloadSize is the fixed width of a ByPCPayload record.
const ByPCPayloadSize = 8 + 4

// ByPCPayload indexes the same events as the sequential-order tree, but
// sorted primarily by PC and secondarily by trace_file_firstline, so the
// browser can enumerate every visit to a given address in order.
type ByPCPayload struct {
	PC                 Addr
	TraceFileFirstLine uint32
}

func (p ByPCPayload) Compare(rhs ByPCPayload) int {
	if p.PC != rhs.PC {
		if p.PC < rhs.PC {
			return -1
		}
		return 1
	}
	if p.TraceFileFirstLine != rhs.TraceFileFirstLine {
		if p.TraceFileFirstLine < rhs.TraceFileFirstLine {
			return -1
		}
		return 1
	}
	return 0
}

func (p ByPCPayload) MarshalBinary() []byte {
	b := make([]byte, ByPCPayloadSize)
	putU64(b[0:8], p.PC)
	putU32(b[8:12], p.TraceFileFirstLine)
	return b
}

func (p *ByPCPayload) UnmarshalBinary(b []byte) error {
	if len(b) < ByPCPayloadSize {
		return ErrShortRecord
	}
	p.PC = getU64(b[0:8])
	p.TraceFileFirstLine = getU32(b[8:12])
	return nil
}
