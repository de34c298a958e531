package schema

// SeqOrderSize is the fixed on-disk width of a SeqOrderPayload record.
const SeqOrderSize = 8 + 8 + 8 + 8 + 4 + 4 + 8 + 4

// SeqOrderPayload is the payload of the sequential-order tree: one entry per
// observable instant in the trace. Order key is TraceFileFirstLine (see
// Compare), which is monotone in both byte position and time.
type SeqOrderPayload struct {
	ModTime            Time
	PC                 Addr
	TraceFilePos       OffT
	TraceFileLen       OffT
	TraceFileFirstLine uint32
	TraceFileLines     uint32
	MemoryRoot         OffT
	CallDepth          uint32
}

// Compare orders two SeqOrderPayloads by TraceFileFirstLine.
func (p SeqOrderPayload) Compare(rhs SeqOrderPayload) int {
	switch {
	case p.TraceFileFirstLine < rhs.TraceFileFirstLine:
		return -1
	case p.TraceFileFirstLine > rhs.TraceFileFirstLine:
		return 1
	default:
		return 0
	}
}

func (p SeqOrderPayload) MarshalBinary() []byte {
	b := make([]byte, SeqOrderSize)
	putU64(b[0:8], p.ModTime)
	putU64(b[8:16], p.PC)
	putU64(b[16:24], p.TraceFilePos)
	putU64(b[24:32], p.TraceFileLen)
	putU32(b[32:36], p.TraceFileFirstLine)
	putU32(b[36:40], p.TraceFileLines)
	putU64(b[40:48], p.MemoryRoot)
	putU32(b[48:52], p.CallDepth)
	return b
}

func (p *SeqOrderPayload) UnmarshalBinary(b []byte) error {
	if len(b) < SeqOrderSize {
		return ErrShortRecord
	}
	p.ModTime = getU64(b[0:8])
	p.PC = getU64(b[8:16])
	p.TraceFilePos = getU64(b[16:24])
	p.TraceFileLen = getU64(b[24:32])
	p.TraceFileFirstLine = getU32(b[32:36])
	p.TraceFileLines = getU32(b[36:40])
	p.MemoryRoot = getU64(b[40:48])
	p.CallDepth = getU32(b[48:52])
	return nil
}

// LastLine returns the line number one past the last line this event
// covers, i.e. the exclusive end of [FirstLine, FirstLine+Lines).
func (p SeqOrderPayload) LastLine() uint32 { return p.TraceFileFirstLine + p.TraceFileLines }

// ContainsLine reports whether line L falls within this event's line range.
func (p SeqOrderPayload) ContainsLine(line uint32) bool {
	return line >= p.TraceFileFirstLine && line < p.LastLine()
}
