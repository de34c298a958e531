package schema

// Layout positions, per spec.md 6.1: the magic number is reserved at offset
// 0, the FileHeader immediately follows at offset 16, and everything from
// ArenaStart onward is the arena body (tree nodes, payloads, raw blobs,
// CallDepthArrayEntry arrays, subtree-root cells).
const (
	MagicOffset  = 0
	HeaderOffset = MagicSize // 16
	HeaderSize   = 4 + 8 + 8 + 4
	ArenaStart   = HeaderOffset + HeaderSize
)

// Flag bits for FileHeader.Flags.
const (
	FlagBigEnd      uint32 = 1 << 0 // trace was believed big-endian at index time
	FlagAArch64     uint32 = 1 << 1 // trace includes AArch64 execution state
	FlagComplete    uint32 = 1 << 2 // index generation completed successfully
	FlagThumbOnly   uint32 = 1 << 3 // trace assumes everything is Thumb
	FlagChecksummed uint32 = 1 << 4 // memory-contents blobs carry a murmur3 trailer
)

// FileHeader is the fixed record living at HeaderOffset. The indexer's
// Finalize writes it after the layered-range post-pass, first without
// FlagComplete and then with it; until then the region stays zeroed, so a
// reader that opens the file early observes Incomplete.
type FileHeader struct {
	Flags        uint32
	SeqRoot      OffT
	ByPCRoot     OffT
	LineNoOffset uint32
}

// MarshalBinary encodes h in the fixed little-endian layout.
func (h FileHeader) MarshalBinary() []byte {
	b := make([]byte, HeaderSize)
	putU32(b[0:4], h.Flags)
	putU64(b[4:12], h.SeqRoot)
	putU64(b[12:20], h.ByPCRoot)
	putU32(b[20:24], h.LineNoOffset)
	return b
}

// UnmarshalBinary decodes h from exactly HeaderSize bytes.
func (h *FileHeader) UnmarshalBinary(b []byte) error {
	if len(b) < HeaderSize {
		return ErrShortRecord
	}
	h.Flags = getU32(b[0:4])
	h.SeqRoot = getU64(b[4:12])
	h.ByPCRoot = getU64(b[12:20])
	h.LineNoOffset = getU32(b[20:24])
	return nil
}

func (h FileHeader) IsComplete() bool    { return h.Flags&FlagComplete != 0 }
func (h FileHeader) IsBigEndian() bool   { return h.Flags&FlagBigEnd != 0 }
func (h FileHeader) IsAArch64() bool     { return h.Flags&FlagAArch64 != 0 }
func (h FileHeader) IsThumbOnly() bool   { return h.Flags&FlagThumbOnly != 0 }
func (h FileHeader) IsChecksummed() bool { return h.Flags&FlagChecksummed != 0 }

// HeaderState is the tri-state result of opening an index file, matching the
// original source's check_index_header (include/libtarmac/index.hh).
type HeaderState int

const (
	HeaderOK HeaderState = iota
	HeaderWrongMagic
	HeaderIncomplete
)

func (s HeaderState) String() string {
	switch s {
	case HeaderOK:
		return "OK"
	case HeaderWrongMagic:
		return "WrongMagic"
	case HeaderIncomplete:
		return "Incomplete"
	default:
		return "unknown"
	}
}

// CheckHeader validates the magic and completeness of raw file bytes
// (at least ArenaStart long) and, on success, returns the decoded header.
func CheckHeader(raw []byte) (FileHeader, HeaderState, error) {
	var h FileHeader
	if len(raw) < ArenaStart {
		return h, HeaderWrongMagic, ErrBadMagic
	}
	if !CheckMagic(raw[MagicOffset : MagicOffset+MagicSize]) {
		return h, HeaderWrongMagic, ErrBadMagic
	}
	if err := h.UnmarshalBinary(raw[HeaderOffset : HeaderOffset+HeaderSize]); err != nil {
		return h, HeaderWrongMagic, err
	}
	if !h.IsComplete() {
		return h, HeaderIncomplete, ErrIncomplete
	}
	return h, HeaderOK, nil
}
