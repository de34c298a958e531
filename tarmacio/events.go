// Package tarmacio defines the narrow interfaces the indexer consumes from
// its external collaborators: the trace parser, the image/symbol table,
// and the call-depth heuristic. None of the three is implemented here —
// parsing a specific trace format, loading a specific image format, and
// classifying branches are all explicitly out of scope for this module;
// only the contracts the indexer core depends on are defined, in the
// style of massifs/storageinterface.go's narrow per-capability interfaces.
package tarmacio

// EventKind distinguishes the five event shapes the parser collaborator
// may emit.
type EventKind int

const (
	EventInstruction EventKind = iota
	EventMemoryAccess
	EventRegisterWrite
	EventException
	EventSemihostingRegion
)

// AccessKind distinguishes a memory access event's direction.
type AccessKind int

const (
	AccessRead AccessKind = iota
	AccessWrite
)

// RegisterID identifies one architectural register, as assigned by the
// RegisterMap collaborator.
type RegisterID uint32

// MemoryAccess carries the fields of an EventMemoryAccess event.
type MemoryAccess struct {
	Kind  AccessKind
	Addr  uint64
	Size  uint32
	Bytes []byte // len(Bytes) == Size for a write; the observed value for a read
}

// RegisterWrite carries the fields of an EventRegisterWrite event.
type RegisterWrite struct {
	Reg   RegisterID
	Bytes []byte
}

// SemihostingRegion carries the fields of an EventSemihostingRegion event:
// a semihosting call declaring that [Addr, Addr+Size) should be treated as
// freshly unknown, replacing whatever coverage existed there.
type SemihostingRegion struct {
	Addr uint64
	Size uint32
}

// Event is one entry in the parser's event stream. Which of Access,
// Register, and Semihosting is populated depends on Kind; Call/Return
// classification is not carried on the event itself — the core derives it
// per event via the CallDepthHeuristic collaborator.
type Event struct {
	Kind EventKind

	Time uint64
	PC   uint64

	BytePos uint64
	ByteLen uint64

	FirstLine uint32
	Lines     uint32

	Access      *MemoryAccess
	Register    *RegisterWrite
	Semihosting *SemihostingRegion

	Exception bool
}

// Parser streams trace events in trace order. Next returns io.EOF (from
// the standard library) when the stream is exhausted.
type Parser interface {
	Next() (Event, error)
}
