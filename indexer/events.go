package indexer

import (
	"fmt"

	"github.com/arvalid/tarmac-trace-utilities/schema"
	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

// HandleEvent runs one event through the indexer's per-event pipeline:
// time coercion, memory/register write splitting, deferred-fill resolution
// on reads, call-depth tracking, and the by-PC/sequential-order tree
// inserts. Events must be delivered in non-decreasing trace-file byte
// order; HandleEvent returns ErrNonMonotoneBytePos otherwise.
func (idx *Indexer) HandleEvent(ev tarmacio.Event) error {
	if idx.finalized {
		return ErrAlreadyFinalized
	}

	if idx.haveBytePos && ev.BytePos < idx.lastBytePos {
		return fmt.Errorf("%w: line %d", ErrNonMonotoneBytePos, ev.FirstLine)
	}
	idx.haveBytePos = true
	idx.lastBytePos = ev.BytePos

	if ev.Time > uint64(idx.latestTime) {
		idx.latestTime = schema.Time(ev.Time)
	}
	t := idx.latestTime

	if ev.Kind == tarmacio.EventSemihostingRegion {
		return idx.handleSemihosting(ev)
	}

	pc := ev.PC
	if ev.Kind == tarmacio.EventException {
		pc = schema.ExceptionPC
	}

	if ev.Kind == tarmacio.EventMemoryAccess && ev.Access != nil {
		if err := idx.handleMemoryAccess(*ev.Access, ev.FirstLine); err != nil {
			return fmt.Errorf("indexer: memory access at line %d: %w", ev.FirstLine, err)
		}
	}
	if ev.Kind == tarmacio.EventRegisterWrite && ev.Register != nil {
		if err := idx.handleRegisterWrite(*ev.Register, ev.FirstLine); err != nil {
			return fmt.Errorf("indexer: register write at line %d: %w", ev.FirstLine, err)
		}
	}

	if idx.params.RecordCalls {
		idx.updateCallDepth(pc)
	}

	pcroot, _, err := idx.pcTree.Insert(idx.pcroot, schema.ByPCPayload{PC: pc, TraceFileFirstLine: ev.FirstLine})
	if err != nil {
		return fmt.Errorf("indexer: by-pc insert at line %d: %w", ev.FirstLine, err)
	}
	idx.pcroot = pcroot

	seqroot, _, err := idx.seqTree.Insert(idx.seqroot, schema.SeqOrderPayload{
		ModTime:            t,
		PC:                 pc,
		TraceFilePos:       ev.BytePos,
		TraceFileLen:       ev.ByteLen,
		TraceFileFirstLine: ev.FirstLine,
		TraceFileLines:     ev.Lines,
		MemoryRoot:         idx.memroot,
		CallDepth:          idx.callDepth,
	})
	if err != nil {
		return fmt.Errorf("indexer: seq insert at line %d: %w", ev.FirstLine, err)
	}
	idx.seqroot = seqroot

	return nil
}

// handleMemoryAccess carves or resolves [addr,addr+size) in SpaceMemory
// depending on whether this is a write (new raw bytes) or a read (fills in
// deferred coverage retroactively).
func (idx *Indexer) handleMemoryAccess(acc tarmacio.MemoryAccess, firstLine uint32) error {
	if acc.Size == 0 {
		return nil
	}
	lo := schema.Addr(acc.Addr)
	hi := lo + schema.Addr(acc.Size) - 1

	switch acc.Kind {
	case tarmacio.AccessWrite:
		if !idx.params.RecordMemory {
			return nil
		}
		contents, err := idx.appendBlob(acc.Bytes)
		if err != nil {
			return err
		}
		return idx.writeInterval(schema.SpaceMemory, lo, hi, contents, firstLine)
	case tarmacio.AccessRead:
		if !idx.params.RecordMemory || len(acc.Bytes) == 0 {
			return nil
		}
		return idx.resolveRead(schema.SpaceMemory, lo, hi, acc.Bytes, firstLine)
	}
	return nil
}

// handleRegisterWrite is the SpaceRegister analogue of a memory write:
// registers are always fully known once written (no retroactive-read case
// exists for a register that has not been read before being written).
func (idx *Indexer) handleRegisterWrite(reg tarmacio.RegisterWrite, firstLine uint32) error {
	if !idx.params.RecordMemory {
		return nil
	}
	if idx.registers == nil {
		return ErrUnknownRegister
	}
	info, ok := idx.registers.Lookup(reg.Reg)
	if !ok {
		return ErrUnknownRegister
	}
	lo := schema.Addr(info.Addr)
	hi := lo + schema.Addr(info.Size) - 1
	contents, err := idx.appendBlob(reg.Bytes)
	if err != nil {
		return err
	}
	return idx.writeInterval(schema.SpaceRegister, lo, hi, contents, firstLine)
}

// handleSemihosting declares [addr,addr+size) freshly unknown, replacing
// whatever coverage (raw or deferred-fill) existed there with a new
// deferred-fill entry of its own. Semihosting calls commonly mark scratch
// buffers the host side is about to fill without the memory traffic itself
// appearing in the trace.
func (idx *Indexer) handleSemihosting(ev tarmacio.Event) error {
	if ev.Semihosting == nil || ev.Semihosting.Size == 0 {
		return nil
	}
	lo := schema.Addr(ev.Semihosting.Addr)
	hi := lo + schema.Addr(ev.Semihosting.Size) - 1

	if err := idx.carveInterval(schema.SpaceMemory, lo, hi); err != nil {
		return err
	}
	cell, err := newCell(idx.a)
	if err != nil {
		return err
	}
	root, _, err := idx.memTree.Insert(idx.memroot, schema.MemoryPayload{
		SpaceID:  schema.SpaceMemory,
		Raw:      false,
		Lo:       lo,
		Hi:       hi,
		Contents: cell,
	})
	if err != nil {
		return err
	}
	idx.memroot = root
	return nil
}
