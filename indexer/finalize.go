package indexer

import (
	"fmt"

	"github.com/arvalid/tarmac-trace-utilities/arena"
	"github.com/arvalid/tarmac-trace-utilities/lrt"
	"github.com/arvalid/tarmac-trace-utilities/schema"
)

// FinalizeOptions carries the header fields Finalize needs that are not
// derivable from the indexer's own state: whether the traced CPU was
// big-endian and which execution states it used.
type FinalizeOptions struct {
	BigEndian bool
	AArch64   bool
	ThumbOnly bool

	// LineNoOffset is the trace-file line number of the first event
	// actually indexed, letting a reader translate a stored
	// TraceFileFirstLine back into a real line number in the presence of
	// a stripped or partial trace file.
	LineNoOffset uint32
}

// Finalize runs the layered-range post-pass over the finished
// sequential-order tree and writes the file header, setting FlagComplete
// last so that a reader opening the file mid-write observes
// HeaderIncomplete rather than a torn index. It fails with
// ErrNotPersistable if Params forbids completing a disk-resident build.
func (idx *Indexer) Finalize(opts FinalizeOptions) error {
	if idx.finalized {
		return ErrAlreadyFinalized
	}
	if !idx.params.CanPersist() {
		return ErrNotPersistable
	}

	if err := lrt.Build(idx.seqTree, idx.a, idx.seqroot); err != nil {
		return fmt.Errorf("indexer: layered-range build: %w", err)
	}

	flags := uint32(0)
	if opts.BigEndian {
		flags |= schema.FlagBigEnd
	}
	if opts.AArch64 {
		flags |= schema.FlagAArch64
	}
	if opts.ThumbOnly {
		flags |= schema.FlagThumbOnly
	}
	if idx.a.IntegrityChecks() {
		flags |= schema.FlagChecksummed
	}

	header := schema.FileHeader{
		Flags:        flags,
		SeqRoot:      idx.seqroot,
		ByPCRoot:     idx.pcroot,
		LineNoOffset: opts.LineNoOffset,
	}
	if err := arena.Put(idx.a, schema.HeaderOffset, header); err != nil {
		return fmt.Errorf("indexer: write incomplete header: %w", err)
	}

	header.Flags |= schema.FlagComplete
	if err := arena.Put(idx.a, schema.HeaderOffset, header); err != nil {
		return fmt.Errorf("indexer: set complete flag: %w", err)
	}

	if err := idx.a.Sync(); err != nil {
		return err
	}

	idx.finalized = true
	idx.log.Infof("build %s finalized: seqroot=%d bypcroot=%d", idx.buildID, idx.seqroot, idx.pcroot)
	return nil
}
