// Package query implements the read-only navigation surface over a
// completed index file: node-at-time/line, previous/next, memory and
// register reconstruction, and the layered-range translate family. Every
// operation in this package assumes the file it is given has
// FlagComplete set; Open enforces that before returning.
//
// Grounded on massifs/localmassifreader.go's LocalReader (open/close
// symmetry, a narrow read-only accessor set over an already-validated
// file) and massifs/masssifreader.go.
package query

import (
	"fmt"
	"os"

	"github.com/arvalid/tarmac-trace-utilities/arena"
	"github.com/arvalid/tarmac-trace-utilities/disktree"
	"github.com/arvalid/tarmac-trace-utilities/schema"
)

// Index is a read-only handle on a completed index file.
type Index struct {
	a      *arena.Arena
	header schema.FileHeader

	seqTree *disktree.Tree[schema.SeqOrderPayload, schema.SeqOrderAnnotation]
	pcTree  *disktree.Tree[schema.ByPCPayload, schema.Empty]
	memTree *disktree.Tree[schema.MemoryPayload, schema.MemoryAnnotation]
	subTree *disktree.Tree[schema.MemorySubPayload, schema.Empty]

	tracePath string
	traceFile *os.File
}

// Option configures an Index at Open time.
type Option func(*Index)

// WithTraceFile associates path as the original trace-text file this index
// was built from. Without it, TraceLines and TraceLine return
// ErrNoTraceFile: the index file alone is always openable and navigable,
// the original trace text is only needed to materialise display lines.
func WithTraceFile(path string) Option {
	return func(idx *Index) { idx.tracePath = path }
}

// Open validates the magic number and completeness of path and returns a
// read-only Index. On any error the arena, if opened, is closed before
// returning.
func Open(path string, opts ...Option) (*Index, error) {
	a, err := arena.Open(path, true)
	if err != nil {
		return nil, err
	}

	raw, err := a.ReadAt(schema.MagicOffset, schema.ArenaStart)
	if err != nil {
		a.Close()
		return nil, err
	}
	header, state, err := schema.CheckHeader(raw)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("query: open: %s: %w", state, err)
	}
	a.SetIntegrityChecks(header.IsChecksummed())

	idx := &Index{
		a:       a,
		header:  header,
		seqTree: disktree.New(a, schema.SeqTreeSpec()),
		pcTree:  disktree.New(a, schema.ByPCTreeSpec()),
		memTree: disktree.New(a, schema.MemTreeSpec()),
		subTree: disktree.New(a, schema.MemorySubTreeSpec()),
	}
	for _, opt := range opts {
		opt(idx)
	}

	if idx.tracePath != "" {
		tf, err := os.Open(idx.tracePath)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("query: open trace file: %w", err)
		}
		idx.traceFile = tf
	}
	return idx, nil
}

// Close releases the underlying file handles.
func (idx *Index) Close() error {
	if idx.traceFile != nil {
		idx.traceFile.Close()
	}
	return idx.a.Close()
}

// TraceFilename returns the path supplied via WithTraceFile, or "" if none
// was given.
func (idx *Index) TraceFilename() string { return idx.tracePath }

// SeqRoot and ByPCRoot expose the two persisted tree roots, for callers
// (diagnostics, sign) that need to address a tree without going through
// one of this package's higher-level accessors.
func (idx *Index) SeqRoot() uint64  { return idx.header.SeqRoot }
func (idx *Index) ByPCRoot() uint64 { return idx.header.ByPCRoot }

func (idx *Index) IsBigEndian() bool { return idx.header.IsBigEndian() }
func (idx *Index) IsAArch64() bool   { return idx.header.IsAArch64() }
func (idx *Index) IsThumbOnly() bool { return idx.header.IsThumbOnly() }

// LineNoOffset returns the trace-file line number corresponding to
// TraceFileFirstLine==0, letting a caller translate a stored line number
// back to a real line number in the original trace file.
func (idx *Index) LineNoOffset() uint32 { return idx.header.LineNoOffset }
