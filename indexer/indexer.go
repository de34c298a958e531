// Package indexer implements the event-driven build of a Tarmac trace
// index: it consumes a tarmacio.Parser's event stream and drives the four
// disktree instantiations (sequential-order, by-PC, memory, memory-subtree)
// to produce a completed on-disk index file.
//
// Grounded on massifs/massifcommitter.go's MassifCommitter (accumulate
// mutations against an in-memory context, commit once a unit of work
// completes) and massifs/massifcontext.go's AddHashedLeaf (validate
// preconditions, mutate several derived fields, return the new extent).
package indexer

import (
	"fmt"

	"github.com/datatrails/go-datatrails-common/logger"
	"github.com/google/uuid"

	"github.com/arvalid/tarmac-trace-utilities/arena"
	"github.com/arvalid/tarmac-trace-utilities/disktree"
	"github.com/arvalid/tarmac-trace-utilities/schema"
	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

// Params selects which optional parts of the index get built, mirroring
// the original source's IndexerParams.
type Params struct {
	RecordMemory bool
	RecordCalls  bool
}

// CanPersist reports whether a build with these Params is allowed to reach
// FLAG_COMPLETE. At present a disk-resident index must carry every optional
// part: a future header-flags scheme for partial indexes is plausible but
// not implemented (see the original source's own comment to this effect).
func (p Params) CanPersist() bool {
	return p.RecordMemory && p.RecordCalls
}

// Option configures an Indexer at construction time.
type Option func(*Indexer)

// WithLogger overrides the default logger, logger.Sugar with service name
// "indexer".
func WithLogger(log logger.Logger) Option {
	return func(idx *Indexer) { idx.log = log }
}

// WithBuildID pins the build-session identity instead of generating a
// random one. Mainly useful for deterministic tests.
func WithBuildID(id uuid.UUID) Option {
	return func(idx *Indexer) { idx.buildID = id }
}

// Indexer holds the mutable state of one in-progress index build: the
// current root offsets of the sequence, by-PC and memory trees (memory
// subtree roots live in their arena cells), the running call depth,
// and the monotonic clocks (time, byte position) used to validate
// incoming events.
type Indexer struct {
	a      *arena.Arena
	params Params

	seqTree *disktree.Tree[schema.SeqOrderPayload, schema.SeqOrderAnnotation]
	pcTree  *disktree.Tree[schema.ByPCPayload, schema.Empty]
	memTree *disktree.Tree[schema.MemoryPayload, schema.MemoryAnnotation]
	subTree *disktree.Tree[schema.MemorySubPayload, schema.Empty]

	image     tarmacio.Image
	registers tarmacio.RegisterMap
	depth     tarmacio.CallDepthHeuristic

	seqroot, pcroot, memroot uint64

	callDepth  uint32
	latestTime schema.Time

	haveBytePos bool
	lastBytePos schema.OffT

	havePrevPC bool
	prevPC     schema.Addr

	finalized bool

	buildID uuid.UUID
	log     logger.Logger
}

// New creates an Indexer over a freshly-created arena (a must have been
// opened with arena.Create(path, schema.ArenaStart, ...)) and builds the
// initial memory tree: one catch-all deferred-fill entry spanning the whole
// SpaceMemory address range, plus one deferred-fill entry per register the
// RegisterMap collaborator knows about. registers may be nil if register
// writes are not expected in this trace.
func New(a *arena.Arena, params Params, image tarmacio.Image, registers tarmacio.RegisterMap, depth tarmacio.CallDepthHeuristic, opts ...Option) (*Indexer, error) {
	idx := &Indexer{
		a:         a,
		params:    params,
		seqTree:   disktree.New(a, schema.SeqTreeSpec()),
		pcTree:    disktree.New(a, schema.ByPCTreeSpec()),
		memTree:   disktree.New(a, schema.MemTreeSpec()),
		subTree:   disktree.New(a, schema.MemorySubTreeSpec()),
		image:     image,
		registers: registers,
		depth:     depth,
		buildID:   uuid.New(),
		log:       logger.Sugar.WithServiceName("indexer"),
	}
	for _, opt := range opts {
		opt(idx)
	}

	magic := schema.ReferenceMagic()
	if err := a.WriteAt(schema.MagicOffset, magic[:]); err != nil {
		return nil, fmt.Errorf("indexer: write magic: %w", err)
	}

	if params.RecordMemory {
		if err := idx.seedMemoryTree(); err != nil {
			return nil, fmt.Errorf("indexer: seed memory tree: %w", err)
		}
	}

	idx.log.Infof("build %s started: record_memory=%v record_calls=%v", idx.buildID, params.RecordMemory, params.RecordCalls)
	return idx, nil
}

// seedMemoryTree inserts the universe-spanning deferred-fill entry for
// SpaceMemory and one deferred-fill entry per known register.
func (idx *Indexer) seedMemoryTree() error {
	cell, err := newCell(idx.a)
	if err != nil {
		return err
	}
	root, _, err := idx.memTree.Insert(idx.memroot, schema.MemoryPayload{
		SpaceID:  schema.SpaceMemory,
		Raw:      false,
		Lo:       0,
		Hi:       ^schema.Addr(0),
		Contents: cell,
	})
	if err != nil {
		return err
	}
	idx.memroot = root

	if idx.registers == nil {
		return nil
	}
	for _, reg := range idx.registers.All() {
		cell, err := newCell(idx.a)
		if err != nil {
			return err
		}
		hi := reg.Addr + uint64(reg.Size) - 1
		root, _, err := idx.memTree.Insert(idx.memroot, schema.MemoryPayload{
			SpaceID:  schema.SpaceRegister,
			Raw:      false,
			Lo:       reg.Addr,
			Hi:       hi,
			Contents: cell,
		})
		if err != nil {
			return fmt.Errorf("seed register %s: %w", reg.Name, err)
		}
		idx.memroot = root
	}
	return nil
}

// BuildID returns the UUID identifying this build session, used in
// diagnostics and logging to correlate a build with its output file.
func (idx *Indexer) BuildID() uuid.UUID { return idx.buildID }

// SeqRoot returns the current root offset of the sequential-order tree.
// After Finalize this is the value persisted to FileHeader.SeqRoot.
func (idx *Indexer) SeqRoot() uint64 { return idx.seqroot }

// ByPCRoot returns the current root offset of the by-PC tree. After
// Finalize this is the value persisted to FileHeader.ByPCRoot.
func (idx *Indexer) ByPCRoot() uint64 { return idx.pcroot }
