package indexer

import (
	"encoding/binary"

	"github.com/arvalid/tarmac-trace-utilities/arena"
)

// cellSize is the width of a subtree-root cell: a single arena word holding
// the current root offset of a memory subtree (schema.MemorySubPayload
// tree). Every MemoryPayload with Raw=false points at one of these.
const cellSize = 8

// newCell allocates a fresh cell initialized to the empty-tree root (0).
func newCell(a *arena.Arena) (uint64, error) {
	off, err := a.Allocate(cellSize)
	if err != nil {
		return 0, err
	}
	if err := a.WriteAt(off, make([]byte, cellSize)); err != nil {
		return 0, err
	}
	return off, nil
}

func readCell(a *arena.Arena, off uint64) (uint64, error) {
	b, err := a.ReadAt(off, cellSize)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// writeCell overwrites a cell's root offset in place. This, together with
// disktree.Tree.SetAnnotation, is the second of the two sanctioned
// exceptions to the arena's append-only discipline: a cell is reserved but
// never exposed as tree-node bytes, so rewriting it does not disturb any
// previously-observed payload.
func writeCell(a *arena.Arena, off uint64, root uint64) error {
	b := make([]byte, cellSize)
	binary.LittleEndian.PutUint64(b, root)
	return a.WriteAt(off, b)
}
