package query

import (
	"encoding/binary"

	"github.com/arvalid/tarmac-trace-utilities/arena"
)

// cellSize mirrors indexer's subtree-root cell width. query never writes a
// cell, only follows it to find the memory subtree it currently points at.
const cellSize = 8

func readCellValue(a *arena.Arena, off uint64) (uint64, error) {
	b, err := a.ReadAt(off, cellSize)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}
