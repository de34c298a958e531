package query

import (
	"golang.org/x/sync/errgroup"

	"github.com/arvalid/tarmac-trace-utilities/schema"
	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

// MemRequest is one window to resolve in a BatchGetMem call.
type MemRequest struct {
	Space schema.Space
	Addr  schema.Addr
	Size  uint32
}

// MemResult is the outcome of resolving one MemRequest.
type MemResult struct {
	Data      []byte
	Mask      []bool
	LastTouch uint32
}

// BatchGetMem resolves many memory windows against the same memroot
// concurrently. A completed index is read-only for every accessor in this
// package, so there is nothing for concurrent GetMem calls to race on; the
// only cost of running them sequentially would be wall-clock time on a
// browser UI issuing many small windows per screen redraw.
func (idx *Index) BatchGetMem(memroot uint64, reqs []MemRequest) ([]MemResult, error) {
	results := make([]MemResult, len(reqs))
	var g errgroup.Group
	for i, req := range reqs {
		i, req := i, req
		g.Go(func() error {
			data, mask, lastTouch, err := idx.GetMem(memroot, req.Space, req.Addr, req.Size)
			if err != nil {
				return err
			}
			results[i] = MemResult{Data: data, Mask: mask, LastTouch: lastTouch}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RegResult is the outcome of resolving one register in a
// BatchGetRegisters call.
type RegResult struct {
	Bytes []byte
	Value uint64
}

// BatchGetRegisters resolves many registers against the same memroot
// concurrently, failing the whole batch if any register is undefined: a UI
// rendering a register file wants all of it or a single coherent error, not
// a partially-filled table. A register wider than 8 bytes is reported by
// its Bytes alone, with Value left 0.
func (idx *Index) BatchGetRegisters(memroot uint64, regs []tarmacio.RegisterInfo) ([]RegResult, error) {
	results := make([]RegResult, len(regs))
	var g errgroup.Group
	for i, reg := range regs {
		i, reg := i, reg
		g.Go(func() error {
			b, err := idx.GetRegBytes(memroot, reg)
			if err != nil {
				return err
			}
			v, err := idx.GetRegValue(memroot, reg)
			if err != nil && err != ErrRegisterTooWide {
				return err
			}
			results[i] = RegResult{Bytes: b, Value: v}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
