package query

import (
	"errors"

	"github.com/arvalid/tarmac-trace-utilities/disktree"
	"github.com/arvalid/tarmac-trace-utilities/schema"
	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

// GetMem reconstructs [addr, addr+size) in space as of the memtree rooted
// at memroot: defined bytes come from the raw blob or subtree entry that
// covers them, undefined bytes are zeroed in the output and cleared in
// mask. lastTouch is the maximum TraceFileFirstLine over every raw entry or
// deferred-fill sub-block that contributed a defined byte.
func (idx *Index) GetMem(memroot uint64, space schema.Space, addr schema.Addr, size uint32) (data []byte, mask []bool, lastTouch uint32, err error) {
	if size == 0 {
		return nil, nil, 0, nil
	}
	lo := addr
	hi := addr + schema.Addr(size) - 1
	data = make([]byte, size)
	mask = make([]bool, size)

	covering, err := idx.coveringMemoryPayloads(memroot, space, lo, hi)
	if err != nil {
		return nil, nil, 0, err
	}
	for _, p := range covering {
		pieceLo, pieceHi := p.Lo, p.Hi
		if pieceLo < lo {
			pieceLo = lo
		}
		if pieceHi > hi {
			pieceHi = hi
		}

		if p.Raw {
			blob, err := idx.a.GetChecked(p.Contents, int(p.Hi-p.Lo+1))
			if err != nil {
				return nil, nil, 0, err
			}
			b := blob[pieceLo-p.Lo : pieceHi-p.Lo+1]
			copy(data[pieceLo-lo:], b)
			for a := pieceLo; a <= pieceHi; a++ {
				mask[a-lo] = true
			}
			if p.TraceFileFirstLine > lastTouch {
				lastTouch = p.TraceFileFirstLine
			}
			continue
		}

		entries, err := idx.coveringSubPayloads(p.Contents, pieceLo, pieceHi)
		if err != nil {
			return nil, nil, 0, err
		}
		for _, e := range entries {
			subLo, subHi := e.Lo, e.Hi
			if subLo < pieceLo {
				subLo = pieceLo
			}
			if subHi > pieceHi {
				subHi = pieceHi
			}
			blob, err := idx.a.GetChecked(e.Contents, int(e.Hi-e.Lo+1))
			if err != nil {
				return nil, nil, 0, err
			}
			b := blob[subLo-e.Lo : subHi-e.Lo+1]
			copy(data[subLo-lo:], b)
			for a := subLo; a <= subHi; a++ {
				mask[a-lo] = true
			}
			if e.TraceFileFirstLine > lastTouch {
				lastTouch = e.TraceFileFirstLine
			}
		}
	}
	return data, mask, lastTouch, nil
}

// GetMemNext returns the lowest address >= addr within [addr, addr+size)
// that is defined, or found=false if nothing in that window is defined.
func (idx *Index) GetMemNext(memroot uint64, space schema.Space, addr schema.Addr, size uint32) (found bool, at schema.Addr, err error) {
	_, mask, _, err := idx.GetMem(memroot, space, addr, size)
	if err != nil {
		return false, 0, err
	}
	for i, defined := range mask {
		if defined {
			return true, addr + schema.Addr(i), nil
		}
	}
	return false, 0, nil
}

// GetRegBytes is GetMem restricted to a register's own known byte range,
// failing unless every byte is defined (a partially-written register is
// treated the same as get_reg_value's "width too wide" case: there is no
// useful partial answer for register state).
func (idx *Index) GetRegBytes(memroot uint64, reg tarmacio.RegisterInfo) ([]byte, error) {
	data, mask, _, err := idx.GetMem(memroot, schema.SpaceRegister, reg.Addr, reg.Size)
	if err != nil {
		return nil, err
	}
	for _, defined := range mask {
		if !defined {
			return nil, ErrUndefined
		}
	}
	return data, nil
}

// GetRegValue is GetRegBytes decoded as a little-endian unsigned integer,
// failing for registers wider than 8 bytes.
func (idx *Index) GetRegValue(memroot uint64, reg tarmacio.RegisterInfo) (uint64, error) {
	if reg.Size > 8 {
		return 0, ErrRegisterTooWide
	}
	b, err := idx.GetRegBytes(memroot, reg)
	if err != nil {
		return 0, err
	}
	var v uint64
	for i, by := range b {
		v |= uint64(by) << (8 * uint(i))
	}
	return v, nil
}

// GetIflags returns the CPU's internal flags register value at memroot: a
// thin specialisation of GetRegValue for the flags register, at whatever
// address/size the register-file collaborator that built this index
// assigned to it (Index has no built-in register catalog of its own, so
// reg is supplied by the caller exactly as for GetRegBytes/GetRegValue).
func (idx *Index) GetIflags(memroot uint64, reg tarmacio.RegisterInfo) (uint32, error) {
	v, err := idx.GetRegValue(memroot, reg)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// FindNextMod returns the address range of the nearest MemoryPayload entry
// whose TraceFileFirstLine is >= minline, searching from addr in the given
// direction (forward=true moves toward higher addresses). It walks the
// memtree's in-order sequence from the entry covering addr one node at a
// time, checking TraceFileFirstLine against minline as it visits each one.
// It does not consult the Latest annotation to prune whole subtrees; a
// version that did would be faster on a memtree with long untouched runs.
func (idx *Index) FindNextMod(memroot uint64, space schema.Space, addr schema.Addr, minline uint32, forward bool) (lo, hi schema.Addr, found bool, err error) {
	_, off, err := idx.memTree.Lookup(memroot, schema.MemoryPayload{SpaceID: space, Lo: addr, Hi: addr})
	if errors.Is(err, disktree.ErrNotFound) {
		return 0, 0, false, nil
	}
	if err != nil {
		return 0, 0, false, err
	}

	cur := off
	for {
		p, err := idx.memTree.Payload(cur)
		if err != nil {
			return 0, 0, false, err
		}
		if p.SpaceID != space {
			return 0, 0, false, nil
		}
		if p.TraceFileFirstLine >= minline {
			return p.Lo, p.Hi, true, nil
		}
		var next uint64
		if forward {
			next, err = idx.memTree.InOrderNext(memroot, cur)
		} else {
			next, err = idx.memTree.InOrderPrev(memroot, cur)
		}
		if errors.Is(err, disktree.ErrNotFound) {
			return 0, 0, false, nil
		}
		if err != nil {
			return 0, 0, false, err
		}
		cur = next
	}
}

// coveringMemoryPayloads returns, in ascending order, every MemoryPayload
// in space whose interval overlaps [lo,hi].
func (idx *Index) coveringMemoryPayloads(memroot uint64, space schema.Space, lo, hi schema.Addr) ([]schema.MemoryPayload, error) {
	if memroot == 0 {
		return nil, nil
	}
	_, off, err := idx.memTree.Lookup(memroot, schema.MemoryPayload{SpaceID: space, Lo: lo, Hi: hi})
	if errors.Is(err, disktree.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	start := off
	for {
		prev, err := idx.memTree.InOrderPrev(memroot, start)
		if errors.Is(err, disktree.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := idx.memTree.Payload(prev)
		if err != nil {
			return nil, err
		}
		if p.SpaceID != space || p.Hi < lo {
			break
		}
		start = prev
	}

	var out []schema.MemoryPayload
	cur := start
	for {
		p, err := idx.memTree.Payload(cur)
		if err != nil {
			return nil, err
		}
		if p.SpaceID != space || p.Lo > hi {
			break
		}
		out = append(out, p)
		next, err := idx.memTree.InOrderNext(memroot, cur)
		if errors.Is(err, disktree.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return out, nil
}

// coveringSubPayloads is coveringMemoryPayloads's analogue over a memory
// subtree rooted at the cell at cellOff.
func (idx *Index) coveringSubPayloads(cellOff uint64, lo, hi schema.Addr) ([]schema.MemorySubPayload, error) {
	root, err := readCellValue(idx.a, cellOff)
	if err != nil {
		return nil, err
	}
	if root == 0 {
		return nil, nil
	}
	_, off, err := idx.subTree.Lookup(root, schema.MemorySubPayload{Lo: lo, Hi: hi})
	if errors.Is(err, disktree.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	start := off
	for {
		prev, err := idx.subTree.InOrderPrev(root, start)
		if errors.Is(err, disktree.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := idx.subTree.Payload(prev)
		if err != nil {
			return nil, err
		}
		if p.Hi < lo {
			break
		}
		start = prev
	}

	var out []schema.MemorySubPayload
	cur := start
	for {
		p, err := idx.subTree.Payload(cur)
		if err != nil {
			return nil, err
		}
		if p.Lo > hi {
			break
		}
		out = append(out, p)
		next, err := idx.subTree.InOrderNext(root, cur)
		if errors.Is(err, disktree.ErrNotFound) {
			break
		}
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return out, nil
}
