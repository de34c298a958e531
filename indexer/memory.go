package indexer

import (
	"errors"

	"github.com/arvalid/tarmac-trace-utilities/disktree"
	"github.com/arvalid/tarmac-trace-utilities/schema"
)

// writeInterval records a raw write of size bytes at [lo,hi] in space,
// splitting or truncating whatever existing MemoryPayload entries overlap
// it. Any portion of an overlapping entry outside [lo,hi] survives,
// reinserted with its interval narrowed to that portion and, for a raw
// entry, its bytes copied into a blob of its own (the "up to three nodes"
// split spec.md describes: the piece below the write, the write itself,
// and the piece above).
func (idx *Indexer) writeInterval(space schema.Space, lo, hi schema.Addr, contents schema.OffT, firstLine uint32) error {
	if err := idx.carveInterval(space, lo, hi); err != nil {
		return err
	}
	root, _, err := idx.memTree.Insert(idx.memroot, schema.MemoryPayload{
		SpaceID:            space,
		Raw:                true,
		Lo:                 lo,
		Hi:                 hi,
		Contents:           contents,
		TraceFileFirstLine: firstLine,
	})
	if err != nil {
		return err
	}
	idx.memroot = root
	return nil
}

// carveInterval removes the overlap between [lo,hi] and every existing
// MemoryPayload in space, reinserting each overlapping entry's
// non-overlapping remainder (below, above, or both). After it returns, no
// node reachable from idx.memroot in this space overlaps [lo,hi], so the
// caller can insert its own node for exactly [lo,hi] without colliding.
func (idx *Indexer) carveInterval(space schema.Space, lo, hi schema.Addr) error {
	for {
		existing, _, err := idx.memTree.Lookup(idx.memroot, schema.MemoryPayload{SpaceID: space, Lo: lo, Hi: hi})
		if errors.Is(err, disktree.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		root, _, err := idx.memTree.Delete(idx.memroot, existing)
		if err != nil {
			return err
		}
		idx.memroot = root

		ovLo, ovHi := existing.Lo, existing.Hi
		if ovLo < lo {
			ovLo = lo
		}
		if ovHi > hi {
			ovHi = hi
		}

		var blob []byte
		if existing.Raw {
			blob, err = idx.a.GetChecked(existing.Contents, int(existing.Hi-existing.Lo+1))
			if err != nil {
				return err
			}
		}
		if existing.Lo < ovLo {
			below := existing
			below.Hi = ovLo - 1
			if below.Raw {
				if below.Contents, err = idx.appendBlob(blob[:ovLo-existing.Lo]); err != nil {
					return err
				}
			}
			root, _, err := idx.memTree.Insert(idx.memroot, below)
			if err != nil {
				return err
			}
			idx.memroot = root
		}
		if existing.Hi > ovHi {
			above := existing
			above.Lo = ovHi + 1
			if above.Raw {
				if above.Contents, err = idx.appendBlob(blob[above.Lo-existing.Lo:]); err != nil {
					return err
				}
			}
			root, _, err := idx.memTree.Insert(idx.memroot, above)
			if err != nil {
				return err
			}
			idx.memroot = root
		}
	}
}

// coveringPayloads returns every MemoryPayload in space whose interval
// overlaps [lo,hi], in ascending order, without mutating the tree. Used to
// resolve a read against whatever mix of raw and deferred-fill entries it
// touches.
func (idx *Indexer) coveringPayloads(space schema.Space, lo, hi schema.Addr) ([]schema.MemoryPayload, error) {
	if idx.memroot == 0 {
		return nil, nil
	}
	_, off, err := idx.memTree.Lookup(idx.memroot, schema.MemoryPayload{SpaceID: space, Lo: lo, Hi: hi})
	if errors.Is(err, disktree.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	start := off
	for {
		prev, err := idx.memTree.InOrderPrev(idx.memroot, start)
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
		next, err := idx.memTree.InOrderNext(idx.memroot, cur)
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

// resolveRead fills in the deferred-fill (raw=false) coverage of [lo,hi]
// with the value the trace actually observed on a read, so the region is
// no longer undefined for queries that land before this point in trace
// order. Raw entries already covering part of the range are left alone.
// firstLine is recorded on each filled sub-block so a later GetMem can
// report last_touch_line for bytes resolved this way, the same as it does
// for a raw write.
func (idx *Indexer) resolveRead(space schema.Space, lo, hi schema.Addr, value []byte, firstLine uint32) error {
	covering, err := idx.coveringPayloads(space, lo, hi)
	if err != nil {
		return err
	}
	for _, p := range covering {
		if p.Raw {
			continue
		}
		subLo, subHi := p.Lo, p.Hi
		if subLo < lo {
			subLo = lo
		}
		if subHi > hi {
			subHi = hi
		}
		if err := idx.fillSubtree(p.Contents, subLo, subHi, value, lo, firstLine); err != nil {
			return err
		}
	}
	return nil
}

// fillSubtree inserts a MemorySubPayload covering [subLo,subHi] into the
// subtree rooted at the cell at cellOff, storing the relevant slice of
// value (value starts at address base) and firstLine, the trace line the
// read that resolved these bytes was observed on. The subtree's own
// interval partition is maintained with the same carve-then-insert
// discipline as the top-level memory tree: a later read can re-cover and
// thereby replace an earlier guess about the same bytes.
func (idx *Indexer) fillSubtree(cellOff uint64, subLo, subHi schema.Addr, value []byte, base schema.Addr, firstLine uint32) error {
	root, err := readCell(idx.a, cellOff)
	if err != nil {
		return err
	}

	for {
		existing, _, err := idx.subTree.Lookup(root, schema.MemorySubPayload{Lo: subLo, Hi: subHi})
		if errors.Is(err, disktree.ErrNotFound) {
			break
		}
		if err != nil {
			return err
		}
		root, _, err = idx.subTree.Delete(root, existing)
		if err != nil {
			return err
		}
		blob, err := idx.a.GetChecked(existing.Contents, int(existing.Hi-existing.Lo+1))
		if err != nil {
			return err
		}
		if existing.Lo < subLo {
			below := existing
			below.Hi = subLo - 1
			if below.Contents, err = idx.appendBlob(blob[:subLo-existing.Lo]); err != nil {
				return err
			}
			root, _, err = idx.subTree.Insert(root, below)
			if err != nil {
				return err
			}
		}
		if existing.Hi > subHi {
			above := existing
			above.Lo = subHi + 1
			if above.Contents, err = idx.appendBlob(blob[above.Lo-existing.Lo:]); err != nil {
				return err
			}
			root, _, err = idx.subTree.Insert(root, above)
			if err != nil {
				return err
			}
		}
	}

	bytes := value[subLo-base : subHi-base+1]
	contents, err := idx.appendBlob(bytes)
	if err != nil {
		return err
	}
	root, _, err = idx.subTree.Insert(root, schema.MemorySubPayload{Lo: subLo, Hi: subHi, Contents: contents, TraceFileFirstLine: firstLine})
	if err != nil {
		return err
	}

	return writeCell(idx.a, cellOff, root)
}

// appendBlob writes raw bytes via PutChecked, returning the offset a
// MemoryPayload or MemorySubPayload can reference as Contents. The blob
// always spans exactly the owning payload's [Lo,Hi], so GetMem can read it
// back (and verify it, when the arena was opened WithIntegrityChecks) as
// one whole checksummed unit even when only a sub-range is requested.
func (idx *Indexer) appendBlob(b []byte) (schema.OffT, error) {
	return idx.a.PutChecked(b)
}
