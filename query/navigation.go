package query

import (
	"github.com/arvalid/tarmac-trace-utilities/disktree"
	"github.com/arvalid/tarmac-trace-utilities/schema"
)

// NodeAtTime finds the last node (in trace-file-line order) whose ModTime
// is <= t. ModTime is only weakly monotone in line order, so a plain "last
// key satisfying a monotone predicate" descent — track the best candidate
// seen, go right on a match to look for a later one, go left otherwise —
// is sufficient without needing a full scan.
func (idx *Index) NodeAtTime(t schema.Time) (schema.SeqOrderPayload, uint64, error) {
	var best uint64
	off := idx.header.SeqRoot
	for off != 0 {
		n, err := idx.seqTree.Node(off)
		if err != nil {
			return schema.SeqOrderPayload{}, 0, err
		}
		if n.Payload.ModTime <= t {
			best = off
			off = n.Right
		} else {
			off = n.Left
		}
	}
	if best == 0 {
		return schema.SeqOrderPayload{}, 0, ErrOutOfRange
	}
	p, err := idx.seqTree.Payload(best)
	return p, best, err
}

// NodeAtLine finds the unique node whose [FirstLine, FirstLine+Lines) span
// contains line.
func (idx *Index) NodeAtLine(line uint32) (schema.SeqOrderPayload, uint64, error) {
	var best uint64
	off := idx.header.SeqRoot
	for off != 0 {
		n, err := idx.seqTree.Node(off)
		if err != nil {
			return schema.SeqOrderPayload{}, 0, err
		}
		if n.Payload.TraceFileFirstLine <= line {
			best = off
			off = n.Right
		} else {
			off = n.Left
		}
	}
	if best == 0 {
		return schema.SeqOrderPayload{}, 0, ErrOutOfRange
	}
	p, err := idx.seqTree.Payload(best)
	if err != nil {
		return schema.SeqOrderPayload{}, 0, err
	}
	if !p.ContainsLine(line) {
		return schema.SeqOrderPayload{}, 0, ErrOutOfRange
	}
	return p, best, nil
}

// PreviousNode and NextNode are thin wrappers over disktree's parent-free
// in-order step, addressed against the sequential-order tree's persisted
// root.
func (idx *Index) PreviousNode(off uint64) (schema.SeqOrderPayload, uint64, error) {
	prev, err := idx.seqTree.InOrderPrev(idx.header.SeqRoot, off)
	if err != nil {
		return schema.SeqOrderPayload{}, 0, translateNavErr(err)
	}
	p, err := idx.seqTree.Payload(prev)
	return p, prev, err
}

func (idx *Index) NextNode(off uint64) (schema.SeqOrderPayload, uint64, error) {
	next, err := idx.seqTree.InOrderNext(idx.header.SeqRoot, off)
	if err != nil {
		return schema.SeqOrderPayload{}, 0, translateNavErr(err)
	}
	p, err := idx.seqTree.Payload(next)
	return p, next, err
}

// BufferLimit selects which end FindBufferLimit returns.
type BufferLimit int

const (
	BufferStart BufferLimit = iota
	BufferEnd
)

// FindBufferLimit returns the first or last node of the trace, by
// trace-file-line order.
func (idx *Index) FindBufferLimit(which BufferLimit) (schema.SeqOrderPayload, uint64, error) {
	var off uint64
	var err error
	if which == BufferStart {
		off, err = idx.seqTree.Leftmost(idx.header.SeqRoot)
	} else {
		off, err = idx.seqTree.Rightmost(idx.header.SeqRoot)
	}
	if err != nil {
		return schema.SeqOrderPayload{}, 0, translateNavErr(err)
	}
	p, err := idx.seqTree.Payload(off)
	return p, off, err
}

func translateNavErr(err error) error {
	if err == disktree.ErrNotFound || err == disktree.ErrEmptyTree {
		return ErrOutOfRange
	}
	return err
}
