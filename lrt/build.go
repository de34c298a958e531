// Package lrt builds the layered-range post-pass: after the sequential-
// order tree's final shape is frozen, it walks the tree bottom-up once,
// filling in each node's CallDepthArrayEntry array and the SeqOrderAnnotation
// slot that was reserved (but left zero) at insert time.
//
// There is no teacher analogue for this walk — massifs/peakstack.go's
// "derived, once-computed structure over a frozen tree shape" is used here
// only as texture (the one-pass, no-revisit discipline), not as a source
// of algorithm, since the MMR has no notion of per-node augmentation
// arrays at all.
package lrt

import (
	"sort"

	"github.com/arvalid/tarmac-trace-utilities/arena"
	"github.com/arvalid/tarmac-trace-utilities/disktree"
	"github.com/arvalid/tarmac-trace-utilities/schema"
)

// SeqTree is the disktree instantiation this package operates on.
type SeqTree = disktree.Tree[schema.SeqOrderPayload, schema.SeqOrderAnnotation]

// Build fills in the CallDepthArrayEntry arrays for every node reachable
// from seqroot. It must run exactly once, after the last insert into the
// sequential-order tree and before FLAG_COMPLETE is set: the arrays it
// writes occupy arena space reserved but never exposed at insert time, and
// each node's annotation slot is written exactly once (see
// disktree.Tree.SetAnnotation).
func Build(tree *SeqTree, a *arena.Arena, seqroot uint64) error {
	_, err := build(tree, a, seqroot)
	return err
}

// build recurses post-order, returning the full (non-written-out) array for
// the subtree rooted at off so the caller can merge it into its own.
func build(tree *SeqTree, a *arena.Arena, off uint64) ([]schema.CallDepthArrayEntry, error) {
	if off == 0 {
		return nil, nil
	}

	n, err := tree.Node(off)
	if err != nil {
		return nil, err
	}

	leftArray, err := build(tree, a, n.Left)
	if err != nil {
		return nil, err
	}
	rightArray, err := build(tree, a, n.Right)
	if err != nil {
		return nil, err
	}

	merged := mergeArrays(leftArray, rightArray, n.Payload.CallDepth, n.Payload.TraceFileLines)

	arrOff, err := writeArray(a, merged)
	if err != nil {
		return nil, err
	}

	ann := schema.SeqOrderAnnotation{CallDepthArrayOff: arrOff, CallDepthArrayLen: uint32(len(merged))}
	if err := tree.SetAnnotation(off, ann); err != nil {
		return nil, err
	}

	return merged, nil
}

// ReadArray reads back a node's CallDepthArrayEntry array given the
// (offset, length) descriptor from its SeqOrderAnnotation. Exported for
// package query's lrt_translate family, which needs the same arrays this
// package writes.
func ReadArray(a *arena.Arena, ann schema.SeqOrderAnnotation) ([]schema.CallDepthArrayEntry, error) {
	entries := make([]schema.CallDepthArrayEntry, ann.CallDepthArrayLen)
	for i := range entries {
		off := ann.CallDepthArrayOff + uint64(i*schema.CallDepthArrayEntrySize)
		b, err := a.ReadAt(off, schema.CallDepthArrayEntrySize)
		if err != nil {
			return nil, err
		}
		if err := entries[i].UnmarshalBinary(b); err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func writeArray(a *arena.Arena, entries []schema.CallDepthArrayEntry) (uint64, error) {
	off, err := a.Allocate(len(entries) * schema.CallDepthArrayEntrySize)
	if err != nil {
		return 0, err
	}
	for i, e := range entries {
		entryOff := off + uint64(i*schema.CallDepthArrayEntrySize)
		if err := a.WriteAt(entryOff, e.MarshalBinary()); err != nil {
			return 0, err
		}
	}
	return off, nil
}

// mergeArrays folds a node's own (call_depth, lines) contribution together
// with its two children's already-cumulative arrays into one new
// cumulative array, sorted by call_depth ascending and terminated by a
// SentinelDepth entry whose counts equal the subtree totals.
func mergeArrays(left, right []schema.CallDepthArrayEntry, ownDepth, ownLines uint32) []schema.CallDepthArrayEntry {
	type delta struct {
		lines, insns uint32
	}
	byDepth := map[uint32]delta{}

	add := func(depth uint32, d delta) {
		cur := byDepth[depth]
		cur.lines += d.lines
		cur.insns += d.insns
		byDepth[depth] = cur
	}

	for _, d := range deltasOf(left) {
		add(d.depth, delta{lines: d.lines, insns: d.insns})
	}
	for _, d := range deltasOf(right) {
		add(d.depth, delta{lines: d.lines, insns: d.insns})
	}
	add(ownDepth, delta{lines: ownLines, insns: 1})

	depths := make([]uint32, 0, len(byDepth))
	for d := range byDepth {
		depths = append(depths, d)
	}
	sort.Slice(depths, func(i, j int) bool { return depths[i] < depths[j] })

	// Each entry's counts are cumulative up to and including CallDepth d
	// (cumBelowIdx in query/lrt_translate.go reads arr[idx-1] to get the
	// count strictly below d); the original's arrays ran the other way,
	// starting from a zero-cumulative entry and counting strictly less
	// than the listed depth.
	merged := make([]schema.CallDepthArrayEntry, 0, len(depths)+1)
	var cumLines, cumInsns uint32
	for _, d := range depths {
		cumLines += byDepth[d].lines
		cumInsns += byDepth[d].insns
		merged = append(merged, schema.CallDepthArrayEntry{
			CallDepth:       d,
			CumulativeLines: cumLines,
			CumulativeInsns: cumInsns,
			LeftLink:        uint32(lowerBound(left, d)),
			RightLink:       uint32(lowerBound(right, d)),
		})
	}

	sentinelLeftLink := uint32(0)
	if len(left) > 0 {
		sentinelLeftLink = uint32(len(left) - 1)
	}
	sentinelRightLink := uint32(0)
	if len(right) > 0 {
		sentinelRightLink = uint32(len(right) - 1)
	}

	merged = append(merged, schema.CallDepthArrayEntry{
		CallDepth:       schema.SentinelDepth,
		CumulativeLines: cumLines,
		CumulativeInsns: cumInsns,
		LeftLink:        sentinelLeftLink,
		RightLink:       sentinelRightLink,
	})
	return merged
}

type depthDelta struct {
	depth        uint32
	lines, insns uint32
}

// deltasOf un-does the running cumulative sums in a child's array (dropping
// its trailing sentinel), recovering the per-depth contribution it made so
// those contributions can be re-summed alongside the sibling subtree and
// this node's own.
func deltasOf(arr []schema.CallDepthArrayEntry) []depthDelta {
	if len(arr) == 0 {
		return nil
	}
	real := arr[:len(arr)-1] // drop sentinel
	out := make([]depthDelta, len(real))
	var prevLines, prevInsns uint32
	for i, e := range real {
		out[i] = depthDelta{depth: e.CallDepth, lines: e.CumulativeLines - prevLines, insns: e.CumulativeInsns - prevInsns}
		prevLines, prevInsns = e.CumulativeLines, e.CumulativeInsns
	}
	return out
}

// lowerBound returns the index of the first entry in arr whose CallDepth
// is >= depth. arr is assumed sorted ascending by CallDepth and terminated
// by a SentinelDepth entry, so the search always finds a result when arr
// is non-empty.
func lowerBound(arr []schema.CallDepthArrayEntry, depth uint32) int {
	lo, hi := 0, len(arr)
	for lo < hi {
		mid := (lo + hi) / 2
		if arr[mid].CallDepth < depth {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
