package query

import (
	"github.com/arvalid/tarmac-trace-utilities/lrt"
	"github.com/arvalid/tarmac-trace-utilities/schema"
)

// LrtTranslate finds the (0-indexed) line-th trace line whose event's
// call_depth falls in [da,db), and the count of lines with call_depth in
// [ea,eb) that precede it. It descends the sequential-order tree once,
// reading one CallDepthArrayEntry array per node visited: the root's array
// is searched by lowerBound, every array below it is entered directly via
// the parent array entry's LeftLink/RightLink cross-link (see package
// lrt), so no node below the root is binary-searched.
func (idx *Index) LrtTranslate(line, da, db, ea, eb uint32) (resultLine, accum uint32, err error) {
	ok, resultLine, accum, err := idx.LrtTranslateMayFail(line, da, db, ea, eb)
	if err != nil {
		return 0, 0, err
	}
	if !ok {
		return 0, 0, ErrOutOfRange
	}
	return resultLine, accum, nil
}

// LrtTranslateMayFail is LrtTranslate without the fatal OutOfRange: ok is
// false if fewer than line+1 lines exist at depth in [da,db), in which case
// accum still holds the total [ea,eb)-depth line count over the whole
// tree (every node on the failing descent path lies entirely before the
// point where the search ran out, so its contribution is exact).
func (idx *Index) LrtTranslateMayFail(line, da, db, ea, eb uint32) (ok bool, resultLine, accum uint32, err error) {
	root := idx.header.SeqRoot
	if root == 0 {
		return false, 0, 0, nil
	}
	arr, err := idx.nodeArray(root)
	if err != nil {
		return false, 0, 0, err
	}
	daIdx := lowerBound(arr, da)
	dbIdx := lowerBound(arr, db)
	eaIdx := lowerBound(arr, ea)
	ebIdx := lowerBound(arr, eb)
	return idx.lrtDescend(root, arr, daIdx, dbIdx, eaIdx, ebIdx, line, da, db, ea, eb, 0)
}

// LrtTranslateRange counts the lines at depth [ea,eb) among the first e
// da/db-qualified lines, minus the same count among the first s: the
// number of [ea,eb)-depth lines within the [s,e) window of [da,db)-depth
// lines.
func (idx *Index) LrtTranslateRange(s, e, da, db, ea, eb uint32) (uint32, error) {
	_, _, accumE, err := idx.LrtTranslateMayFail(e, da, db, ea, eb)
	if err != nil {
		return 0, err
	}
	_, _, accumS, err := idx.LrtTranslateMayFail(s, da, db, ea, eb)
	if err != nil {
		return 0, err
	}
	return accumE - accumS, nil
}

func (idx *Index) lrtDescend(off uint64, arr []schema.CallDepthArrayEntry, daIdx, dbIdx, eaIdx, ebIdx int, line, da, db, ea, eb, preAccum uint32) (bool, uint32, uint32, error) {
	if off == 0 {
		return false, 0, preAccum, nil
	}
	n, err := idx.seqTree.Node(off)
	if err != nil {
		return false, 0, 0, err
	}

	var leftArr []schema.CallDepthArrayEntry
	if n.Left != 0 {
		leftArr, err = idx.nodeArray(n.Left)
		if err != nil {
			return false, 0, 0, err
		}
	}

	leftDAIdx := crossLink(arr, daIdx, false)
	leftDBIdx := crossLink(arr, dbIdx, false)
	leftEAIdx := crossLink(arr, eaIdx, false)
	leftEBIdx := crossLink(arr, ebIdx, false)

	leftCount := cumBelowIdx(leftArr, leftDBIdx) - cumBelowIdx(leftArr, leftDAIdx)
	leftEABCount := cumBelowIdx(leftArr, leftEBIdx) - cumBelowIdx(leftArr, leftEAIdx)

	if line < leftCount {
		return idx.lrtDescend(n.Left, leftArr, leftDAIdx, leftDBIdx, leftEAIdx, leftEBIdx, line, da, db, ea, eb, preAccum)
	}

	ownDepth, ownLines := n.Payload.CallDepth, n.Payload.TraceFileLines
	ownInRange := da <= ownDepth && ownDepth < db
	ownEAB := ea <= ownDepth && ownDepth < eb

	accumAfterLeft := preAccum + leftEABCount
	remaining := line - leftCount

	if ownInRange && remaining < ownLines {
		resultLine := n.Payload.TraceFileFirstLine + remaining
		accum := accumAfterLeft
		if ownEAB {
			accum += remaining
		}
		return true, resultLine, accum, nil
	}

	skip := leftCount
	if ownInRange {
		skip += ownLines
	}
	accumPastNode := accumAfterLeft
	if ownEAB {
		accumPastNode += ownLines
	}

	var rightArr []schema.CallDepthArrayEntry
	if n.Right != 0 {
		rightArr, err = idx.nodeArray(n.Right)
		if err != nil {
			return false, 0, 0, err
		}
	}
	rightDAIdx := crossLink(arr, daIdx, true)
	rightDBIdx := crossLink(arr, dbIdx, true)
	rightEAIdx := crossLink(arr, eaIdx, true)
	rightEBIdx := crossLink(arr, ebIdx, true)

	return idx.lrtDescend(n.Right, rightArr, rightDAIdx, rightDBIdx, rightEAIdx, rightEBIdx, line-skip, da, db, ea, eb, accumPastNode)
}

func (idx *Index) nodeArray(off uint64) ([]schema.CallDepthArrayEntry, error) {
	n, err := idx.seqTree.Node(off)
	if err != nil {
		return nil, err
	}
	return lrt.ReadArray(idx.a, n.Annotation)
}

// crossLink reads the LeftLink (right=false) or RightLink (right=true) of
// arr[idx], clamped to a valid index: idx can reach len(arr)-1 (the
// sentinel entry) but never past it, since every array is non-empty and
// sentinel-terminated.
func crossLink(arr []schema.CallDepthArrayEntry, idx int, right bool) int {
	if idx >= len(arr) {
		idx = len(arr) - 1
	}
	if idx < 0 {
		return 0
	}
	if right {
		return int(arr[idx].RightLink)
	}
	return int(arr[idx].LeftLink)
}

// cumBelowIdx returns the cumulative line count over every entry strictly
// before idx in arr, or 0 for idx<=0 or an empty array.
func cumBelowIdx(arr []schema.CallDepthArrayEntry, idx int) uint32 {
	if idx <= 0 || idx > len(arr) {
		return 0
	}
	return arr[idx-1].CumulativeLines
}

// lowerBound mirrors package lrt's unexported helper of the same name: the
// index of the first entry in arr whose CallDepth is >= depth.
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
