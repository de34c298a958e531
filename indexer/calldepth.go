package indexer

import "github.com/arvalid/tarmac-trace-utilities/tarmacio"

// updateCallDepth asks the call-depth heuristic collaborator to classify
// the transition from the previous instruction's PC to curPC, and adjusts
// idx.callDepth accordingly. A Return verdict is clamped at zero: a
// heuristic that misjudges the very first frame of a trace must not drive
// the depth negative.
func (idx *Indexer) updateCallDepth(curPC uint64) {
	if !idx.havePrevPC || idx.depth == nil {
		idx.havePrevPC = true
		idx.prevPC = curPC
		return
	}

	switch idx.depth.Classify(idx.prevPC, curPC, idx.image, idx.callDepth) {
	case tarmacio.Call:
		idx.callDepth++
	case tarmacio.Return:
		if idx.callDepth > 0 {
			idx.callDepth--
		}
	}

	idx.prevPC = curPC
}
