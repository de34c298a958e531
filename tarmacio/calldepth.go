package tarmacio

// CallDepthVerdict is the call-depth heuristic's classification of the
// transition from one retired instruction to the next.
type CallDepthVerdict int

const (
	// Normal means the depth is unchanged (straight-line code, a branch
	// within the same function, a taken conditional, ...).
	Normal CallDepthVerdict = iota
	// Call means the depth should increase by one: the heuristic saw a
	// branch-and-link-shaped transition (return address pushed, a BL/BLX
	// instruction, or a jump to a symbol entry point with a plausible
	// link register).
	Call
	// Return means the depth should decrease by one, clamped at zero.
	Return
)

// CallDepthHeuristic classifies the transition from prevPC to curPC. image
// may be nil if the collaborator was not given an image (in which case the
// heuristic degrades to whatever it can infer from the PCs alone); depth is
// the indexer's current call depth, offered so the heuristic can refuse to
// return Return when depth is already zero.
type CallDepthHeuristic interface {
	Classify(prevPC, curPC uint64, image Image, depth uint32) CallDepthVerdict
}

// CallDepthHeuristicFunc adapts a plain function to CallDepthHeuristic.
type CallDepthHeuristicFunc func(prevPC, curPC uint64, image Image, depth uint32) CallDepthVerdict

func (f CallDepthHeuristicFunc) Classify(prevPC, curPC uint64, image Image, depth uint32) CallDepthVerdict {
	return f(prevPC, curPC, image, depth)
}
