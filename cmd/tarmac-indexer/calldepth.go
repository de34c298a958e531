package main

import "github.com/arvalid/tarmac-trace-utilities/tarmacio"

// defaultCallDepthHeuristic is the call-heuristic policy collaborator this
// binary wires in when nothing more accurate (disassembly-based branch
// classification) is available: it only has the two raw PCs to go on, per
// tarmacio.CallDepthHeuristic's doc comment about degrading gracefully
// without an image. A non-sequential forward jump is treated as a call, a
// backward jump as a return; everything else (including Thumb's variable
// instruction width, which this cannot see) is Normal. Real deployments
// should replace this with a heuristic backed by disassembly.
var defaultCallDepthHeuristic = tarmacio.CallDepthHeuristicFunc(func(prevPC, curPC uint64, image tarmacio.Image, depth uint32) tarmacio.CallDepthVerdict {
	switch {
	case curPC > prevPC+4:
		return tarmacio.Call
	case curPC < prevPC && depth > 0:
		return tarmacio.Return
	default:
		return tarmacio.Normal
	}
})
