// Package disktree implements the generic persistent (copy-on-write) AVL
// tree that every index tree (sequential-order, memory, memory-sub, by-PC)
// is an instantiation of. Nodes live in a package arena.Arena; a tree is
// identified entirely by the arena offset of its root (0 meaning empty).
//
// No file in the teacher repo implements a rebalancing tree — its
// Merkle Mountain Range (mmr) is a fixed-shape append-only forest with no
// rotations, so the rotation algorithm here is original, built directly
// from the engine's stated capability set rather than adapted from
// existing Go. What is carried over from the teacher is the discipline of
// massifs/massifcontext.go: derive every new version from an immutable
// predecessor, and never mutate a record once its offset has been handed
// out.
package disktree

// Spec bundles the compile-time-fixed behavior an instantiation of the
// engine needs to supply for a payload type P and subtree-annotation type
// A: ordering, the lift/combine annotation algebra, and the fixed-width
// encode/decode pair for each. A strategy struct of functions is used
// instead of requiring P and A to implement methods, because the schema
// package's payload and annotation types are plain structs shared across
// several components (arena, lrt, query) that each want a different
// capability subset; forcing every capability into a method set would
// couple schema to disktree.
type Spec[P any, A any] struct {
	// PayloadSize and AnnotationSize are the fixed encoded widths of P and
	// A; every node in a tree built from this Spec occupies the same
	// number of bytes.
	PayloadSize     int
	AnnotationSize  int

	// Compare orders two payloads; Insert/Lookup/Delete treat 0 as "same
	// key" and perform copy-on-write replacement rather than inserting a
	// duplicate.
	Compare func(a, b P) int

	// Lift derives the single-node annotation contribution of a payload
	// with no children.
	Lift func(p P) A

	// Combine folds two annotations into one; the engine computes a node's
	// annotation as Combine(Combine(left, Lift(payload)), right) over its
	// left and right subtree annotations. Must be associative: Combine(Combine(l, m), r) ==
	// Combine(l, Combine(m, r)), since rotations reassociate the fold
	// without revisiting every payload.
	Combine func(left, right A) A

	EncodePayload func(p P) []byte
	DecodePayload func(b []byte) (P, error)

	EncodeAnnotation func(a A) []byte
	DecodeAnnotation func(b []byte) (A, error)
}

func (s Spec[P, A]) nodeSize() int {
	return nodeHeaderSize + s.PayloadSize + s.AnnotationSize
}
