package disktree

import (
	"fmt"

	"github.com/arvalid/tarmac-trace-utilities/arena"
)

// Tree is one instantiation of the persistent AVL engine, bound to a
// concrete payload type P and annotation type A via Spec. A Tree has no
// state of its own beyond the arena and the Spec: the "current tree" is
// whatever root offset the caller is holding, which is why Insert and
// Delete take and return root offsets rather than mutating a field.
type Tree[P any, A any] struct {
	arena *arena.Arena
	spec  Spec[P, A]
}

// New binds a Spec to an arena, producing the engine for one tree
// instantiation (seqtree, memtree, memory-subtree, or bypctree).
func New[P any, A any](a *arena.Arena, spec Spec[P, A]) *Tree[P, A] {
	return &Tree[P, A]{arena: a, spec: spec}
}

func (t *Tree[P, A]) get(off uint64) (*Node[P, A], error) {
	if off == 0 {
		return nil, nil
	}
	b, err := t.arena.ReadAt(off, t.spec.nodeSize())
	if err != nil {
		return nil, fmt.Errorf("disktree: read node at %d: %w", off, err)
	}
	n, err := decodeNode(t.spec, b)
	if err != nil {
		return nil, fmt.Errorf("disktree: decode node at %d: %w", off, err)
	}
	return &n, nil
}

// put allocates a fresh node record and returns its offset. Called once
// per node version: existing offsets are never rewritten here, only
// superseded by a new allocation (the copy-on-write discipline).
func (t *Tree[P, A]) put(n Node[P, A]) (uint64, error) {
	b := encodeNode(t.spec, n)
	off, err := t.arena.Allocate(len(b))
	if err != nil {
		return 0, err
	}
	if err := t.arena.WriteAt(off, b); err != nil {
		return 0, err
	}
	return off, nil
}

func (t *Tree[P, A]) annotate(p P, left, right *Node[P, A]) A {
	lifted := t.spec.Lift(p)
	return t.spec.Combine(t.spec.Combine(annotationOf(left), lifted), annotationOf(right))
}

// leaf builds and writes a new node with no children.
func (t *Tree[P, A]) leaf(p P) (uint64, error) {
	n := Node[P, A]{Height: 1, Payload: p, Annotation: t.annotate(p, nil, nil)}
	return t.put(n)
}

// rebuild writes a fresh version of a node given its (already-written)
// children offsets and its own payload, computing height and annotation.
func (t *Tree[P, A]) rebuild(p P, leftOff, rightOff uint64, left, right *Node[P, A]) (uint64, error) {
	h := height(left)
	if height(right) > h {
		h = height(right)
	}
	n := Node[P, A]{
		Left:       leftOff,
		Right:      rightOff,
		Height:     h + 1,
		Payload:    p,
		Annotation: t.annotate(p, left, right),
	}
	return t.put(n)
}

// RootAnnotation returns the annotation of the given root, or the zero
// value of A for the empty tree.
func (t *Tree[P, A]) RootAnnotation(root uint64) (A, error) {
	n, err := t.get(root)
	if err != nil {
		var zero A
		return zero, err
	}
	return annotationOf(n), nil
}

// Node decodes and returns the node at off, for callers (query,
// lrt) that need direct access to a specific node's payload/annotation.
func (t *Tree[P, A]) Node(off uint64) (Node[P, A], error) {
	n, err := t.get(off)
	if err != nil {
		return Node[P, A]{}, err
	}
	if n == nil {
		return Node[P, A]{}, ErrNotFound
	}
	return *n, nil
}

// Payload returns just the payload at off, a convenience for callers that
// already have a node offset from a prior traversal.
func (t *Tree[P, A]) Payload(off uint64) (P, error) {
	n, err := t.Node(off)
	return n.Payload, err
}

// SetAnnotation overwrites just the annotation bytes of the node at off,
// leaving its left/right/height/payload untouched. This is the one
// sanctioned exception to copy-on-write immutability: the layered-range
// post-pass (package lrt) reserves a node's annotation slot at insert time
// (lift/combine for the sequential-order tree both return the zero value)
// and fills it exactly once, after the tree's shape is frozen, with the
// offset and length of that node's CallDepthArrayEntry array.
func (t *Tree[P, A]) SetAnnotation(off uint64, ann A) error {
	annOff := off + uint64(nodeHeaderSize+t.spec.PayloadSize)
	return t.arena.WriteAt(annOff, t.spec.EncodeAnnotation(ann))
}
