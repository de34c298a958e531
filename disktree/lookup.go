package disktree

// Lookup descends from root comparing key against each node's payload and
// returns the matching payload and its node offset, or ErrNotFound.
func (t *Tree[P, A]) Lookup(root uint64, key P) (P, uint64, error) {
	off := root
	for off != 0 {
		n, err := t.get(off)
		if err != nil {
			var zero P
			return zero, 0, err
		}
		switch cmp := t.spec.Compare(key, n.Payload); {
		case cmp == 0:
			return n.Payload, off, nil
		case cmp < 0:
			off = n.Left
		default:
			off = n.Right
		}
	}
	var zero P
	return zero, 0, ErrNotFound
}

// Decision is the result of interrogating a node's annotations during a
// FindByAnnotation descent.
type Decision int

const (
	GoLeft Decision = iota
	GoRight
	Accept
)

// FindByAnnotation descends from root, letting choose pick a direction (or
// accept the current node) by looking at the node's own payload and the
// annotations rolled up over its left and right subtrees, as a
// constrained-rank query does. The query package's lrt_translate and
// FindNextMod do their own descents and do not call it.
func (t *Tree[P, A]) FindByAnnotation(root uint64, choose func(payload P, leftAnn, rightAnn A) Decision) (P, uint64, error) {
	off := root
	for off != 0 {
		n, err := t.get(off)
		if err != nil {
			var zero P
			return zero, 0, err
		}
		leftAnn, err := t.RootAnnotation(n.Left)
		if err != nil {
			var zero P
			return zero, 0, err
		}
		rightAnn, err := t.RootAnnotation(n.Right)
		if err != nil {
			var zero P
			return zero, 0, err
		}

		switch choose(n.Payload, leftAnn, rightAnn) {
		case Accept:
			return n.Payload, off, nil
		case GoLeft:
			off = n.Left
		default:
			off = n.Right
		}
	}
	var zero P
	return zero, 0, ErrNotFound
}
