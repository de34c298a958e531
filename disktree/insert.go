package disktree

// Insert inserts payload p into the tree rooted at root, or replaces the
// payload of the existing node whose key compares equal to p. It returns
// the offset of the new root and the offset of the node holding p (so a
// caller can address the just-written payload directly without a second
// lookup). The record at that offset always holds p, but a rebalancing
// rotation (in this insert or a later one) and later inserts beneath it
// write newer copies with other children, so it is not necessarily the
// copy reachable from a given root.
//
// root itself is never mutated: every ancestor on the path to the
// insertion point is rewritten at a new offset, and every sibling subtree
// is shared unchanged by offset, per the engine's copy-on-write contract.
func (t *Tree[P, A]) Insert(root uint64, p P) (newRoot, insertedOffset uint64, err error) {
	if root == 0 {
		off, err := t.leaf(p)
		return off, off, err
	}

	n, err := t.get(root)
	if err != nil {
		return 0, 0, err
	}

	switch cmp := t.spec.Compare(p, n.Payload); {
	case cmp == 0:
		left, err := t.get(n.Left)
		if err != nil {
			return 0, 0, err
		}
		right, err := t.get(n.Right)
		if err != nil {
			return 0, 0, err
		}
		off, err := t.rebuild(p, n.Left, n.Right, left, right)
		return off, off, err

	case cmp < 0:
		newLeftOff, insertedOffset, err := t.Insert(n.Left, p)
		if err != nil {
			return 0, 0, err
		}
		newLeft, err := t.get(newLeftOff)
		if err != nil {
			return 0, 0, err
		}
		right, err := t.get(n.Right)
		if err != nil {
			return 0, 0, err
		}
		newRoot, err := t.balance(n.Payload, newLeftOff, newLeft, n.Right, right)
		return newRoot, insertedOffset, err

	default:
		newRightOff, insertedOffset, err := t.Insert(n.Right, p)
		if err != nil {
			return 0, 0, err
		}
		newRight, err := t.get(newRightOff)
		if err != nil {
			return 0, 0, err
		}
		left, err := t.get(n.Left)
		if err != nil {
			return 0, 0, err
		}
		newRoot, err := t.balance(n.Payload, n.Left, left, newRightOff, newRight)
		return newRoot, insertedOffset, err
	}
}
