package disktree

// Delete removes the node whose payload compares equal to key, returning
// the new root and whether a node was actually removed. Unchanged subtrees
// on the path are returned by their existing offset without being
// rewritten; only ancestors of the deleted node, and any node touched by a
// rebalancing rotation, get a new offset.
//
// The indexer deletes from its memory trees whenever a new write or read
// overlaps an existing interval: it removes the overlapping entry and
// reinserts whatever part of it survives.
func (t *Tree[P, A]) Delete(root uint64, key P) (newRoot uint64, deleted bool, err error) {
	if root == 0 {
		return 0, false, nil
	}

	n, err := t.get(root)
	if err != nil {
		return 0, false, err
	}

	switch cmp := t.spec.Compare(key, n.Payload); {
	case cmp < 0:
		newLeftOff, deleted, err := t.Delete(n.Left, key)
		if err != nil || !deleted {
			return root, deleted, err
		}
		newLeft, err := t.get(newLeftOff)
		if err != nil {
			return 0, false, err
		}
		right, err := t.get(n.Right)
		if err != nil {
			return 0, false, err
		}
		newRoot, err := t.balance(n.Payload, newLeftOff, newLeft, n.Right, right)
		return newRoot, true, err

	case cmp > 0:
		newRightOff, deleted, err := t.Delete(n.Right, key)
		if err != nil || !deleted {
			return root, deleted, err
		}
		newRight, err := t.get(newRightOff)
		if err != nil {
			return 0, false, err
		}
		left, err := t.get(n.Left)
		if err != nil {
			return 0, false, err
		}
		newRoot, err := t.balance(n.Payload, n.Left, left, newRightOff, newRight)
		return newRoot, true, err

	default:
		newRoot, err := t.deleteNode(n)
		return newRoot, true, err
	}
}

// deleteNode removes n itself, returning the offset of whatever should
// take its place.
func (t *Tree[P, A]) deleteNode(n *Node[P, A]) (uint64, error) {
	if n.Left == 0 {
		return n.Right, nil
	}
	if n.Right == 0 {
		return n.Left, nil
	}

	succOff, err := t.leftmostOffset(n.Right)
	if err != nil {
		return 0, err
	}
	succ, err := t.get(succOff)
	if err != nil {
		return 0, err
	}

	newRightOff, _, err := t.Delete(n.Right, succ.Payload)
	if err != nil {
		return 0, err
	}
	newRight, err := t.get(newRightOff)
	if err != nil {
		return 0, err
	}
	left, err := t.get(n.Left)
	if err != nil {
		return 0, err
	}

	return t.balance(succ.Payload, n.Left, left, newRightOff, newRight)
}
