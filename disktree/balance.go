package disktree

// balance writes the node for payload p over the given (already-written)
// children, performing a single or double AVL rotation if the resulting
// height difference exceeds 1. It returns the offset of whichever node
// ends up as the root of this subtree after rebalancing.
func (t *Tree[P, A]) balance(p P, leftOff uint64, left *Node[P, A], rightOff uint64, right *Node[P, A]) (uint64, error) {
	bf := balanceFactor(left, right)
	switch {
	case bf > 1:
		return t.balanceLeftHeavy(p, leftOff, left, rightOff, right)
	case bf < -1:
		return t.balanceRightHeavy(p, leftOff, left, rightOff, right)
	default:
		return t.rebuild(p, leftOff, rightOff, left, right)
	}
}

func (t *Tree[P, A]) balanceLeftHeavy(p P, leftOff uint64, left *Node[P, A], rightOff uint64, right *Node[P, A]) (uint64, error) {
	ll, err := t.get(left.Left)
	if err != nil {
		return 0, err
	}
	lr, err := t.get(left.Right)
	if err != nil {
		return 0, err
	}

	if height(ll) >= height(lr) {
		// left-left case: single rotation right.
		newRightOff, err := t.rebuild(p, left.Right, rightOff, lr, right)
		if err != nil {
			return 0, err
		}
		newRight, err := t.get(newRightOff)
		if err != nil {
			return 0, err
		}
		return t.rebuild(left.Payload, left.Left, newRightOff, ll, newRight)
	}

	// left-right case: rotate the left child left, then rotate right.
	lrl, err := t.get(lr.Left)
	if err != nil {
		return 0, err
	}
	lrr, err := t.get(lr.Right)
	if err != nil {
		return 0, err
	}

	newLeftOff, err := t.rebuild(left.Payload, left.Left, lr.Left, ll, lrl)
	if err != nil {
		return 0, err
	}
	newLeft, err := t.get(newLeftOff)
	if err != nil {
		return 0, err
	}

	newRightOff, err := t.rebuild(p, lr.Right, rightOff, lrr, right)
	if err != nil {
		return 0, err
	}
	newRight, err := t.get(newRightOff)
	if err != nil {
		return 0, err
	}

	return t.rebuild(lr.Payload, newLeftOff, newRightOff, newLeft, newRight)
}

func (t *Tree[P, A]) balanceRightHeavy(p P, leftOff uint64, left *Node[P, A], rightOff uint64, right *Node[P, A]) (uint64, error) {
	rr, err := t.get(right.Right)
	if err != nil {
		return 0, err
	}
	rl, err := t.get(right.Left)
	if err != nil {
		return 0, err
	}

	if height(rr) >= height(rl) {
		// right-right case: single rotation left.
		newLeftOff, err := t.rebuild(p, leftOff, right.Left, left, rl)
		if err != nil {
			return 0, err
		}
		newLeft, err := t.get(newLeftOff)
		if err != nil {
			return 0, err
		}
		return t.rebuild(right.Payload, newLeftOff, right.Right, newLeft, rr)
	}

	// right-left case: rotate the right child right, then rotate left.
	rll, err := t.get(rl.Left)
	if err != nil {
		return 0, err
	}
	rlr, err := t.get(rl.Right)
	if err != nil {
		return 0, err
	}

	newRightOff, err := t.rebuild(right.Payload, rl.Right, right.Right, rlr, rr)
	if err != nil {
		return 0, err
	}
	newRight, err := t.get(newRightOff)
	if err != nil {
		return 0, err
	}

	newLeftOff, err := t.rebuild(p, leftOff, rl.Left, left, rll)
	if err != nil {
		return 0, err
	}
	newLeft, err := t.get(newLeftOff)
	if err != nil {
		return 0, err
	}

	return t.rebuild(rl.Payload, newLeftOff, newRightOff, newLeft, newRight)
}
