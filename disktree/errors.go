package disktree

import "errors"

var (
	// ErrNotFound is returned by Lookup when no node compares equal to the
	// search key.
	ErrNotFound = errors.New("disktree: key not found")

	// ErrEmptyTree is returned by operations that require a non-empty root
	// (Leftmost, Rightmost) when given the empty-tree sentinel offset 0.
	ErrEmptyTree = errors.New("disktree: tree is empty")
)
