package disktree

import "encoding/binary"

// nodeHeaderSize is the width of the left/right/height header that
// precedes every node's payload and annotation bytes.
const nodeHeaderSize = 8 + 8 + 4

// Node is the decoded in-memory view of one on-disk tree node. Left and
// Right are arena offsets (0 meaning no child); Height is the node's AVL
// height (a leaf has height 1). Exported so that lrt and query can walk a
// tree's shape directly instead of going through disktree for every
// child-offset access.
type Node[P any, A any] struct {
	Left, Right uint64
	Height      uint32
	Payload     P
	Annotation  A
}

func balanceFactor[P, A any](l, r *Node[P, A]) int {
	return int(height(l)) - int(height(r))
}

func height[P, A any](n *Node[P, A]) uint32 {
	if n == nil {
		return 0
	}
	return n.Height
}

func annotationOf[P, A any](n *Node[P, A]) A {
	var zero A
	if n == nil {
		return zero
	}
	return n.Annotation
}

func encodeNode[P, A any](spec Spec[P, A], n Node[P, A]) []byte {
	b := make([]byte, spec.nodeSize())
	binary.LittleEndian.PutUint64(b[0:8], n.Left)
	binary.LittleEndian.PutUint64(b[8:16], n.Right)
	binary.LittleEndian.PutUint32(b[16:20], n.Height)
	copy(b[nodeHeaderSize:nodeHeaderSize+spec.PayloadSize], spec.EncodePayload(n.Payload))
	copy(b[nodeHeaderSize+spec.PayloadSize:], spec.EncodeAnnotation(n.Annotation))
	return b
}

func decodeNode[P, A any](spec Spec[P, A], b []byte) (Node[P, A], error) {
	var n Node[P, A]
	n.Left = binary.LittleEndian.Uint64(b[0:8])
	n.Right = binary.LittleEndian.Uint64(b[8:16])
	n.Height = binary.LittleEndian.Uint32(b[16:20])

	p, err := spec.DecodePayload(b[nodeHeaderSize : nodeHeaderSize+spec.PayloadSize])
	if err != nil {
		return n, err
	}
	n.Payload = p

	a, err := spec.DecodeAnnotation(b[nodeHeaderSize+spec.PayloadSize:])
	if err != nil {
		return n, err
	}
	n.Annotation = a
	return n, nil
}
