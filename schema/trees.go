package schema

import "github.com/arvalid/tarmac-trace-utilities/disktree"

// SeqTreeSpec binds the sequential-order tree's payload/annotation
// capability set. Lift and Combine both return the zero SeqOrderAnnotation:
// the annotation's real content (a CallDepthArrayEntry array descriptor) is
// not a fold over payloads at all, so the AVL engine's combine machinery
// plays no part in producing it. The slot is reserved here at insert time
// and filled exactly once, after the tree is frozen, by disktree.Tree's
// SetAnnotation (see package lrt).
func SeqTreeSpec() disktree.Spec[SeqOrderPayload, SeqOrderAnnotation] {
	return disktree.Spec[SeqOrderPayload, SeqOrderAnnotation]{
		PayloadSize:    SeqOrderSize,
		AnnotationSize: SeqOrderAnnotationSize,
		Compare:        SeqOrderPayload.Compare,
		Lift:           func(SeqOrderPayload) SeqOrderAnnotation { return SeqOrderAnnotation{} },
		Combine:        func(SeqOrderAnnotation, SeqOrderAnnotation) SeqOrderAnnotation { return SeqOrderAnnotation{} },
		EncodePayload:     SeqOrderPayload.MarshalBinary,
		DecodePayload:     decodeSeqOrderPayload,
		EncodeAnnotation:  SeqOrderAnnotation.MarshalBinary,
		DecodeAnnotation:  decodeSeqOrderAnnotation,
	}
}

// MemTreeSpec binds the memory tree: ordered by (space, interval) with
// overlap-as-equal, annotated with the latest-touch line of each subtree.
// query.FindNextMod walks entries one by one and does not read this
// annotation.
func MemTreeSpec() disktree.Spec[MemoryPayload, MemoryAnnotation] {
	return disktree.Spec[MemoryPayload, MemoryAnnotation]{
		PayloadSize:       MemoryPayloadSize,
		AnnotationSize:    MemoryAnnotationSize,
		Compare:           MemoryPayload.Compare,
		Lift:              LiftMemoryAnnotation,
		Combine:           CombineMemoryAnnotation,
		EncodePayload:     MemoryPayload.MarshalBinary,
		DecodePayload:     decodeMemoryPayload,
		EncodeAnnotation:  MemoryAnnotation.MarshalBinary,
		DecodeAnnotation:  decodeMemoryAnnotation,
	}
}

// MemorySubTreeSpec binds a memory subtree (one per deferred-fill
// "raw=false" region). Unannotated: resolving a read against a subtree is
// a plain interval lookup.
func MemorySubTreeSpec() disktree.Spec[MemorySubPayload, Empty] {
	return disktree.Spec[MemorySubPayload, Empty]{
		PayloadSize:       MemorySubPayloadSize,
		AnnotationSize:    0,
		Compare:           MemorySubPayload.Compare,
		Lift:              liftNothing[MemorySubPayload],
		Combine:           combineNothing,
		EncodePayload:     MemorySubPayload.MarshalBinary,
		DecodePayload:     decodeMemorySubPayload,
		EncodeAnnotation:  Empty.MarshalBinary,
		DecodeAnnotation:  decodeEmpty,
	}
}

// ByPCTreeSpec binds the by-PC tree: same events as the sequential-order
// tree, reordered by (pc, trace_file_firstline). Unannotated: every lookup
// against it is by exact or ranked key, never by an aggregated predicate.
func ByPCTreeSpec() disktree.Spec[ByPCPayload, Empty] {
	return disktree.Spec[ByPCPayload, Empty]{
		PayloadSize:       ByPCPayloadSize,
		AnnotationSize:    0,
		Compare:           ByPCPayload.Compare,
		Lift:              liftNothing[ByPCPayload],
		Combine:           combineNothing,
		EncodePayload:     ByPCPayload.MarshalBinary,
		DecodePayload:     decodeByPCPayload,
		EncodeAnnotation:  Empty.MarshalBinary,
		DecodeAnnotation:  decodeEmpty,
	}
}

func decodeSeqOrderPayload(b []byte) (SeqOrderPayload, error) {
	var p SeqOrderPayload
	err := p.UnmarshalBinary(b)
	return p, err
}

func decodeSeqOrderAnnotation(b []byte) (SeqOrderAnnotation, error) {
	var a SeqOrderAnnotation
	err := a.UnmarshalBinary(b)
	return a, err
}

func decodeMemoryPayload(b []byte) (MemoryPayload, error) {
	var p MemoryPayload
	err := p.UnmarshalBinary(b)
	return p, err
}

func decodeMemoryAnnotation(b []byte) (MemoryAnnotation, error) {
	var a MemoryAnnotation
	err := a.UnmarshalBinary(b)
	return a, err
}

func decodeMemorySubPayload(b []byte) (MemorySubPayload, error) {
	var p MemorySubPayload
	err := p.UnmarshalBinary(b)
	return p, err
}

func decodeByPCPayload(b []byte) (ByPCPayload, error) {
	var p ByPCPayload
	err := p.UnmarshalBinary(b)
	return p, err
}

func decodeEmpty(b []byte) (Empty, error) {
	return Empty{}, nil
}
