package schema

// Empty is the annotation type for trees that carry no subtree
// augmentation of their own: the by-PC tree and memory subtrees are
// looked up by key only, never by a ranked/aggregated predicate.
type Empty struct{}

func (Empty) MarshalBinary() []byte { return nil }

func (*Empty) UnmarshalBinary(b []byte) error { return nil }

func liftNothing[P any](P) Empty { return Empty{} }

func combineNothing(Empty, Empty) Empty { return Empty{} }
