package arena

// unmarshaler constrains a pointer type PT whose pointee is T and which
// knows how to decode itself from a fixed-width byte slice. This is the
// standard Go generics idiom for "generic function returns T, but decoding
// needs a pointer receiver": the type parameter list carries both T and
// PT so the zero value of T can be taken by address.
type unmarshaler[T any] interface {
	*T
	UnmarshalBinary([]byte) error
}

type marshaler interface {
	MarshalBinary() []byte
}

// Put encodes v and writes it at off. Callers obtain off from Allocate (or
// AllocateAligned) sized to match v's encoded width.
func Put[T marshaler](a *Arena, off uint64, v T) error {
	return a.WriteAt(off, v.MarshalBinary())
}

// Append allocates space for v's encoded form and writes it, returning the
// offset.
func Append[T marshaler](a *Arena, v T) (uint64, error) {
	b := v.MarshalBinary()
	off, err := a.Allocate(len(b))
	if err != nil {
		return 0, err
	}
	return off, a.WriteAt(off, b)
}

// Get reads size bytes at off and decodes them into a T.
func Get[T any, PT unmarshaler[T]](a *Arena, off uint64, size int) (T, error) {
	var v T
	b, err := a.ReadAt(off, size)
	if err != nil {
		return v, err
	}
	if err := PT(&v).UnmarshalBinary(b); err != nil {
		return v, err
	}
	return v, nil
}
