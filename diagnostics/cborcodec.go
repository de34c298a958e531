// Package diagnostics renders index internals (tree nodes, memory/register
// query results) as CBOR for the out-of-scope browser UI collaborator to
// consume, and for ad-hoc inspection of an index file.
//
// Grounded on massifs/cborcodec.go's NewCBORCodec(EncOptions, DecOptions)
// wrapper shape. The teacher's own wrapper package,
// go-datatrails-common/cbor, is internal to datatrails and not present in
// the retrieval pack, so this package imports the underlying library
// directly and reconstructs the thin wrapper in the same shape.
package diagnostics

import "github.com/fxamacker/cbor/v2"

// Codec is a canonically-encoding CBOR wrapper, built once and reused
// across every Dump call: constructing an EncMode/DecMode is the
// expensive part, per fxamacker/cbor's own documentation.
type Codec struct {
	enc cbor.EncMode
	dec cbor.DecMode
}

// NewCodec builds a Codec using canonical (deterministic, map-key-sorted)
// encoding, matching the teacher's own preference for deterministic CBOR
// in rootsigner.go's NewRootSignerCodec.
func NewCodec() (Codec, error) {
	encOpts := cbor.CanonicalEncOptions()
	em, err := encOpts.EncMode()
	if err != nil {
		return Codec{}, err
	}
	decOpts := cbor.DecOptions{}
	dm, err := decOpts.DecMode()
	if err != nil {
		return Codec{}, err
	}
	return Codec{enc: em, dec: dm}, nil
}

func (c Codec) Marshal(v any) ([]byte, error) { return c.enc.Marshal(v) }

func (c Codec) Unmarshal(b []byte, v any) error { return c.dec.Unmarshal(b, v) }
