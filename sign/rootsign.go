// Package sign COSE-signs the completion roots of a finished index, so an
// index built on one machine and copied to another (build farm to browser
// host) can be checked for tampering before it is trusted.
//
// Grounded on massifs/rootsigner.go and signedrootreader.go's sign/detach/
// reattach/verify shape. The teacher builds the COSE headers and key
// binding through datatrails' internal cose/cbor/azkeys wrapper packages,
// none of which are in the retrieval pack or importable from this module;
// this package reproduces the same signing shape directly against
// veraison/go-cose, without the CWT key-binding headers those wrappers add.
package sign

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/veraison/go-cose"
)

var (
	// ErrRootMismatch is returned by Verify when the signed message
	// decodes and the signature checks out, but its payload does not
	// match the roots the caller asked to verify against.
	ErrRootMismatch = errors.New("sign: signed roots do not match index header")
)

// RootState is the CBOR payload carried inside the COSE envelope: the two
// tree roots that, together, identify the complete content of an index.
type RootState struct {
	SeqRoot   uint64 `cbor:"1,keyasint"`
	ByPCRoot  uint64 `cbor:"2,keyasint"`
	Timestamp int64  `cbor:"3,keyasint"`
}

// RootDigest hashes the pair of roots the way the completion flag commits
// to index content: sha256 over their big-endian encoding. It is a
// standalone fingerprint for callers that want a fixed-size value to log or
// compare outside the signing path; Sign and Verify carry the roots
// themselves in the CBOR payload rather than a digest of them.
func RootDigest(seqRoot, byPCRoot uint64) []byte {
	var b [16]byte
	binary.BigEndian.PutUint64(b[0:8], seqRoot)
	binary.BigEndian.PutUint64(b[8:16], byPCRoot)
	sum := sha256.Sum256(b[:])
	return sum[:]
}

// Sign produces a COSE Sign1 message over a RootState built from seqRoot
// and byPCRoot, using key as an ES256/ES384/ES512 signer depending on the
// key's curve (algorithmFor picks the algorithm from the curve and hands
// it to cose.NewSigner).
func Sign(key *ecdsa.PrivateKey, seqRoot, byPCRoot uint64, timestamp int64, external []byte) ([]byte, error) {
	alg, err := algorithmFor(key)
	if err != nil {
		return nil, err
	}
	signer, err := cose.NewSigner(alg, key)
	if err != nil {
		return nil, fmt.Errorf("sign: new signer: %w", err)
	}

	state := RootState{SeqRoot: seqRoot, ByPCRoot: byPCRoot, Timestamp: timestamp}
	payload, err := cbor.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("sign: marshal payload: %w", err)
	}

	msg := cose.NewSign1Message()
	msg.Payload = payload
	if err := msg.Sign(rand.Reader, external, signer); err != nil {
		return nil, fmt.Errorf("sign: %w", err)
	}
	return msg.MarshalCBOR()
}

// Verify checks that raw is a COSE Sign1 message signed by the holder of
// the private key matching pub, and that its payload commits to exactly
// (seqRoot, byPCRoot): the same "decode, then re-derive the expected value
// and compare" shape as massifs/rootsigner_test.go's reattach-then-verify
// step, simplified because this repo's roots are cheap to recompute rather
// than requiring a separate blob fetch.
func Verify(raw []byte, pub *ecdsa.PublicKey, seqRoot, byPCRoot uint64, external []byte) error {
	var msg cose.Sign1Message
	if err := msg.UnmarshalCBOR(raw); err != nil {
		return fmt.Errorf("sign: unmarshal: %w", err)
	}

	alg, err := algorithmForCurve(pub.Curve)
	if err != nil {
		return err
	}
	verifier, err := cose.NewVerifier(alg, pub)
	if err != nil {
		return fmt.Errorf("sign: new verifier: %w", err)
	}
	if err := msg.Verify(external, verifier); err != nil {
		return fmt.Errorf("sign: verify: %w", err)
	}

	var state RootState
	if err := cbor.Unmarshal(msg.Payload, &state); err != nil {
		return fmt.Errorf("sign: unmarshal payload: %w", err)
	}
	if state.SeqRoot != seqRoot || state.ByPCRoot != byPCRoot {
		return ErrRootMismatch
	}
	return nil
}

func algorithmFor(key *ecdsa.PrivateKey) (cose.Algorithm, error) {
	return algorithmForCurve(key.Curve)
}

func algorithmForCurve(curve elliptic.Curve) (cose.Algorithm, error) {
	switch curve.Params().Name {
	case "P-256":
		return cose.AlgorithmES256, nil
	case "P-384":
		return cose.AlgorithmES384, nil
	case "P-521":
		return cose.AlgorithmES512, nil
	default:
		return 0, fmt.Errorf("sign: unsupported curve %s", curve.Params().Name)
	}
}
