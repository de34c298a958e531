// Package schema defines the fixed, little-endian on-disk layouts for the
// four tree instantiations and the file header. Nothing in this package
// knows how to walk a tree; it only knows how to read and write bytes in a
// shape that is stable across host architectures and across time.
package schema

import "encoding/binary"

// OffT is the type of a byte offset into the arena. Zero denotes "no node" /
// "empty tree" throughout.
type OffT = uint64

// Addr is an address in a Tarmac address space (memory byte address, or a
// register's synthetic address).
type Addr = uint64

// Time is a Tarmac trace timestamp, as given explicitly in the trace file.
type Time = uint64

// putU32/getU32 etc. fix little-endian encoding regardless of host
// endianness, per spec.md 3.1: FLAG_BIGEND describes the traced CPU, never
// the index's own byte order.

func putU32(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func getU32(b []byte) uint32    { return binary.LittleEndian.Uint32(b) }

func putU64(b []byte, v uint64) { binary.LittleEndian.PutUint64(b, v) }
func getU64(b []byte) uint64    { return binary.LittleEndian.Uint64(b) }
