package diagnostics

import "github.com/arvalid/tarmac-trace-utilities/schema"

// NodeDump is the CBOR wire shape of one sequential-order tree node,
// keyed by small integers the way massifs' CBOR-tagged structs are, so a
// browser UI can decode it without a Go struct definition.
type NodeDump struct {
	Offset       uint64 `cbor:"1,keyasint"`
	ModTime      uint64 `cbor:"2,keyasint"`
	PC           uint64 `cbor:"3,keyasint"`
	TraceFilePos uint64 `cbor:"4,keyasint"`
	TraceFileLen uint64 `cbor:"5,keyasint"`
	FirstLine    uint32 `cbor:"6,keyasint"`
	Lines        uint32 `cbor:"7,keyasint"`
	MemoryRoot   uint64 `cbor:"8,keyasint"`
	CallDepth    uint32 `cbor:"9,keyasint"`
}

// DumpNode converts a tree node into its wire shape.
func DumpNode(offset uint64, p schema.SeqOrderPayload) NodeDump {
	return NodeDump{
		Offset:       offset,
		ModTime:      p.ModTime,
		PC:           p.PC,
		TraceFilePos: p.TraceFilePos,
		TraceFileLen: p.TraceFileLen,
		FirstLine:    p.TraceFileFirstLine,
		Lines:        p.TraceFileLines,
		MemoryRoot:   p.MemoryRoot,
		CallDepth:    p.CallDepth,
	}
}

// EncodeNode dumps a tree node directly to CBOR bytes.
func (c Codec) EncodeNode(offset uint64, p schema.SeqOrderPayload) ([]byte, error) {
	return c.Marshal(DumpNode(offset, p))
}

// DecodeNode recovers a NodeDump from CBOR bytes.
func (c Codec) DecodeNode(b []byte) (NodeDump, error) {
	var d NodeDump
	err := c.Unmarshal(b, &d)
	return d, err
}

// MemDump is the CBOR wire shape of a GetMem result: the reconstructed
// byte window, its defined-ness mask, and the line that last touched it.
type MemDump struct {
	Addr      uint64 `cbor:"1,keyasint"`
	Data      []byte `cbor:"2,keyasint"`
	Mask      []bool `cbor:"3,keyasint"`
	LastTouch uint32 `cbor:"4,keyasint"`
}

// DumpMemResult converts a GetMem result into its wire shape.
func DumpMemResult(addr schema.Addr, data []byte, mask []bool, lastTouch uint32) MemDump {
	return MemDump{Addr: uint64(addr), Data: data, Mask: mask, LastTouch: lastTouch}
}

// EncodeMemResult dumps a GetMem result directly to CBOR bytes.
func (c Codec) EncodeMemResult(addr schema.Addr, data []byte, mask []bool, lastTouch uint32) ([]byte, error) {
	return c.Marshal(DumpMemResult(addr, data, mask, lastTouch))
}

// DecodeMemResult recovers a MemDump from CBOR bytes.
func (c Codec) DecodeMemResult(b []byte) (MemDump, error) {
	var d MemDump
	err := c.Unmarshal(b, &d)
	return d, err
}

// RegDump is the CBOR wire shape of a register read: its raw bytes and,
// when the register is narrow enough to report as a scalar, its value.
type RegDump struct {
	Name  string `cbor:"1,keyasint"`
	Bytes []byte `cbor:"2,keyasint"`
	Value uint64 `cbor:"3,keyasint"`
}

// DumpRegister converts a register read into its wire shape.
func DumpRegister(name string, bytes []byte, value uint64) RegDump {
	return RegDump{Name: name, Bytes: bytes, Value: value}
}

// EncodeRegister dumps a register read directly to CBOR bytes.
func (c Codec) EncodeRegister(name string, bytes []byte, value uint64) ([]byte, error) {
	return c.Marshal(DumpRegister(name, bytes, value))
}

// DecodeRegister recovers a RegDump from CBOR bytes.
func (c Codec) DecodeRegister(b []byte) (RegDump, error) {
	var d RegDump
	err := c.Unmarshal(b, &d)
	return d, err
}
