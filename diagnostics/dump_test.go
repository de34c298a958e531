package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvalid/tarmac-trace-utilities/schema"
)

func TestEncodeDecodeNode(t *testing.T) {
	c, err := NewCodec()
	require.NoError(t, err)

	p := schema.SeqOrderPayload{
		ModTime:            100,
		PC:                 0x1000,
		TraceFilePos:       4096,
		TraceFileLen:       64,
		TraceFileFirstLine: 7,
		TraceFileLines:     1,
		MemoryRoot:         88,
		CallDepth:          2,
	}

	raw, err := c.EncodeNode(200, p)
	require.NoError(t, err)

	got, err := c.DecodeNode(raw)
	require.NoError(t, err)
	assert.Equal(t, DumpNode(200, p), got)
}

func TestEncodeDecodeMemResult(t *testing.T) {
	c, err := NewCodec()
	require.NoError(t, err)

	raw, err := c.EncodeMemResult(0x2000, []byte{1, 2, 3, 4}, []bool{true, true, false, true}, 9)
	require.NoError(t, err)

	got, err := c.DecodeMemResult(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x2000), got.Addr)
	assert.Equal(t, []byte{1, 2, 3, 4}, got.Data)
	assert.Equal(t, []bool{true, true, false, true}, got.Mask)
	assert.EqualValues(t, 9, got.LastTouch)
}

func TestEncodeDecodeRegister(t *testing.T) {
	c, err := NewCodec()
	require.NoError(t, err)

	raw, err := c.EncodeRegister("r0", []byte{9, 9, 9, 9}, 0x09090909)
	require.NoError(t, err)

	got, err := c.DecodeRegister(raw)
	require.NoError(t, err)
	assert.Equal(t, "r0", got.Name)
	assert.Equal(t, []byte{9, 9, 9, 9}, got.Bytes)
	assert.EqualValues(t, 0x09090909, got.Value)
}

func TestCodecRejectsShortBuffer(t *testing.T) {
	c, err := NewCodec()
	require.NoError(t, err)

	var d NodeDump
	err = c.Unmarshal([]byte{0x01}, &d)
	assert.Error(t, err)
}
