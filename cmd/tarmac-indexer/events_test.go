package main

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

func TestNDJSONParserDecodesEachEventKind(t *testing.T) {
	input := strings.Join([]string{
		`{"kind":"instruction","time":1,"pc":4096,"byte_pos":0,"byte_len":10,"first_line":1,"lines":1}`,
		`{"kind":"memory_access","time":2,"pc":4100,"byte_pos":10,"byte_len":12,"first_line":2,"lines":1,"access":{"kind":"write","addr":8192,"size":4,"bytes":"AQIDBA=="}}`,
		`{"kind":"register_write","time":3,"pc":4104,"byte_pos":22,"byte_len":8,"first_line":3,"lines":1,"register":{"reg":0,"bytes":"CQkJCQ=="}}`,
	}, "\n")

	p := newNDJSONParser(strings.NewReader(input))

	ev, err := p.Next()
	require.NoError(t, err)
	assert.Equal(t, tarmacio.EventInstruction, ev.Kind)
	assert.EqualValues(t, 4096, ev.PC)

	ev, err = p.Next()
	require.NoError(t, err)
	assert.Equal(t, tarmacio.EventMemoryAccess, ev.Kind)
	require.NotNil(t, ev.Access)
	assert.Equal(t, tarmacio.AccessWrite, ev.Access.Kind)
	assert.Equal(t, []byte{1, 2, 3, 4}, ev.Access.Bytes)

	ev, err = p.Next()
	require.NoError(t, err)
	assert.Equal(t, tarmacio.EventRegisterWrite, ev.Kind)
	require.NotNil(t, ev.Register)
	assert.EqualValues(t, 0, ev.Register.Reg)
	assert.Equal(t, []byte{9, 9, 9, 9}, ev.Register.Bytes)

	_, err = p.Next()
	assert.Equal(t, io.EOF, err)
}

func TestNDJSONParserRejectsUnknownKind(t *testing.T) {
	p := newNDJSONParser(strings.NewReader(`{"kind":"bogus"}`))
	_, err := p.Next()
	assert.Error(t, err)
}
