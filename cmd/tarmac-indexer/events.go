package main

import (
	"bufio"
	"encoding/json"
	"io"

	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

// jsonEvent is the newline-delimited JSON wire shape of one tarmacio.Event,
// the boundary format between the out-of-scope Tarmac text parser and this
// binary: something upstream turns raw trace text into one jsonEvent per
// line, and this binary never reads trace text itself.
type jsonEvent struct {
	Kind string `json:"kind"`

	Time uint64 `json:"time"`
	PC   uint64 `json:"pc"`

	BytePos uint64 `json:"byte_pos"`
	ByteLen uint64 `json:"byte_len"`

	FirstLine uint32 `json:"first_line"`
	Lines     uint32 `json:"lines"`

	Access      *jsonMemoryAccess      `json:"access,omitempty"`
	Register    *jsonRegisterWrite     `json:"register,omitempty"`
	Semihosting *jsonSemihostingRegion `json:"semihosting,omitempty"`
}

type jsonMemoryAccess struct {
	Kind  string `json:"kind"`
	Addr  uint64 `json:"addr"`
	Size  uint32 `json:"size"`
	Bytes []byte `json:"bytes,omitempty"`
}

type jsonRegisterWrite struct {
	Reg   uint32 `json:"reg"`
	Bytes []byte `json:"bytes"`
}

type jsonSemihostingRegion struct {
	Addr uint64 `json:"addr"`
	Size uint32 `json:"size"`
}

var eventKinds = map[string]tarmacio.EventKind{
	"instruction":        tarmacio.EventInstruction,
	"memory_access":      tarmacio.EventMemoryAccess,
	"register_write":     tarmacio.EventRegisterWrite,
	"exception":          tarmacio.EventException,
	"semihosting_region": tarmacio.EventSemihostingRegion,
}

var accessKinds = map[string]tarmacio.AccessKind{
	"read":  tarmacio.AccessRead,
	"write": tarmacio.AccessWrite,
}

// ndjsonParser implements tarmacio.Parser over a stream of jsonEvent lines.
type ndjsonParser struct {
	dec *json.Decoder
}

func newNDJSONParser(r io.Reader) *ndjsonParser {
	return &ndjsonParser{dec: json.NewDecoder(bufio.NewReader(r))}
}

func (p *ndjsonParser) Next() (tarmacio.Event, error) {
	var je jsonEvent
	if err := p.dec.Decode(&je); err != nil {
		if err == io.EOF {
			return tarmacio.Event{}, io.EOF
		}
		return tarmacio.Event{}, err
	}
	return je.toEvent()
}

func (je jsonEvent) toEvent() (tarmacio.Event, error) {
	kind, ok := eventKinds[je.Kind]
	if !ok {
		return tarmacio.Event{}, errUnknownEventKind(je.Kind)
	}
	ev := tarmacio.Event{
		Kind:      kind,
		Time:      je.Time,
		PC:        je.PC,
		BytePos:   je.BytePos,
		ByteLen:   je.ByteLen,
		FirstLine: je.FirstLine,
		Lines:     je.Lines,
		Exception: kind == tarmacio.EventException,
	}
	if je.Access != nil {
		ak, ok := accessKinds[je.Access.Kind]
		if !ok {
			return tarmacio.Event{}, errUnknownEventKind(je.Access.Kind)
		}
		ev.Access = &tarmacio.MemoryAccess{
			Kind:  ak,
			Addr:  je.Access.Addr,
			Size:  je.Access.Size,
			Bytes: je.Access.Bytes,
		}
	}
	if je.Register != nil {
		ev.Register = &tarmacio.RegisterWrite{
			Reg:   tarmacio.RegisterID(je.Register.Reg),
			Bytes: je.Register.Bytes,
		}
	}
	if je.Semihosting != nil {
		ev.Semihosting = &tarmacio.SemihostingRegion{
			Addr: je.Semihosting.Addr,
			Size: je.Semihosting.Size,
		}
	}
	return ev, nil
}

type errUnknownEventKind string

func (e errUnknownEventKind) Error() string { return "unknown event kind: " + string(e) }
