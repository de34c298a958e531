package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/arvalid/tarmac-trace-utilities/tarmacio"
)

// jsonRegisterMap loads the register-file layout (an out-of-scope
// collaborator per spec: "register-file metadata (namespace mapping)")
// from a small JSON description, since this binary has no built-in
// knowledge of any particular architecture's register set.
type jsonRegisterMap struct {
	byID map[tarmacio.RegisterID]tarmacio.RegisterInfo
	all  []tarmacio.RegisterInfo
}

type jsonRegisterEntry struct {
	ID   uint32 `json:"id"`
	Name string `json:"name"`
	Addr uint64 `json:"addr"`
	Size uint32 `json:"size"`
}

func loadRegisterMap(path string) (*jsonRegisterMap, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []jsonRegisterEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, err
	}
	m := &jsonRegisterMap{byID: make(map[tarmacio.RegisterID]tarmacio.RegisterInfo, len(entries))}
	for _, e := range entries {
		info := tarmacio.RegisterInfo{ID: tarmacio.RegisterID(e.ID), Name: e.Name, Addr: e.Addr, Size: e.Size}
		m.byID[info.ID] = info
		m.all = append(m.all, info)
	}
	return m, nil
}

func (m *jsonRegisterMap) Lookup(id tarmacio.RegisterID) (tarmacio.RegisterInfo, bool) {
	info, ok := m.byID[id]
	return info, ok
}

func (m *jsonRegisterMap) All() []tarmacio.RegisterInfo { return m.all }

// noImage satisfies tarmacio.Image with no symbol knowledge at all, for
// runs with no image/symbol-table collaborator wired in: symbol
// annotations are unavailable and the call-depth heuristic degrades to
// PC-arithmetic only, as tarmacio.CallDepthHeuristic's doc comment
// describes.
type noImage struct{}

func (noImage) LookupSymbol(name string) (uint64, uint64, bool) { return 0, 0, false }
func (noImage) SymbolicAddress(addr uint64) string              { return fmt.Sprintf("0x%x", addr) }
func (noImage) LoadOffset() uint64                              { return 0 }
