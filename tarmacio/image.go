package tarmacio

// Image is the indexer's view of the binary being traced: a symbol table
// plus the offset between where the loader actually placed the image and
// where its own file-relative addresses say it should be.
type Image interface {
	// LookupSymbol resolves a symbol by name to its loaded address and
	// size, or ok=false if no such symbol is known.
	LookupSymbol(name string) (addr uint64, size uint64, ok bool)

	// SymbolicAddress renders addr as "symbol+offset" if it falls within
	// a known symbol, or a bare hex address otherwise.
	SymbolicAddress(addr uint64) string

	// LoadOffset is (loaded address) - (address in the image file),
	// applied by the parser collaborator to every address it reports
	// from the trace before the core ever sees it.
	LoadOffset() uint64
}
