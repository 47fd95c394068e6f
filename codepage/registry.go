package codepage

import "fmt"

// DBCS930 is the CCSID this registry uses for Japan Katakana DBCS.
const DBCS930 = 930

// Registry is the process-wide, immutable set of codepages available to
// the protocol engine. Build once at process start with NewRegistry;
// every Codepage and DBCSCodepage it returns is safe for concurrent use
// by any number of sessions (DBCS per-stream state lives in
// TranslationSession, not here).
type Registry struct {
	singleByte map[int]*Codepage
	dbcs       map[int]*DBCSCodepage
}

// NewRegistry constructs the registry from the builtin tables, failing
// if any table is structurally invalid. There is no package-level
// init(): construction is explicit and can be repeated (e.g. in tests)
// without hidden shared state.
func NewRegistry() (*Registry, error) {
	r := &Registry{
		singleByte: make(map[int]*Codepage, len(builtinSingleByte)),
		dbcs:       make(map[int]*DBCSCodepage, 1),
	}
	for _, spec := range builtinSingleByte {
		table := spec.base
		if spec.overrides != nil {
			table = variantTable(spec.base, spec.overrides)
		}
		cp, err := NewSingleByte(spec.ccsid, table)
		if err != nil {
			return nil, err
		}
		r.singleByte[spec.ccsid] = cp
	}

	sbcsForDBCS, err := NewSingleByte(DBCS930, cp930SingleByteBase)
	if err != nil {
		return nil, err
	}
	r.dbcs[DBCS930] = NewDBCS(DBCS930, sbcsForDBCS, katakanaDBCS930)

	return r, nil
}

// Lookup returns the single-byte codepage for ccsid, if registered.
func (r *Registry) Lookup(ccsid int) (*Codepage, bool) {
	cp, ok := r.singleByte[ccsid]
	return cp, ok
}

// LookupDBCS returns the double-byte codepage for ccsid, if registered.
func (r *Registry) LookupDBCS(ccsid int) (*DBCSCodepage, bool) {
	cp, ok := r.dbcs[ccsid]
	return cp, ok
}

// MustLookup is Lookup for callers (typically tests and CLI wiring) that
// treat an unregistered CCSID as a programmer error.
func (r *Registry) MustLookup(ccsid int) *Codepage {
	cp, ok := r.Lookup(ccsid)
	if !ok {
		panic(fmt.Sprintf("codepage: ccsid %d not registered", ccsid))
	}
	return cp
}
