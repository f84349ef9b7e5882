package asm

import (
	"cmp"
	"slices"

	"github.com/ezrec/umips/mem"
)

// Symbol is a label bound to an address.
type Symbol struct {
	Name    string
	Address uint32
	Segment mem.Kind
	Global  bool
	File    string
	Line    int
}

// SymbolTable holds per-file local symbols and the global symbols.
// A symbol's address never changes once defined.
type SymbolTable struct {
	local  map[string]map[string]*Symbol
	global map[string]*Symbol
}

// NewSymbolTable creates an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		local:  map[string]map[string]*Symbol{},
		global: map[string]*Symbol{},
	}
}

// Define adds a symbol to its file's scope, or to the global scope if
// sym.Global is set.
func (st *SymbolTable) Define(sym Symbol) (err error) {
	if sym.Global {
		if _, ok := st.global[sym.Name]; ok {
			err = ErrSymbolDuplicate(sym.Name)
			return
		}
		st.global[sym.Name] = &sym
		return
	}

	scope, ok := st.local[sym.File]
	if !ok {
		scope = map[string]*Symbol{}
		st.local[sym.File] = scope
	}
	if _, ok := scope[sym.Name]; ok {
		err = ErrSymbolDuplicate(sym.Name)
		return
	}
	scope[sym.Name] = &sym
	return
}

// Promote moves a local symbol of file into the global scope.
func (st *SymbolTable) Promote(file string, name string) (err error) {
	sym, ok := st.local[file][name]
	if !ok {
		err = ErrSymbolUndefined(name)
		return
	}
	if _, ok := st.global[name]; ok {
		err = ErrSymbolDuplicate(name)
		return
	}
	delete(st.local[file], name)
	sym.Global = true
	st.global[name] = sym
	return
}

// Lookup finds a symbol visible from file: local scope first, then global.
func (st *SymbolTable) Lookup(file string, name string) (sym Symbol, ok bool) {
	found, ok := st.local[file][name]
	if !ok {
		found, ok = st.global[name]
	}
	if ok {
		sym = *found
	}
	return
}

// Global finds a global symbol.
func (st *SymbolTable) Global(name string) (sym Symbol, ok bool) {
	found, ok := st.global[name]
	if ok {
		sym = *found
	}
	return
}

// Visible returns the symbols visible from file, by name.
func (st *SymbolTable) Visible(file string) map[string]uint32 {
	visible := make(map[string]uint32, len(st.global)+len(st.local[file]))
	for name, sym := range st.global {
		visible[name] = sym.Address
	}
	for name, sym := range st.local[file] {
		visible[name] = sym.Address
	}
	return visible
}

// All returns every symbol, ordered by address and then name.
func (st *SymbolTable) All() (symbols []Symbol) {
	for _, sym := range st.global {
		symbols = append(symbols, *sym)
	}
	for _, scope := range st.local {
		for _, sym := range scope {
			symbols = append(symbols, *sym)
		}
	}
	slices.SortFunc(symbols, func(a, b Symbol) int {
		return cmp.Or(cmp.Compare(a.Address, b.Address), cmp.Compare(a.Name, b.Name), cmp.Compare(a.File, b.File))
	})
	return
}
