package semantic

import (
	"hello-module/internal/ast"
)

type SymbolKind int

const (
	SymbolParameter SymbolKind = iota
	SymbolVariable
)

type Symbol struct {
	Name     string
	Kind     SymbolKind
	Type     Type
	Position ast.Position
	Used     bool
}

type SymbolTable struct {
	symbols map[string]*Symbol
	order   []*Symbol
	parent  *SymbolTable
}

func NewSymbolTable(parent *SymbolTable) *SymbolTable {
	return &SymbolTable{
		symbols: make(map[string]*Symbol),
		parent:  parent,
	}
}

func (st *SymbolTable) Define(name string, kind SymbolKind, typ Type, pos ast.Position) *Symbol {
	symbol := &Symbol{
		Name:     name,
		Kind:     kind,
		Type:     typ,
		Position: pos,
	}
	st.symbols[name] = symbol
	st.order = append(st.order, symbol)
	return symbol
}

func (st *SymbolTable) Lookup(name string) *Symbol {
	if symbol, exists := st.symbols[name]; exists {
		return symbol
	}
	if st.parent != nil {
		return st.parent.Lookup(name)
	}
	return nil
}

func (st *SymbolTable) LookupLocal(name string) *Symbol {
	return st.symbols[name]
}

// Names lists every name visible from this scope, innermost first.
func (st *SymbolTable) Names() []string {
	var names []string
	for s := st; s != nil; s = s.parent {
		for _, sym := range s.order {
			names = append(names, sym.Name)
		}
	}
	return names
}
