package main

import "sort"

// SymbolKind classifies a symbol table entry.
type SymbolKind int

const (
	SymVariable SymbolKind = iota
	SymParameter
	SymFunction
	SymGetter
	SymSetter
)

func (k SymbolKind) String() string {
	switch k {
	case SymVariable:
		return "variable"
	case SymParameter:
		return "parameter"
	case SymFunction:
		return "function"
	case SymGetter:
		return "getter"
	case SymSetter:
		return "setter"
	}
	return "symbol"
}

// Symbol is the metadata stored per name.
type Symbol struct {
	Name      string
	Kind      SymbolKind
	Type      ValueType // declared or inferred; starts Unknown
	Arity     int       // functions/accessors only
	Defined   bool
	ScopePath string // dotted scope-path id of the defining scope
	Decl      *Stmt  // back-reference to the declaring node, when one exists

	// CodegenName is the flattened unique name assigned in Pass 2
	// (source name + dot-stripped scope path).
	CodegenName string
}

// SymbolTable maps names to symbols. Insert is insert-if-absent; iteration
// order is deterministic (sorted keys) so output depending on it is stable.
type SymbolTable struct {
	symbols map[string]*Symbol
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{symbols: make(map[string]*Symbol)}
}

// Insert adds sym under key unless the key is already present.
// Returns false when the key was taken.
func (t *SymbolTable) Insert(key string, sym *Symbol) bool {
	if _, ok := t.symbols[key]; ok {
		return false
	}
	t.symbols[key] = sym
	return true
}

// Lookup returns the symbol for key, or nil.
func (t *SymbolTable) Lookup(key string) *Symbol {
	return t.symbols[key]
}

func (t *SymbolTable) Len() int {
	return len(t.symbols)
}

// ForEach visits every entry in sorted key order.
func (t *SymbolTable) ForEach(fn func(key string, sym *Symbol)) {
	keys := make([]string, 0, len(t.symbols))
	for k := range t.symbols {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fn(k, t.symbols[k])
	}
}
