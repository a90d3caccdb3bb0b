// Package scope implements the parent-linked lexical scope tree used
// by the type checker to resolve identifiers and enforce the
// one-binding-per-name invariant.
package scope

import "github.com/devren-holt/lumenc/pkg/datatype"

// SymbolKind distinguishes how a name was bound.
type SymbolKind int

const (
	Variable SymbolKind = iota
	Constant
	Function
)

func (k SymbolKind) String() string {
	switch k {
	case Variable:
		return "variable"
	case Constant:
		return "constant"
	case Function:
		return "function"
	default:
		return "?"
	}
}

// SymbolInfo is the record stored for a bound name. ParamTypes is only
// populated for Function symbols.
type SymbolInfo struct {
	Name       string
	Kind       SymbolKind
	Type       datatype.DataType
	ParamTypes []datatype.DataType
}

// Scope is a single lexical level: a map of locally-bound names plus a
// link to the enclosing scope. The root (global) scope has a nil
// Parent.
type Scope struct {
	Parent  *Scope
	symbols map[string]*SymbolInfo
}

// New creates a scope parented to parent (nil for the global scope).
func New(parent *Scope) *Scope {
	return &Scope{Parent: parent, symbols: make(map[string]*SymbolInfo)}
}

// ExistsInCurrentScope reports whether name is bound directly in this
// scope, ignoring ancestors.
func (s *Scope) ExistsInCurrentScope(name string) bool {
	_, ok := s.symbols[name]
	return ok
}

// AddSymbol binds name to a Variable or Constant symbol in this scope.
// Callers must check ExistsInCurrentScope first; AddSymbol does not
// itself guard against redeclaration, matching the reference
// implementation where that check lives in the caller (the checker).
func (s *Scope) AddSymbol(name string, kind SymbolKind, t datatype.DataType) {
	s.symbols[name] = &SymbolInfo{Name: name, Kind: kind, Type: t}
}

// AddFunction binds name as a Function symbol with the given return
// type and ordered parameter types.
func (s *Scope) AddFunction(name string, retType datatype.DataType, paramTypes []datatype.DataType) {
	s.symbols[name] = &SymbolInfo{
		Name:       name,
		Kind:       Function,
		Type:       retType,
		ParamTypes: paramTypes,
	}
}

// Lookup resolves name in this scope, then its ancestors, returning
// nil if no scope in the chain binds it.
func (s *Scope) Lookup(name string) *SymbolInfo {
	if sym, ok := s.symbols[name]; ok {
		return sym
	}
	if s.Parent != nil {
		return s.Parent.Lookup(name)
	}
	return nil
}

// Symbols returns the names bound directly in this scope, for
// debug-dump use (the CLI's --dscope flag); it does not walk Parent.
func (s *Scope) Symbols() map[string]*SymbolInfo {
	return s.symbols
}
