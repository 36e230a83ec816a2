// Package semantic builds a scope and symbol model on top of the syntax
// arena. The model answers the questions binding analysis asks: which node
// declared a symbol, which scope owns it, whether it has read references,
// and whether the module exports it. Like the arena it is built once per
// file and consumed read-only.
package semantic

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/panbanda/vestige/pkg/syntax"
)

// ScopeID addresses a scope within its Model.
type ScopeID int32

// SymbolID addresses a symbol within its Model.
type SymbolID int32

const (
	// NoScope is the null scope id.
	NoScope ScopeID = -1
	// NoSymbol is the null symbol id.
	NoSymbol SymbolID = -1
)

// ScopeKind classifies what introduced a scope.
type ScopeKind uint8

const (
	// ScopeRoot is the top-level scope of a file.
	ScopeRoot ScopeKind = iota
	// ScopeModule is a namespace or declared-module body.
	ScopeModule
	// ScopeFunction covers functions, arrows, and method bodies.
	ScopeFunction
	// ScopeClass is a class body, holding type parameters and the inner
	// binding of a named class expression.
	ScopeClass
	// ScopeBlock covers statement blocks, loop heads, switch bodies, and
	// catch clauses.
	ScopeBlock
	// ScopeEnum is an enum body.
	ScopeEnum
	// ScopeType holds type parameters of interfaces and type aliases.
	ScopeType
)

var scopeKindNames = [...]string{
	ScopeRoot:     "root",
	ScopeModule:   "module",
	ScopeFunction: "function",
	ScopeClass:    "class",
	ScopeBlock:    "block",
	ScopeEnum:     "enum",
	ScopeType:     "type",
}

func (k ScopeKind) String() string {
	if int(k) < len(scopeKindNames) {
		return scopeKindNames[k]
	}
	return "unknown"
}

// Scope is one lexical scope. Node is the arena node that introduced it.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID
	Node   syntax.NodeID
}

// Symbol is one declared binding. Decl is the declaring construct (a
// variable declarator, formal parameter, function, and so on) and Binding
// is the binding identifier itself, which carries the reported span.
type Symbol struct {
	Name    string
	Decl    syntax.NodeID
	Binding syntax.NodeID
	Scope   ScopeID
}

// RefFlags describes how a reference touches its symbol.
type RefFlags uint8

const (
	// RefRead marks a value read.
	RefRead RefFlags = 1 << iota
	// RefWrite marks an assignment.
	RefWrite
	// RefType marks a use from type position.
	RefType
)

// IsRead reports whether the reference reads its symbol.
func (f RefFlags) IsRead() bool { return f&RefRead != 0 }

// IsWrite reports whether the reference writes its symbol.
func (f RefFlags) IsWrite() bool { return f&RefWrite != 0 }

// Reference is one resolved use of a symbol.
type Reference struct {
	Symbol SymbolID
	Node   syntax.NodeID
	Flags  RefFlags
}

// Model is the semantic view of one parsed file.
type Model struct {
	Tree   *syntax.Tree
	Source []byte
	Path   string
	Module *ModuleRecord

	scopes     []Scope
	names      []map[string]SymbolID
	symbols    []Symbol
	refs       []Reference
	symbolRefs [][]int32
	bindings   map[syntax.NodeID]SymbolID
	reads      *roaring.Bitmap
	exported   *roaring.Bitmap
	root       ScopeID
}

// NumSymbols returns the number of declared symbols.
func (m *Model) NumSymbols() int { return len(m.symbols) }

// NumScopes returns the number of scopes.
func (m *Model) NumScopes() int { return len(m.scopes) }

// Symbol resolves a symbol id.
func (m *Model) Symbol(id SymbolID) *Symbol { return &m.symbols[id] }

// NameOf returns the declared name of a symbol.
func (m *Model) NameOf(id SymbolID) string { return m.symbols[id].Name }

// DeclarationOf returns the arena node that declared the symbol.
func (m *Model) DeclarationOf(id SymbolID) syntax.NodeID { return m.symbols[id].Decl }

// BindingOf returns the binding identifier node of the symbol.
func (m *Model) BindingOf(id SymbolID) syntax.NodeID { return m.symbols[id].Binding }

// ScopeOf returns the scope the symbol is declared in.
func (m *Model) ScopeOf(id SymbolID) ScopeID { return m.symbols[id].Scope }

// RootScope returns the top-level scope of the file.
func (m *Model) RootScope() ScopeID { return m.root }

// IsRootSymbol reports whether the symbol is declared directly in the
// top-level scope.
func (m *Model) IsRootSymbol(id SymbolID) bool { return m.symbols[id].Scope == m.root }

// Scope resolves a scope id.
func (m *Model) Scope(id ScopeID) *Scope { return &m.scopes[id] }

// ScopeParent returns the parent of a scope, or NoScope at the root.
func (m *Model) ScopeParent(id ScopeID) ScopeID { return m.scopes[id].Parent }

// ScopeNode returns the arena node that introduced the scope.
func (m *Model) ScopeNode(id ScopeID) syntax.NodeID { return m.scopes[id].Node }

// ScopeAncestors iterates a scope chain starting at id itself and ending at
// the root scope.
func (m *Model) ScopeAncestors(id ScopeID) ScopeIter {
	return ScopeIter{m: m, cur: id}
}

// ScopeIter walks scope parent links toward the root.
type ScopeIter struct {
	m   *Model
	cur ScopeID
}

// Next yields the next scope id, or false when the chain is exhausted.
func (it *ScopeIter) Next() (ScopeID, bool) {
	if it.cur == NoScope {
		return NoScope, false
	}
	id := it.cur
	it.cur = it.m.scopes[id].Parent
	return id, true
}

// HasReads reports whether the symbol has at least one read reference.
// Writes alone do not count; a variable that is only assigned is unused.
func (m *Model) HasReads(id SymbolID) bool {
	return m.reads.Contains(uint32(id))
}

// IsExported reports whether the symbol is exported, either from the file
// or from the enclosing namespace body.
func (m *Model) IsExported(id SymbolID) bool {
	return m.exported.Contains(uint32(id))
}

// ReferencesOf returns the resolved references of a symbol in source order.
func (m *Model) ReferencesOf(id SymbolID) []Reference {
	idxs := m.symbolRefs[id]
	if len(idxs) == 0 {
		return nil
	}
	out := make([]Reference, len(idxs))
	for i, ri := range idxs {
		out[i] = m.refs[ri]
	}
	return out
}

// SymbolAtBinding resolves the symbol declared by a binding identifier
// node, if any.
func (m *Model) SymbolAtBinding(node syntax.NodeID) (SymbolID, bool) {
	id, ok := m.bindings[node]
	return id, ok
}

// Lookup resolves a name lexically, walking the scope chain from the given
// scope to the root.
func (m *Model) Lookup(scope ScopeID, name string) (SymbolID, bool) {
	for s := scope; s != NoScope; s = m.scopes[s].Parent {
		if id, ok := m.names[s][name]; ok {
			return id, true
		}
	}
	return NoSymbol, false
}

// SymbolByName returns the first symbol declared with the given name, in
// declaration order. Intended for tests and diagnostics.
func (m *Model) SymbolByName(name string) (SymbolID, bool) {
	for i := range m.symbols {
		if m.symbols[i].Name == name {
			return SymbolID(i), true
		}
	}
	return NoSymbol, false
}
