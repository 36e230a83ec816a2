package unused

import (
	"github.com/panbanda/vestige/internal/assert"
	"github.com/panbanda/vestige/pkg/semantic"
	"github.com/panbanda/vestige/pkg/syntax"
)

// This file decides whether an unused binding is allowed because of where
// it is declared. Name-based ignore patterns are handled separately in
// binding.go.

// isUsedAsExpression reports whether a named function or class node is in
// expression position. An expression's name only self-binds, so the value
// is necessarily consumed by whatever contains it.
func (e *evaluator) isUsedAsExpression(decl syntax.NodeID) bool {
	return e.model.Tree.Flags(decl).Has(syntax.FlagExpression)
}

// isDeclaredInValueLoop reports whether the declarator is the iteration
// variable of a for-in or for-of loop whose body immediately returns.
// Removing such a binding breaks the loop syntax, so it is exempt.
func (e *evaluator) isDeclaredInValueLoop(decl syntax.NodeID) bool {
	t := e.model.Tree
	it := t.Ancestors(decl)
	for id, ok := it.Next(); ok; id, ok = it.Next() {
		switch t.Kind(id) {
		case syntax.KindParenthesizedExpression,
			syntax.KindVariableDeclaration,
			syntax.KindBindingIdentifier,
			syntax.KindAssignmentTarget:
			// wrappers between the declarator and the loop head
		case syntax.KindForInStatement, syntax.KindForOfStatement:
			return e.loopBodyOnlyReturns(id)
		default:
			return false
		}
	}
	return false
}

// loopBodyOnlyReturns accepts a bare return body or a block whose first
// statement is a return. Loop statements append their body last.
func (e *evaluator) loopBodyOnlyReturns(loop syntax.NodeID) bool {
	t := e.model.Tree
	body := t.LastChild(loop)
	switch t.Kind(body) {
	case syntax.KindReturnStatement:
		return true
	case syntax.KindBlockStatement:
		return t.Kind(t.FirstChild(body)) == syntax.KindReturnStatement
	default:
		return false
	}
}

// isAmbientModule reports a `declare module`, `declare namespace`, or
// `declare global` block.
func (e *evaluator) isAmbientModule(node syntax.NodeID) bool {
	f := e.model.Tree.Flags(node)
	return f.Has(syntax.FlagDeclare) || f.Has(syntax.FlagGlobal)
}

// isInDeclaredModule reports whether any scope enclosing the symbol,
// including its own, was introduced by an ambient module declaration.
// Bindings there describe external code and have no local usages.
func (e *evaluator) isInDeclaredModule(sym semantic.SymbolID) bool {
	t := e.model.Tree
	it := e.model.ScopeAncestors(e.model.ScopeOf(sym))
	for id, ok := it.Next(); ok; id, ok = it.Next() {
		node := e.model.ScopeNode(id)
		if node != syntax.NoNode && t.Kind(node) == syntax.KindModuleDeclaration && e.isAmbientModule(node) {
			return true
		}
	}
	return false
}

// isAllowedNamespace exempts ambient namespaces and namespaces nested in
// an ambient module.
func (e *evaluator) isAllowedNamespace(sym semantic.SymbolID, decl syntax.NodeID) bool {
	if e.isAmbientModule(decl) {
		return true
	}
	return e.isInDeclaredModule(sym)
}

// isAllowedVariable exempts root-scope `var` declarations under local mode
// and the iteration variables of return-only loops.
func (e *evaluator) isAllowedVariable(sym semantic.SymbolID, decl syntax.NodeID) bool {
	if e.model.Tree.Flags(decl).Has(syntax.FlagVarKind) &&
		e.opts.Vars == VarsLocal && e.model.IsRootSymbol(sym) {
		return true
	}
	return e.isDeclaredInValueLoop(decl)
}

// isAllowedTypeParameter exempts the key of a mapped type, which is
// structurally required even when unreferenced.
func (e *evaluator) isAllowedTypeParameter(decl syntax.NodeID) bool {
	t := e.model.Tree
	return t.Kind(t.Parent(decl)) == syntax.KindMappedType
}

// isAllowedParameter decides whether an unused formal parameter is exempt.
// Signature positions are exempt outright; otherwise after-used mode
// exempts positional parameters followed by a used or modifier-bearing one.
func (e *evaluator) isAllowedParameter(sym semantic.SymbolID, param syntax.NodeID) bool {
	if e.opts.Args == ArgsNone {
		return true
	}

	t := e.model.Tree
	list := e.parameterList(param)
	if list == syntax.NoNode {
		assert.Failf("formal parameter %q has no enclosing parameter list", e.model.NameOf(sym))
		return false
	}

	if e.isSignatureOnlyParameter(list, param) {
		return true
	}

	if e.opts.Args == ArgsAll {
		return false
	}

	// after-used: a destructured parameter never earns a positional pass
	if t.Flags(param).Has(syntax.FlagDestructured) {
		return false
	}

	items := e.positionalParameters(list)
	pos := -1
	for i, p := range items {
		if p == param {
			pos = i
			break
		}
	}
	if !assert.Truef(pos >= 0, "parameter %q missing from its own list", e.model.NameOf(sym)) {
		return false
	}
	if pos == len(items)-1 {
		return false
	}
	for _, later := range items[pos+1:] {
		if t.Flags(later).Has(syntax.FlagModifier) || e.paramHasUsedBinding(later) {
			return true
		}
	}
	return false
}

// parameterList resolves the list node a formal parameter belongs to. It
// should be the direct parent, but walking is safer.
func (e *evaluator) parameterList(param syntax.NodeID) syntax.NodeID {
	t := e.model.Tree
	it := t.Ancestors(param)
	for id, ok := it.Next(); ok; id, ok = it.Next() {
		if t.Kind(id) == syntax.KindFormalParameterList {
			return id
		}
	}
	return syntax.NoNode
}

// positionalParameters lists declared parameters in order. Rest elements
// are not positional and are excluded.
func (e *evaluator) positionalParameters(list syntax.NodeID) []syntax.NodeID {
	t := e.model.Tree
	var items []syntax.NodeID
	for _, c := range t.Children(list) {
		if t.Kind(c) == syntax.KindFormalParameter {
			items = append(items, c)
		}
	}
	return items
}

// isSignatureOnlyParameter reports parameter positions that exist to
// satisfy a signature rather than to be read: setter parameters, overloads
// and declared functions, overridden and abstract methods, and constructor
// property parameters.
func (e *evaluator) isSignatureOnlyParameter(list, param syntax.NodeID) bool {
	t := e.model.Tree
	it := t.Ancestors(list)

	// the parent immediately above a parameter list is its function
	fn, ok := it.Next()
	if !ok {
		return false
	}
	if t.Kind(fn) == syntax.KindFunction && t.Flags(fn).Has(syntax.FlagDeclareFunction) {
		return true
	}

	owner, ok := it.Next()
	if !ok {
		return false
	}
	switch t.Kind(owner) {
	case syntax.KindMethodDefinition:
		m := t.Node(owner)
		switch {
		// setter parameters are syntactically required
		case m.Method == syntax.MethodKindSet:
			return true
		// method overloads and overrides
		case m.Flags.Has(syntax.FlagNoBody) || m.Flags.Has(syntax.FlagOverride):
			return true
		// constructor properties declare class members
		case m.Method == syntax.MethodKindConstructor:
			return t.Flags(param).Has(syntax.FlagModifier)
		// abstract methods establish an API contract for subclasses
		case m.Flags.Has(syntax.FlagAbstract):
			return true
		default:
			return false
		}
	case syntax.KindObjectProperty:
		return t.Node(owner).Method == syntax.MethodKindSet
	case syntax.KindFunction:
		// function overloads and declared functions
		f := t.Flags(owner)
		return f.Has(syntax.FlagNoBody) || f.Has(syntax.FlagDeclareFunction)
	default:
		return false
	}
}

// isAllowedRestParameter exempts rest parameters of functions that are
// type-only: declared functions, overloads, and ambient declarations.
func (e *evaluator) isAllowedRestParameter(decl syntax.NodeID) bool {
	t := e.model.Tree
	it := t.Ancestors(decl)
	for id, ok := it.Next(); ok; id, ok = it.Next() {
		if t.Kind(id) != syntax.KindFunction {
			continue
		}
		f := t.Flags(id)
		return f.Has(syntax.FlagDeclareFunction) || f.Has(syntax.FlagNoBody) || f.Has(syntax.FlagDeclare)
	}
	return false
}
