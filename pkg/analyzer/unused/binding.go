package unused

import (
	"regexp"

	"github.com/panbanda/vestige/pkg/semantic"
	"github.com/panbanda/vestige/pkg/syntax"
)

// evaluator applies the reporting rules to one file's semantic model. It
// only reads the model; a single evaluator may be discarded after use.
type evaluator struct {
	model *semantic.Model
	opts  Options
}

// usedSymbol reports whether a binding counts as used: it has at least one
// read reference or it is exported from the module.
func (e *evaluator) usedSymbol(sym semantic.SymbolID) bool {
	return e.model.HasReads(sym) || e.model.IsExported(sym)
}

// isIgnored applies the name-based ignore patterns. Catch parameters,
// formal parameters, and everything else each consult their own pattern;
// array-destructured bindings additionally consult the destructured array
// pattern regardless of category.
func (e *evaluator) isIgnored(sym semantic.SymbolID) bool {
	name := e.model.NameOf(sym)
	switch e.model.Tree.Kind(e.model.DeclarationOf(sym)) {
	case syntax.KindCatchClause:
		if matches(e.opts.CaughtErrorsIgnorePattern, name) {
			return true
		}
	case syntax.KindFormalParameter, syntax.KindRestElement:
		if matches(e.opts.ArgsIgnorePattern, name) {
			return true
		}
	default:
		if matches(e.opts.VarsIgnorePattern, name) {
			return true
		}
	}
	if e.opts.IgnoreRestSiblings && e.hasRestSibling(sym) {
		return true
	}
	return e.opts.DestructuredArrayIgnorePattern != nil &&
		e.isArrayDestructured(sym) &&
		e.opts.DestructuredArrayIgnorePattern.MatchString(name)
}

// hasRestSibling reports whether the binding is destructured alongside a
// rest element in the same object pattern. The rest element already
// excludes the named keys, so those bindings exist to shape it.
func (e *evaluator) hasRestSibling(sym semantic.SymbolID) bool {
	t := e.model.Tree
	id := e.model.BindingOf(sym)
	for {
		parent := t.Parent(id)
		switch t.Kind(parent) {
		case syntax.KindPairPattern, syntax.KindAssignmentPattern:
			id = parent
		case syntax.KindObjectPattern:
			return t.HasChildOfKind(parent, syntax.KindRestElement)
		default:
			return false
		}
	}
}

func matches(re *regexp.Regexp, name string) bool {
	return re != nil && re.MatchString(name)
}

// isArrayDestructured reports whether the symbol's binding identifier sits
// inside an array destructuring pattern, at any nesting depth within the
// pattern.
func (e *evaluator) isArrayDestructured(sym semantic.SymbolID) bool {
	t := e.model.Tree
	it := t.Ancestors(e.model.BindingOf(sym))
	for id, ok := it.Next(); ok; id, ok = it.Next() {
		switch t.Kind(id) {
		case syntax.KindArrayPattern:
			return true
		case syntax.KindObjectPattern, syntax.KindPairPattern,
			syntax.KindAssignmentPattern, syntax.KindRestElement:
			// still inside the pattern, keep climbing
		default:
			return false
		}
	}
	return false
}

// hasAnyUsedBinding reports whether the pattern rooted at node introduces
// at least one used name. Names excluded by ignoreRestSiblings or the
// destructured array pattern do not count: a parameter whose only used
// bindings are ignored should not shield earlier parameters from being
// reported.
func (e *evaluator) hasAnyUsedBinding(node syntax.NodeID) bool {
	t := e.model.Tree
	switch t.Kind(node) {
	case syntax.KindBindingIdentifier:
		sym, ok := e.model.SymbolAtBinding(node)
		return ok && e.usedSymbol(sym)
	case syntax.KindObjectPattern:
		if e.opts.IgnoreRestSiblings {
			if rest := t.ChildOfKind(node, syntax.KindRestElement); rest != syntax.NoNode {
				// the rest element absorbs the remaining properties, so
				// only its own binding can count
				return e.hasAnyUsedBinding(rest)
			}
		}
		return e.anyChildUsed(node)
	case syntax.KindArrayPattern:
		for _, el := range t.Children(node) {
			if e.arrayElementIgnored(el) {
				continue
			}
			if e.hasAnyUsedBinding(el) {
				return true
			}
		}
		return false
	case syntax.KindAssignmentPattern, syntax.KindPairPattern, syntax.KindRestElement:
		return e.anyChildUsed(node)
	default:
		return false
	}
}

func (e *evaluator) anyChildUsed(node syntax.NodeID) bool {
	for _, c := range e.model.Tree.Children(node) {
		if e.hasAnyUsedBinding(c) {
			return true
		}
	}
	return false
}

// arrayElementIgnored reports whether a direct array pattern element is a
// plain identifier, possibly with a default, matching the destructured
// array ignore pattern.
func (e *evaluator) arrayElementIgnored(el syntax.NodeID) bool {
	re := e.opts.DestructuredArrayIgnorePattern
	if re == nil {
		return false
	}
	t := e.model.Tree
	ident := el
	if t.Kind(el) == syntax.KindAssignmentPattern {
		ident = t.FirstChild(el)
	}
	if t.Kind(ident) != syntax.KindBindingIdentifier {
		return false
	}
	sym, ok := e.model.SymbolAtBinding(ident)
	return ok && re.MatchString(e.model.NameOf(sym))
}

// paramHasUsedBinding probes the binding portion of a formal parameter.
// Type annotations and default values lower to reference shadows, which
// the probe treats as unused, so scanning every child is safe.
func (e *evaluator) paramHasUsedBinding(param syntax.NodeID) bool {
	return e.anyChildUsed(param)
}
