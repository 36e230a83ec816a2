package unused

import (
	"sort"

	"github.com/panbanda/vestige/pkg/semantic"
	"github.com/panbanda/vestige/pkg/syntax"
)

// evaluate walks every symbol in the model and collects a finding for each
// binding that is unused and not excused by any exemption.
func (e *evaluator) evaluate() []Finding {
	t := e.model.Tree
	var findings []Finding

	for i := range e.model.NumSymbols() {
		sym := semantic.SymbolID(i)
		if e.usedSymbol(sym) || e.isIgnored(sym) {
			continue
		}
		decl := e.model.DeclarationOf(sym)
		// ambient declarations describe code that lives elsewhere
		if t.Flags(decl).Has(syntax.FlagDeclare) || e.isInDeclaredModule(sym) {
			continue
		}

		var allowed bool
		var kind BindingKind
		switch t.Kind(decl) {
		case syntax.KindVariableDeclarator:
			allowed = e.isAllowedVariable(sym, decl)
			kind = KindVariable
		case syntax.KindFormalParameter:
			allowed = e.isAllowedParameter(sym, decl)
			kind = KindParameter
		case syntax.KindRestElement:
			allowed = e.isAllowedRestParameter(decl)
			kind = KindParameter
		case syntax.KindFunction, syntax.KindArrowFunction:
			allowed = e.isUsedAsExpression(decl)
			kind = KindFunction
		case syntax.KindClass:
			allowed = e.isUsedAsExpression(decl)
			kind = KindClass
		case syntax.KindModuleDeclaration:
			allowed = e.isAllowedNamespace(sym, decl)
			kind = KindNamespace
		case syntax.KindTypeParameter:
			allowed = e.isAllowedTypeParameter(decl)
			kind = KindTypeParameter
		case syntax.KindCatchClause:
			allowed = e.opts.CaughtErrors == CaughtNone
			kind = KindCatchParam
		case syntax.KindImportSpecifier, syntax.KindImportDeclaration:
			kind = KindImport
		case syntax.KindEnumDeclaration:
			kind = KindEnum
		case syntax.KindInterfaceDeclaration:
			kind = KindInterface
		case syntax.KindTypeAliasDeclaration:
			kind = KindTypeAlias
		default:
			// unrecognized declaration forms are reported, not excused
			kind = KindVariable
		}
		if allowed {
			continue
		}
		findings = append(findings, e.finding(sym, kind))
	}

	sort.Slice(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		if a.Column != b.Column {
			return a.Column < b.Column
		}
		return a.Name < b.Name
	})
	return findings
}

// finding builds the report record for one symbol, converting the binding
// span to one-based positions.
func (e *evaluator) finding(sym semantic.SymbolID, kind BindingKind) Finding {
	sp := e.model.Tree.Node(e.model.BindingOf(sym)).Span
	return Finding{
		File:      e.model.Path,
		Name:      e.model.NameOf(sym),
		Kind:      kind,
		Line:      int(sp.StartLine) + 1,
		Column:    int(sp.StartCol) + 1,
		EndLine:   int(sp.EndLine) + 1,
		EndColumn: int(sp.EndCol) + 1,
	}
}
