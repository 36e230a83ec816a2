package semantic

import (
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/panbanda/vestige/pkg/parser"
	"github.com/panbanda/vestige/pkg/syntax"
)

// Build lowers a parsed file into the arena and derives its semantic model.
// Scopes and symbols are collected in a single walk; references are
// resolved afterwards against the complete symbol tables, so hoisted and
// use-before-declaration references land on the right symbol.
func Build(res *parser.ParseResult) (*Model, error) {
	if res == nil || res.Tree == nil {
		return nil, fmt.Errorf("semantic: no parse tree")
	}
	root := res.Tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("semantic: no root node for %s", res.Path)
	}

	b := &builder{
		tree:     syntax.NewTree(len(res.Source) / 8),
		src:      res.Source,
		bindings: make(map[syntax.NodeID]SymbolID),
		reads:    roaring.New(),
		exported: roaring.New(),
		module:   NewModuleRecord(),
	}

	prog := b.shadow(syntax.KindProgram, root, syntax.NoNode)
	b.root = b.addScope(ScopeRoot, NoScope, prog)
	b.walkNamedChildren(root, prog, walkCtx{scope: b.root, varScope: b.root, mode: RefRead})
	b.finish()

	return &Model{
		Tree:       b.tree,
		Source:     res.Source,
		Path:       res.Path,
		Module:     b.module,
		scopes:     b.scopes,
		names:      b.names,
		symbols:    b.symbols,
		refs:       b.refs,
		symbolRefs: b.symbolRefs,
		bindings:   b.bindings,
		reads:      b.reads,
		exported:   b.exported,
		root:       b.root,
	}, nil
}

// walkCtx carries the lexical position of the walk. mode is the reference
// flag an identifier in value position receives; it propagates only
// through assignment targets and pattern wrappers, everything else resets
// it to a plain read.
type walkCtx struct {
	scope    ScopeID
	varScope ScopeID
	mode     RefFlags
}

type pendingRef struct {
	scope ScopeID
	name  string
	node  syntax.NodeID
	flags RefFlags
}

type pendingExport struct {
	scope ScopeID
	name  string
}

type builder struct {
	tree *syntax.Tree
	src  []byte

	scopes     []Scope
	names      []map[string]SymbolID
	symbols    []Symbol
	refs       []Reference
	symbolRefs [][]int32
	bindings   map[syntax.NodeID]SymbolID
	reads      *roaring.Bitmap
	exported   *roaring.Bitmap
	module     *ModuleRecord
	root       ScopeID

	pendingRefs    []pendingRef
	pendingExports []pendingExport
}

func spanOf(n *sitter.Node) syntax.Span {
	sp, ep := n.StartPoint(), n.EndPoint()
	return syntax.Span{
		StartByte: n.StartByte(),
		EndByte:   n.EndByte(),
		StartLine: sp.Row,
		StartCol:  sp.Column,
		EndLine:   ep.Row,
		EndCol:    ep.Column,
	}
}

func (b *builder) text(n *sitter.Node) string {
	return parser.GetNodeText(n, b.src)
}

// hasToken reports whether n has a direct anonymous child with the given
// token text, such as the "declare", "global", or "type" keywords.
func hasToken(n *sitter.Node, token string) bool {
	for i := range int(n.ChildCount()) {
		c := n.Child(i)
		if !c.IsNamed() && c.Type() == token {
			return true
		}
	}
	return false
}

// ambientParent reports whether n sits directly under a `declare` wrapper.
func ambientParent(n *sitter.Node) bool {
	p := n.Parent()
	return p != nil && p.Type() == "ambient_declaration"
}

// sameNode compares nodes by extent, which identifies a node uniquely
// within one tree.
func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte()
}

func (b *builder) shadow(kind syntax.NodeKind, n *sitter.Node, parent syntax.NodeID) syntax.NodeID {
	return b.tree.Append(kind, parent, spanOf(n))
}

func (b *builder) addScope(kind ScopeKind, parent ScopeID, node syntax.NodeID) ScopeID {
	id := ScopeID(len(b.scopes))
	b.scopes = append(b.scopes, Scope{Kind: kind, Parent: parent, Node: node})
	b.names = append(b.names, make(map[string]SymbolID))
	return id
}

// declare binds name in scope. Redeclarations in the same scope, such as
// repeated `var` statements or overload signatures, merge into the first
// symbol and keep its declaration node.
func (b *builder) declare(scope ScopeID, name string, decl, binding syntax.NodeID) SymbolID {
	if name == "" {
		return NoSymbol
	}
	if existing, ok := b.names[scope][name]; ok {
		b.bindings[binding] = existing
		return existing
	}
	id := SymbolID(len(b.symbols))
	b.symbols = append(b.symbols, Symbol{Name: name, Decl: decl, Binding: binding, Scope: scope})
	b.symbolRefs = append(b.symbolRefs, nil)
	b.names[scope][name] = id
	b.bindings[binding] = id
	return id
}

// bindIdent creates a binding identifier shadow for n and declares it.
func (b *builder) bindIdent(n *sitter.Node, parent, decl syntax.NodeID, scope ScopeID) SymbolID {
	id := b.shadow(syntax.KindBindingIdentifier, n, parent)
	return b.declare(scope, b.text(n), decl, id)
}

// ref records an unresolved identifier reference for later resolution.
func (b *builder) ref(n *sitter.Node, parent syntax.NodeID, scope ScopeID, flags RefFlags) {
	id := b.shadow(syntax.KindIdentifierReference, n, parent)
	b.pendingRefs = append(b.pendingRefs, pendingRef{scope: scope, name: b.text(n), node: id, flags: flags})
}

func (b *builder) walkNamedChildren(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	ctx.mode = RefRead
	for i := range int(n.NamedChildCount()) {
		b.walk(n.NamedChild(i), parent, ctx)
	}
}

func (b *builder) walkField(n *sitter.Node, field string, parent syntax.NodeID, ctx walkCtx) {
	if c := n.ChildByFieldName(field); c != nil {
		b.walk(c, parent, ctx)
	}
}

func (b *builder) walk(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	switch n.Type() {
	case "comment":
		return

	case "variable_declaration", "lexical_declaration":
		b.buildVariableDeclaration(n, parent, ctx)

	case "function_declaration", "generator_function_declaration", "function_signature":
		b.buildFunction(n, parent, ctx, false)
	case "function", "function_expression", "generator_function", "generator_function_expression":
		b.buildFunction(n, parent, ctx, true)
	case "arrow_function":
		b.buildArrowFunction(n, parent, ctx)

	case "class_declaration", "abstract_class_declaration":
		b.buildClass(n, parent, ctx, false)
	case "class":
		b.buildClass(n, parent, ctx, true)
	case "method_definition", "method_signature", "abstract_method_signature":
		b.buildMethod(n, parent, ctx)

	case "statement_block":
		id := b.shadow(syntax.KindBlockStatement, n, parent)
		inner := ctx
		inner.scope = b.addScope(ScopeBlock, ctx.scope, id)
		b.walkNamedChildren(n, id, inner)
	case "switch_body":
		id := b.shadow(syntax.KindOther, n, parent)
		inner := ctx
		inner.scope = b.addScope(ScopeBlock, ctx.scope, id)
		b.walkNamedChildren(n, id, inner)
	case "for_statement":
		id := b.shadow(syntax.KindOther, n, parent)
		inner := ctx
		inner.scope = b.addScope(ScopeBlock, ctx.scope, id)
		b.walkNamedChildren(n, id, inner)
	case "for_in_statement":
		b.buildForIn(n, parent, ctx)

	case "catch_clause":
		b.buildCatch(n, parent, ctx)

	case "import_statement":
		b.buildImport(n, parent, ctx)
	case "export_statement":
		b.buildExport(n, parent, ctx)

	case "internal_module", "module":
		b.buildModuleDeclaration(n, parent, ctx)
	case "ambient_declaration":
		b.buildAmbient(n, parent, ctx)

	case "enum_declaration":
		b.buildEnum(n, parent, ctx)
	case "interface_declaration":
		b.buildInterface(n, parent, ctx)
	case "type_alias_declaration":
		b.buildTypeAlias(n, parent, ctx)

	case "type_annotation", "type_arguments", "implements_clause", "extends_type_clause":
		id := b.shadow(syntax.KindOther, n, parent)
		for i := range int(n.NamedChildCount()) {
			b.walkType(n.NamedChild(i), id, ctx.scope)
		}
	case "type_parameters":
		b.buildTypeParameters(n, parent, ctx.scope)
	case "as_expression":
		// first operand is a value, the rest is type position
		id := b.shadow(syntax.KindOther, n, parent)
		for i := range int(n.NamedChildCount()) {
			c := n.NamedChild(i)
			if i == 0 {
				b.walk(c, id, ctx)
			} else {
				b.walkType(c, id, ctx.scope)
			}
		}

	case "assignment_expression":
		id := b.shadow(syntax.KindOther, n, parent)
		left := ctx
		left.mode = RefWrite
		b.walkField(n, "left", id, left)
		b.walkField(n, "right", id, ctx)
	case "augmented_assignment_expression":
		id := b.shadow(syntax.KindOther, n, parent)
		left := ctx
		left.mode = RefRead | RefWrite
		b.walkField(n, "left", id, left)
		b.walkField(n, "right", id, ctx)
	case "update_expression":
		id := b.shadow(syntax.KindOther, n, parent)
		arg := ctx
		arg.mode = RefRead | RefWrite
		b.walkField(n, "argument", id, arg)

	case "parenthesized_expression":
		id := b.shadow(syntax.KindParenthesizedExpression, n, parent)
		for i := range int(n.NamedChildCount()) {
			b.walk(n.NamedChild(i), id, ctx)
		}

	// Destructuring assignment targets outside declarations. The write
	// mode flows through the pattern to the target identifiers; defaults
	// and computed keys read as usual.
	case "object_pattern":
		id := b.shadow(syntax.KindObjectPattern, n, parent)
		for i := range int(n.NamedChildCount()) {
			b.walk(n.NamedChild(i), id, ctx)
		}
	case "array_pattern":
		id := b.shadow(syntax.KindArrayPattern, n, parent)
		for i := range int(n.NamedChildCount()) {
			b.walk(n.NamedChild(i), id, ctx)
		}
	case "rest_pattern":
		id := b.shadow(syntax.KindRestElement, n, parent)
		for i := range int(n.NamedChildCount()) {
			b.walk(n.NamedChild(i), id, ctx)
		}
	case "pair_pattern":
		id := b.shadow(syntax.KindPairPattern, n, parent)
		if key := n.ChildByFieldName("key"); key != nil && key.Type() == "computed_property_name" {
			b.walkNamedChildren(key, id, ctx)
		}
		b.walkField(n, "value", id, ctx)
	case "assignment_pattern", "object_assignment_pattern":
		id := b.shadow(syntax.KindAssignmentPattern, n, parent)
		b.walkField(n, "left", id, ctx)
		right := ctx
		right.mode = RefRead
		b.walkField(n, "right", id, right)

	case "pair":
		id := b.shadow(syntax.KindObjectProperty, n, parent)
		if key := n.ChildByFieldName("key"); key != nil && key.Type() == "computed_property_name" {
			b.walkNamedChildren(key, id, ctx)
		}
		b.walkField(n, "value", id, ctx)

	case "identifier", "shorthand_property_identifier", "shorthand_property_identifier_pattern":
		b.ref(n, parent, ctx.scope, ctx.mode)
	case "type_identifier":
		b.ref(n, parent, ctx.scope, RefRead|RefType)
	case "property_identifier", "statement_identifier":
		// member names and labels are not references

	default:
		id := b.shadow(kindFor(n.Type()), n, parent)
		b.walkNamedChildren(n, id, ctx)
	}
}

// kindFor maps leftover node types handled by the generic walk.
func kindFor(nodeType string) syntax.NodeKind {
	switch nodeType {
	case "program":
		return syntax.KindProgram
	case "return_statement":
		return syntax.KindReturnStatement
	case "class_body":
		return syntax.KindClassBody
	default:
		return syntax.KindOther
	}
}

func (b *builder) buildVariableDeclaration(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	var flags syntax.NodeFlags
	varKind := n.Type() == "variable_declaration"
	if varKind {
		flags |= syntax.FlagVarKind
	}
	if ambientParent(n) {
		flags |= syntax.FlagDeclare
	}
	id := b.shadow(syntax.KindVariableDeclaration, n, parent)
	b.tree.SetFlags(id, flags)

	for i := range int(n.NamedChildCount()) {
		c := n.NamedChild(i)
		if c.Type() != "variable_declarator" {
			continue
		}
		d := b.shadow(syntax.KindVariableDeclarator, c, id)
		b.tree.SetFlags(d, flags)

		bindScope := ctx.scope
		if varKind {
			bindScope = ctx.varScope
		}
		if name := c.ChildByFieldName("name"); name != nil {
			b.buildBindingPattern(name, d, d, bindScope, ctx)
		}
		b.walkField(c, "type", d, ctx)
		b.walkField(c, "value", d, ctx)
	}
}

// buildBindingPattern lowers a binding pattern, declaring every bound name
// with decl as its declaration node and bindScope as its scope. Defaults
// and computed keys inside the pattern are ordinary value expressions.
func (b *builder) buildBindingPattern(n *sitter.Node, parent, decl syntax.NodeID, bindScope ScopeID, ctx walkCtx) {
	switch n.Type() {
	case "identifier":
		b.bindIdent(n, parent, decl, bindScope)
	case "shorthand_property_identifier_pattern":
		b.bindIdent(n, parent, decl, bindScope)
	case "object_pattern":
		id := b.shadow(syntax.KindObjectPattern, n, parent)
		for i := range int(n.NamedChildCount()) {
			b.buildBindingPattern(n.NamedChild(i), id, decl, bindScope, ctx)
		}
	case "array_pattern":
		id := b.shadow(syntax.KindArrayPattern, n, parent)
		for i := range int(n.NamedChildCount()) {
			b.buildBindingPattern(n.NamedChild(i), id, decl, bindScope, ctx)
		}
	case "pair_pattern":
		id := b.shadow(syntax.KindPairPattern, n, parent)
		if key := n.ChildByFieldName("key"); key != nil && key.Type() == "computed_property_name" {
			b.walkNamedChildren(key, id, ctx)
		}
		if value := n.ChildByFieldName("value"); value != nil {
			b.buildBindingPattern(value, id, decl, bindScope, ctx)
		}
	case "assignment_pattern", "object_assignment_pattern":
		id := b.shadow(syntax.KindAssignmentPattern, n, parent)
		if left := n.ChildByFieldName("left"); left != nil {
			b.buildBindingPattern(left, id, decl, bindScope, ctx)
		}
		b.walkField(n, "right", id, ctx)
	case "rest_pattern":
		id := b.shadow(syntax.KindRestElement, n, parent)
		for i := range int(n.NamedChildCount()) {
			b.buildBindingPattern(n.NamedChild(i), id, decl, bindScope, ctx)
		}
	case "comment":
	default:
		// not a binding position after all
		b.walk(n, parent, ctx)
	}
}

// paramHasModifier reports an accessibility, readonly, or override
// modifier on a parameter, the forms that turn a constructor parameter
// into a class member.
func paramHasModifier(n *sitter.Node) bool {
	for i := range int(n.ChildCount()) {
		switch n.Child(i).Type() {
		case "accessibility_modifier", "override_modifier", "readonly":
			return true
		}
	}
	return false
}

// buildParams lowers a formal parameter list. Every positional parameter
// gets a parameter shadow even when the grammar does not wrap it in one,
// so parameter positions are uniform across dialects. Rest parameters sit
// directly in the list as rest elements, outside the positional order.
func (b *builder) buildParams(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	list := b.shadow(syntax.KindFormalParameterList, n, parent)
	for i := range int(n.NamedChildCount()) {
		c := n.NamedChild(i)
		switch c.Type() {
		case "required_parameter", "optional_parameter":
			pattern := c.ChildByFieldName("pattern")
			if pattern != nil && pattern.Type() == "rest_pattern" {
				rest := b.shadow(syntax.KindRestElement, c, list)
				for j := range int(pattern.NamedChildCount()) {
					b.buildBindingPattern(pattern.NamedChild(j), rest, rest, ctx.scope, ctx)
				}
				b.walkField(c, "type", rest, ctx)
				continue
			}
			if pattern != nil && pattern.Type() == "this" {
				id := b.shadow(syntax.KindOther, c, list)
				b.walkField(c, "type", id, ctx)
				continue
			}
			p := b.shadow(syntax.KindFormalParameter, c, list)
			if paramHasModifier(c) {
				b.tree.SetFlags(p, syntax.FlagModifier)
			}
			if pattern != nil {
				// destructuring stays destructuring under a default value
				if pattern.Type() == "object_pattern" || pattern.Type() == "array_pattern" {
					b.tree.SetFlags(p, syntax.FlagDestructured)
				}
				b.buildBindingPattern(pattern, p, p, ctx.scope, ctx)
			}
			b.walkField(c, "type", p, ctx)
			b.walkField(c, "value", p, ctx)
		case "rest_pattern":
			rest := b.shadow(syntax.KindRestElement, c, list)
			for j := range int(c.NamedChildCount()) {
				b.buildBindingPattern(c.NamedChild(j), rest, rest, ctx.scope, ctx)
			}
		case "identifier":
			p := b.shadow(syntax.KindFormalParameter, c, list)
			b.buildBindingPattern(c, p, p, ctx.scope, ctx)
		case "object_pattern", "array_pattern":
			p := b.shadow(syntax.KindFormalParameter, c, list)
			b.tree.SetFlags(p, syntax.FlagDestructured)
			b.buildBindingPattern(c, p, p, ctx.scope, ctx)
		case "assignment_pattern":
			p := b.shadow(syntax.KindFormalParameter, c, list)
			if left := c.ChildByFieldName("left"); left != nil &&
				(left.Type() == "object_pattern" || left.Type() == "array_pattern") {
				b.tree.SetFlags(p, syntax.FlagDestructured)
			}
			b.buildBindingPattern(c, p, p, ctx.scope, ctx)
		case "comment":
		default:
			b.walk(c, list, ctx)
		}
	}
}

func (b *builder) buildFunction(n *sitter.Node, parent syntax.NodeID, ctx walkCtx, expr bool) {
	var flags syntax.NodeFlags
	if expr {
		flags |= syntax.FlagExpression
	}
	body := n.ChildByFieldName("body")
	if body == nil {
		flags |= syntax.FlagNoBody
	}
	if n.Type() == "function_signature" {
		// overload signatures and `declare function` share one form
		flags |= syntax.FlagDeclareFunction
	}
	if ambientParent(n) {
		flags |= syntax.FlagDeclare | syntax.FlagDeclareFunction
	}
	f := b.shadow(syntax.KindFunction, n, parent)
	b.tree.SetFlags(f, flags)

	scope := b.addScope(ScopeFunction, ctx.scope, f)
	if name := n.ChildByFieldName("name"); name != nil {
		// a named function expression binds its own name inside itself
		bindScope := ctx.scope
		if expr {
			bindScope = scope
		}
		b.bindIdent(name, f, f, bindScope)
	}
	inner := walkCtx{scope: scope, varScope: scope, mode: RefRead}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		b.buildTypeParameters(tp, f, scope)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		b.buildParams(params, f, inner)
	}
	b.walkField(n, "return_type", f, inner)
	if body != nil {
		b.buildFunctionBody(body, f, inner)
	}
}

// buildFunctionBody places a block body directly in the function scope
// rather than opening a nested block scope, so parameters and body
// declarations share one scope.
func (b *builder) buildFunctionBody(body *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	if body.Type() == "statement_block" {
		id := b.shadow(syntax.KindBlockStatement, body, parent)
		b.walkNamedChildren(body, id, ctx)
		return
	}
	b.walk(body, parent, ctx)
}

func (b *builder) buildArrowFunction(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	a := b.shadow(syntax.KindArrowFunction, n, parent)
	scope := b.addScope(ScopeFunction, ctx.scope, a)
	inner := walkCtx{scope: scope, varScope: scope, mode: RefRead}

	if single := n.ChildByFieldName("parameter"); single != nil {
		// x => ... has a bare identifier with no parameter list
		list := b.shadow(syntax.KindFormalParameterList, single, a)
		p := b.shadow(syntax.KindFormalParameter, single, list)
		b.buildBindingPattern(single, p, p, scope, inner)
	} else if params := n.ChildByFieldName("parameters"); params != nil {
		b.buildParams(params, a, inner)
	}
	b.walkField(n, "return_type", a, inner)
	if body := n.ChildByFieldName("body"); body != nil {
		b.buildFunctionBody(body, a, inner)
	}
}

func (b *builder) buildClass(n *sitter.Node, parent syntax.NodeID, ctx walkCtx, expr bool) {
	var flags syntax.NodeFlags
	if expr {
		flags |= syntax.FlagExpression
	}
	if n.Type() == "abstract_class_declaration" {
		flags |= syntax.FlagAbstract
	}
	if ambientParent(n) {
		flags |= syntax.FlagDeclare
	}
	c := b.shadow(syntax.KindClass, n, parent)
	b.tree.SetFlags(c, flags)

	scope := b.addScope(ScopeClass, ctx.scope, c)
	classCtx := walkCtx{scope: scope, varScope: ctx.varScope, mode: RefRead}

	named := false
	for i := range int(n.NamedChildCount()) {
		child := n.NamedChild(i)
		switch child.Type() {
		case "type_identifier", "identifier":
			if !named {
				named = true
				bindScope := ctx.scope
				if expr {
					bindScope = scope
				}
				b.bindIdent(child, c, c, bindScope)
			}
		case "type_parameters":
			b.buildTypeParameters(child, c, scope)
		case "class_heritage":
			id := b.shadow(syntax.KindOther, child, c)
			b.walkNamedChildren(child, id, classCtx)
		case "class_body":
			b.buildClassBody(child, c, classCtx)
		case "decorator":
			b.walk(child, c, ctx)
		case "comment":
		default:
			b.walk(child, c, classCtx)
		}
	}
}

func (b *builder) buildClassBody(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	body := b.shadow(syntax.KindClassBody, n, parent)
	for i := range int(n.NamedChildCount()) {
		m := n.NamedChild(i)
		switch m.Type() {
		case "method_definition", "method_signature", "abstract_method_signature":
			b.buildMethod(m, body, ctx)
		case "public_field_definition", "field_definition":
			id := b.shadow(syntax.KindOther, m, body)
			if name := m.ChildByFieldName("name"); name != nil && name.Type() == "computed_property_name" {
				b.walkNamedChildren(name, id, ctx)
			}
			b.walkField(m, "type", id, ctx)
			b.walkField(m, "value", id, ctx)
		case "class_static_block":
			id := b.shadow(syntax.KindOther, m, body)
			scope := b.addScope(ScopeFunction, ctx.scope, id)
			inner := walkCtx{scope: scope, varScope: scope, mode: RefRead}
			if block := m.ChildByFieldName("body"); block != nil {
				b.buildFunctionBody(block, id, inner)
			} else {
				b.walkNamedChildren(m, id, inner)
			}
		case "index_signature":
			b.walkType(m, body, ctx.scope)
		case "comment":
		default:
			b.walk(m, body, ctx)
		}
	}
}

// buildMethod lowers a class method or an object-literal method. The
// callable itself becomes a function shadow under the method node, which
// keeps parameter lists one level below their function across all forms.
func (b *builder) buildMethod(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	kind := syntax.KindMethodDefinition
	if p := n.Parent(); p != nil && p.Type() == "object" {
		kind = syntax.KindObjectProperty
	}

	var flags syntax.NodeFlags
	body := n.ChildByFieldName("body")
	if body == nil {
		flags |= syntax.FlagNoBody
	}
	if n.Type() == "abstract_method_signature" {
		flags |= syntax.FlagAbstract
	}
	for i := range int(n.NamedChildCount()) {
		if n.NamedChild(i).Type() == "override_modifier" {
			flags |= syntax.FlagOverride
		}
	}

	method := syntax.MethodKindMethod
	switch {
	case hasToken(n, "get"):
		method = syntax.MethodKindGet
	case hasToken(n, "set"):
		method = syntax.MethodKindSet
	default:
		if name := n.ChildByFieldName("name"); name != nil && b.text(name) == "constructor" {
			method = syntax.MethodKindConstructor
		}
	}

	m := b.shadow(kind, n, parent)
	b.tree.SetFlags(m, flags)
	b.tree.SetMethod(m, method)

	if name := n.ChildByFieldName("name"); name != nil && name.Type() == "computed_property_name" {
		b.walkNamedChildren(name, m, ctx)
	}

	fnFlags := syntax.FlagExpression
	if body == nil {
		fnFlags |= syntax.FlagNoBody
	}
	f := b.shadow(syntax.KindFunction, n, m)
	b.tree.SetFlags(f, fnFlags)

	scope := b.addScope(ScopeFunction, ctx.scope, f)
	inner := walkCtx{scope: scope, varScope: scope, mode: RefRead}
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		b.buildTypeParameters(tp, f, scope)
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		b.buildParams(params, f, inner)
	}
	b.walkField(n, "return_type", f, inner)
	if body != nil {
		b.buildFunctionBody(body, f, inner)
	}
}

func (b *builder) buildForIn(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	kind := syntax.KindForInStatement
	if op := n.ChildByFieldName("operator"); op != nil && b.text(op) == "of" {
		kind = syntax.KindForOfStatement
	}
	id := b.shadow(kind, n, parent)
	scope := b.addScope(ScopeBlock, ctx.scope, id)
	inner := walkCtx{scope: scope, varScope: ctx.varScope, mode: RefRead}

	left := n.ChildByFieldName("left")
	if declKind := n.ChildByFieldName("kind"); declKind != nil && left != nil {
		// The grammar flattens `for (const x of xs)` into the loop head.
		// Rebuild the declaration chain so the binding's ancestry matches
		// a declared variable: declarator, then declaration, then loop.
		var declFlags syntax.NodeFlags
		varKind := b.text(declKind) == "var"
		if varKind {
			declFlags |= syntax.FlagVarKind
		}
		decl := b.tree.Append(syntax.KindVariableDeclaration, id, spanOf(left))
		b.tree.SetFlags(decl, declFlags)
		declarator := b.tree.Append(syntax.KindVariableDeclarator, decl, spanOf(left))
		b.tree.SetFlags(declarator, declFlags)

		bindScope := scope
		if varKind {
			bindScope = ctx.varScope
		}
		b.buildBindingPattern(left, declarator, declarator, bindScope, inner)
	} else if left != nil {
		lctx := inner
		lctx.mode = RefWrite
		b.walk(left, id, lctx)
	}

	b.walkField(n, "right", id, inner)

	// body stays the last child; the loop-body rule depends on it
	if body := n.ChildByFieldName("body"); body != nil {
		if body.Type() == "statement_block" {
			bs := b.shadow(syntax.KindBlockStatement, body, id)
			bodyCtx := inner
			bodyCtx.scope = b.addScope(ScopeBlock, scope, bs)
			b.walkNamedChildren(body, bs, bodyCtx)
		} else {
			b.walk(body, id, inner)
		}
	}
}

func (b *builder) buildCatch(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	id := b.shadow(syntax.KindCatchClause, n, parent)
	scope := b.addScope(ScopeBlock, ctx.scope, id)
	inner := walkCtx{scope: scope, varScope: ctx.varScope, mode: RefRead}
	if param := n.ChildByFieldName("parameter"); param != nil {
		b.buildBindingPattern(param, id, id, scope, inner)
	}
	b.walkField(n, "type", id, inner)
	b.walkField(n, "body", id, inner)
}

func unquote(s string) string {
	return strings.Trim(s, "\"'`")
}

func (b *builder) buildImport(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	imp := b.shadow(syntax.KindImportDeclaration, n, parent)
	var source string
	if src := n.ChildByFieldName("source"); src != nil {
		source = unquote(b.text(src))
	}
	typeOnly := hasToken(n, "type")

	for i := range int(n.NamedChildCount()) {
		clause := n.NamedChild(i)
		switch clause.Type() {
		case "import_clause":
			b.buildImportClause(clause, imp, ctx, source, typeOnly)
		case "import_require_clause":
			// import x = require("m")
			for j := range int(clause.NamedChildCount()) {
				c := clause.NamedChild(j)
				if c.Type() == "identifier" {
					spec := b.shadow(syntax.KindImportSpecifier, c, imp)
					sym := b.bindIdent(c, spec, spec, ctx.scope)
					if sym != NoSymbol {
						b.module.AddImport(ImportEntry{
							Local: b.text(c), Imported: "*", Source: source, TypeOnly: typeOnly, Node: spec,
						})
					}
				}
			}
		}
	}
}

func (b *builder) buildImportClause(n *sitter.Node, parent syntax.NodeID, ctx walkCtx, source string, typeOnly bool) {
	for i := range int(n.NamedChildCount()) {
		c := n.NamedChild(i)
		switch c.Type() {
		case "identifier":
			spec := b.shadow(syntax.KindImportSpecifier, c, parent)
			b.bindIdent(c, spec, spec, ctx.scope)
			b.module.AddImport(ImportEntry{
				Local: b.text(c), Imported: "default", Source: source, TypeOnly: typeOnly, Node: spec,
			})
		case "namespace_import":
			for j := range int(c.NamedChildCount()) {
				ident := c.NamedChild(j)
				if ident.Type() != "identifier" {
					continue
				}
				spec := b.shadow(syntax.KindImportSpecifier, c, parent)
				b.bindIdent(ident, spec, spec, ctx.scope)
				b.module.AddImport(ImportEntry{
					Local: b.text(ident), Imported: "*", Source: source, TypeOnly: typeOnly, Node: spec,
				})
			}
		case "named_imports":
			for j := range int(c.NamedChildCount()) {
				s := c.NamedChild(j)
				if s.Type() != "import_specifier" {
					continue
				}
				name := s.ChildByFieldName("name")
				if name == nil {
					continue
				}
				local := name
				if alias := s.ChildByFieldName("alias"); alias != nil {
					local = alias
				}
				spec := b.shadow(syntax.KindImportSpecifier, s, parent)
				b.bindIdent(local, spec, spec, ctx.scope)
				b.module.AddImport(ImportEntry{
					Local:    b.text(local),
					Imported: b.text(name),
					Source:   source,
					TypeOnly: typeOnly || hasToken(s, "type"),
					Node:     spec,
				})
			}
		}
	}
}

func (b *builder) buildExport(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	e := b.shadow(syntax.KindExportDeclaration, n, parent)
	src := n.ChildByFieldName("source")
	decl := n.ChildByFieldName("declaration")
	value := n.ChildByFieldName("value")

	var clause *sitter.Node
	for i := range int(n.NamedChildCount()) {
		if c := n.NamedChild(i); c.Type() == "export_clause" {
			clause = c
		}
	}

	for i := range int(n.NamedChildCount()) {
		if c := n.NamedChild(i); c.Type() == "decorator" {
			b.walk(c, e, ctx)
		}
	}

	switch {
	case decl != nil:
		pre := len(b.symbols)
		b.walk(decl, e, ctx)
		// everything the declaration bound in this scope is exported;
		// bindings in nested scopes, like parameters, are not
		for i := pre; i < len(b.symbols); i++ {
			if b.symbols[i].Scope != ctx.scope {
				continue
			}
			b.exported.Add(uint32(i))
			if ctx.scope == b.root {
				b.module.AddExport(b.symbols[i].Name, b.symbols[i].Binding)
			}
		}
		if hasToken(n, "default") && ctx.scope == b.root {
			b.module.AddExport("default", e)
		}
	case clause != nil:
		for i := range int(clause.NamedChildCount()) {
			s := clause.NamedChild(i)
			if s.Type() != "export_specifier" {
				continue
			}
			name := s.ChildByFieldName("name")
			if name == nil {
				continue
			}
			exportedAs := b.text(name)
			if alias := s.ChildByFieldName("alias"); alias != nil {
				exportedAs = b.text(alias)
			}
			if ctx.scope == b.root {
				b.module.AddExport(exportedAs, e)
			}
			if src == nil {
				// re-exports reference another module, not local bindings
				b.pendingExports = append(b.pendingExports, pendingExport{scope: ctx.scope, name: b.text(name)})
			}
		}
	case value != nil:
		if ctx.scope == b.root {
			b.module.AddExport("default", e)
		}
		b.walk(value, e, ctx)
	case src != nil:
		// export * from "m": nothing binds locally
	default:
		// export = expr and other tails reference local values
		b.walkNamedChildren(n, e, ctx)
	}
}

func (b *builder) buildModuleDeclaration(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	var flags syntax.NodeFlags
	if ambientParent(n) {
		flags |= syntax.FlagDeclare
	}
	m := b.shadow(syntax.KindModuleDeclaration, n, parent)
	b.tree.SetFlags(m, flags)

	if name := n.ChildByFieldName("name"); name != nil {
		// bind the leftmost segment of a dotted namespace name
		ident := name
		for ident.Type() == "nested_identifier" {
			next := ident.NamedChild(0)
			if next == nil {
				break
			}
			ident = next
		}
		if ident.Type() == "identifier" {
			b.bindIdent(ident, m, m, ctx.scope)
		}
	}

	scope := b.addScope(ScopeModule, ctx.scope, m)
	inner := walkCtx{scope: scope, varScope: scope, mode: RefRead}
	if body := n.ChildByFieldName("body"); body != nil {
		b.buildFunctionBody(body, m, inner)
	}
}

func (b *builder) buildAmbient(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	if hasToken(n, "global") {
		g := b.shadow(syntax.KindModuleDeclaration, n, parent)
		b.tree.SetFlags(g, syntax.FlagDeclare|syntax.FlagGlobal)
		scope := b.addScope(ScopeModule, ctx.scope, g)
		inner := walkCtx{scope: scope, varScope: scope, mode: RefRead}
		b.walkNamedChildren(n, g, inner)
		return
	}
	id := b.shadow(syntax.KindOther, n, parent)
	b.walkNamedChildren(n, id, ctx)
}

func (b *builder) buildEnum(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	var flags syntax.NodeFlags
	if ambientParent(n) {
		flags |= syntax.FlagDeclare
	}
	e := b.shadow(syntax.KindEnumDeclaration, n, parent)
	b.tree.SetFlags(e, flags)
	if name := n.ChildByFieldName("name"); name != nil {
		b.bindIdent(name, e, e, ctx.scope)
	}
	scope := b.addScope(ScopeEnum, ctx.scope, e)
	inner := walkCtx{scope: scope, varScope: ctx.varScope, mode: RefRead}
	if body := n.ChildByFieldName("body"); body != nil {
		id := b.shadow(syntax.KindOther, body, e)
		for i := range int(body.NamedChildCount()) {
			c := body.NamedChild(i)
			if c.Type() == "enum_assignment" {
				b.walkField(c, "value", id, inner)
			}
		}
	}
}

func (b *builder) buildInterface(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	var flags syntax.NodeFlags
	if ambientParent(n) {
		flags |= syntax.FlagDeclare
	}
	id := b.shadow(syntax.KindInterfaceDeclaration, n, parent)
	b.tree.SetFlags(id, flags)
	if name := n.ChildByFieldName("name"); name != nil {
		b.bindIdent(name, id, id, ctx.scope)
	}
	scope := b.addScope(ScopeType, ctx.scope, id)
	for i := range int(n.NamedChildCount()) {
		c := n.NamedChild(i)
		switch c.Type() {
		case "type_identifier", "comment":
		case "type_parameters":
			b.buildTypeParameters(c, id, scope)
		default:
			b.walkType(c, id, scope)
		}
	}
}

func (b *builder) buildTypeAlias(n *sitter.Node, parent syntax.NodeID, ctx walkCtx) {
	var flags syntax.NodeFlags
	if ambientParent(n) {
		flags |= syntax.FlagDeclare
	}
	id := b.shadow(syntax.KindTypeAliasDeclaration, n, parent)
	b.tree.SetFlags(id, flags)
	if name := n.ChildByFieldName("name"); name != nil {
		b.bindIdent(name, id, id, ctx.scope)
	}
	scope := b.addScope(ScopeType, ctx.scope, id)
	if tp := n.ChildByFieldName("type_parameters"); tp != nil {
		b.buildTypeParameters(tp, id, scope)
	}
	if value := n.ChildByFieldName("value"); value != nil {
		b.walkType(value, id, scope)
	}
}

func (b *builder) buildTypeParameters(n *sitter.Node, parent syntax.NodeID, scope ScopeID) {
	list := b.shadow(syntax.KindTypeParameterList, n, parent)
	for i := range int(n.NamedChildCount()) {
		c := n.NamedChild(i)
		if c.Type() != "type_parameter" {
			continue
		}
		tp := b.shadow(syntax.KindTypeParameter, c, list)
		name := c.ChildByFieldName("name")
		if name != nil {
			b.bindIdent(name, tp, tp, scope)
		}
		for j := range int(c.NamedChildCount()) {
			cc := c.NamedChild(j)
			if name != nil && sameNode(cc, name) {
				continue
			}
			b.walkType(cc, tp, scope)
		}
	}
}

// walkType lowers type-position subtrees. Identifiers become type
// references, parameter names inside function types bind nothing, and
// mapped type clauses introduce their key as a type parameter.
func (b *builder) walkType(n *sitter.Node, parent syntax.NodeID, scope ScopeID) {
	switch n.Type() {
	case "type_identifier", "identifier":
		b.ref(n, parent, scope, RefRead|RefType)
	case "property_identifier", "statement_identifier", "comment":
	case "type_parameters":
		b.buildTypeParameters(n, parent, scope)
	case "mapped_type_clause":
		b.buildMappedTypeClause(n, parent, scope)
	case "index_signature":
		id := b.shadow(syntax.KindOther, n, parent)
		name := n.ChildByFieldName("name")
		for i := range int(n.NamedChildCount()) {
			c := n.NamedChild(i)
			if name != nil && sameNode(c, name) {
				continue
			}
			b.walkType(c, id, scope)
		}
	case "required_parameter", "optional_parameter":
		// function-type parameter names are placeholders, not bindings
		id := b.shadow(syntax.KindOther, n, parent)
		if t := n.ChildByFieldName("type"); t != nil {
			b.walkType(t, id, scope)
		}
	default:
		id := b.shadow(syntax.KindOther, n, parent)
		for i := range int(n.NamedChildCount()) {
			b.walkType(n.NamedChild(i), id, scope)
		}
	}
}

// buildMappedTypeClause binds the key of `{[K in Keys]: V}`. The key's
// declaration is a type parameter whose direct parent is the mapped type
// node, which is what exempts it from unused reporting.
func (b *builder) buildMappedTypeClause(n *sitter.Node, parent syntax.NodeID, scope ScopeID) {
	mt := b.shadow(syntax.KindMappedType, n, parent)
	name := n.ChildByFieldName("name")
	if name != nil {
		tp := b.tree.Append(syntax.KindTypeParameter, mt, spanOf(name))
		b.bindIdent(name, tp, tp, scope)
	}
	for i := range int(n.NamedChildCount()) {
		c := n.NamedChild(i)
		if name != nil && sameNode(c, name) {
			continue
		}
		b.walkType(c, mt, scope)
	}
}

// finish resolves pending references and export specifiers now that every
// scope's symbol table is complete.
func (b *builder) finish() {
	for _, pr := range b.pendingRefs {
		sym, ok := b.lookup(pr.scope, pr.name)
		if !ok {
			// unresolved names are globals or typos; neither binds here
			continue
		}
		ri := int32(len(b.refs))
		b.refs = append(b.refs, Reference{Symbol: sym, Node: pr.node, Flags: pr.flags})
		b.symbolRefs[sym] = append(b.symbolRefs[sym], ri)
		if pr.flags.IsRead() {
			b.reads.Add(uint32(sym))
		}
	}
	for _, pe := range b.pendingExports {
		if sym, ok := b.lookup(pe.scope, pe.name); ok {
			b.exported.Add(uint32(sym))
		}
	}
}

func (b *builder) lookup(scope ScopeID, name string) (SymbolID, bool) {
	for s := scope; s != NoScope; s = b.scopes[s].Parent {
		if id, ok := b.names[s][name]; ok {
			return id, true
		}
	}
	return NoSymbol, false
}
