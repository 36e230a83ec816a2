// Package syntax provides a flat, arena-style syntax tree consumed by the
// unused-binding analyzer. Nodes are addressed by stable integer ids and
// carry a kind tag from a closed set, so exemption predicates can be written
// as exhaustive matches with O(depth) upward walks and no pointer cycles.
package syntax

// NodeKind identifies the syntactic construct a node represents. The set is
// closed: constructs the analyzer has no dedicated handling for map to
// KindOther, which terminates ancestor walks the same way an unexpected
// construct would.
type NodeKind uint8

const (
	KindOther NodeKind = iota
	KindProgram
	KindVariableDeclaration
	KindVariableDeclarator
	KindBindingIdentifier
	KindIdentifierReference
	KindObjectPattern
	KindArrayPattern
	KindAssignmentPattern
	KindPairPattern
	KindRestElement
	KindFormalParameterList
	KindFormalParameter
	KindFunction
	KindArrowFunction
	KindClass
	KindClassBody
	KindMethodDefinition
	KindObjectProperty
	KindBlockStatement
	KindReturnStatement
	KindForInStatement
	KindForOfStatement
	KindParenthesizedExpression
	KindAssignmentTarget
	KindModuleDeclaration
	KindMappedType
	KindTypeParameterList
	KindTypeParameter
	KindImportDeclaration
	KindImportSpecifier
	KindExportDeclaration
	KindCatchClause
	KindEnumDeclaration
	KindInterfaceDeclaration
	KindTypeAliasDeclaration
)

var kindNames = [...]string{
	KindOther:                   "other",
	KindProgram:                 "program",
	KindVariableDeclaration:     "variable_declaration",
	KindVariableDeclarator:      "variable_declarator",
	KindBindingIdentifier:       "binding_identifier",
	KindIdentifierReference:     "identifier_reference",
	KindObjectPattern:           "object_pattern",
	KindArrayPattern:            "array_pattern",
	KindAssignmentPattern:       "assignment_pattern",
	KindPairPattern:             "pair_pattern",
	KindRestElement:             "rest_element",
	KindFormalParameterList:     "formal_parameter_list",
	KindFormalParameter:         "formal_parameter",
	KindFunction:                "function",
	KindArrowFunction:           "arrow_function",
	KindClass:                   "class",
	KindClassBody:               "class_body",
	KindMethodDefinition:        "method_definition",
	KindObjectProperty:          "object_property",
	KindBlockStatement:          "block_statement",
	KindReturnStatement:         "return_statement",
	KindForInStatement:          "for_in_statement",
	KindForOfStatement:          "for_of_statement",
	KindParenthesizedExpression: "parenthesized_expression",
	KindAssignmentTarget:        "assignment_target",
	KindModuleDeclaration:       "module_declaration",
	KindMappedType:              "mapped_type",
	KindTypeParameterList:       "type_parameter_list",
	KindTypeParameter:           "type_parameter",
	KindImportDeclaration:       "import_declaration",
	KindImportSpecifier:         "import_specifier",
	KindExportDeclaration:       "export_declaration",
	KindCatchClause:             "catch_clause",
	KindEnumDeclaration:         "enum_declaration",
	KindInterfaceDeclaration:    "interface_declaration",
	KindTypeAliasDeclaration:    "type_alias_declaration",
}

func (k NodeKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPattern reports whether the kind is a destructuring pattern constituent.
func (k NodeKind) IsPattern() bool {
	switch k {
	case KindObjectPattern, KindArrayPattern, KindAssignmentPattern, KindPairPattern, KindRestElement:
		return true
	default:
		return false
	}
}

// IsFunctionLike reports whether the kind introduces a formal parameter
// list: functions, arrows, and method values all qualify.
func (k NodeKind) IsFunctionLike() bool {
	switch k {
	case KindFunction, KindArrowFunction, KindMethodDefinition:
		return true
	default:
		return false
	}
}

// NodeFlags carry per-node attributes the kind tag alone cannot express.
type NodeFlags uint16

const (
	// FlagExpression marks a function or class in expression position.
	FlagExpression NodeFlags = 1 << iota
	// FlagDeclare marks a node inside (or carrying) a `declare` ambient
	// context.
	FlagDeclare
	// FlagGlobal marks a `declare global` module augmentation.
	FlagGlobal
	// FlagNoBody marks a function form without an executable body, such as
	// an overload signature or an abstract method value.
	FlagNoBody
	// FlagDeclareFunction marks the declare/overload function statement
	// form (`declare function f(): void` or a bare overload signature).
	FlagDeclareFunction
	// FlagAbstract marks an abstract method definition.
	FlagAbstract
	// FlagOverride marks a method carrying the `override` modifier.
	FlagOverride
	// FlagModifier marks a formal parameter carrying an accessibility or
	// readonly modifier, i.e. a constructor parameter property.
	FlagModifier
	// FlagDestructured marks a formal parameter whose binding is an object
	// or array pattern rather than a simple name.
	FlagDestructured
	// FlagVarKind marks a variable declaration using the `var` keyword.
	FlagVarKind
)

// Has reports whether all bits of q are set.
func (f NodeFlags) Has(q NodeFlags) bool { return f&q == q }

// MethodKind distinguishes method and object-property definition forms.
type MethodKind uint8

const (
	MethodNone MethodKind = iota
	MethodKindMethod
	MethodKindGet
	MethodKindSet
	MethodKindConstructor
)

func (m MethodKind) String() string {
	switch m {
	case MethodKindMethod:
		return "method"
	case MethodKindGet:
		return "get"
	case MethodKindSet:
		return "set"
	case MethodKindConstructor:
		return "constructor"
	default:
		return "none"
	}
}
