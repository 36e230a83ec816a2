package semantic

import "github.com/panbanda/vestige/pkg/syntax"

// ImportEntry records one imported binding.
type ImportEntry struct {
	// Local is the name bound in this file.
	Local string
	// Imported is the name on the source module side: the remote name for
	// named imports, "default" for default imports, "*" for namespace
	// imports.
	Imported string
	// Source is the module specifier, unquoted.
	Source string
	// TypeOnly marks `import type` forms and type-qualified specifiers.
	TypeOnly bool
	// Node is the import specifier in the arena.
	Node syntax.NodeID
}

// ModuleRecord captures the ES module surface of a file: what it imports
// and which top-level names it exports. Export membership feeds the unused
// decision, since an exported binding is visible outside the file.
type ModuleRecord struct {
	Imports []ImportEntry

	exports map[string]syntax.NodeID
}

// NewModuleRecord returns an empty record.
func NewModuleRecord() *ModuleRecord {
	return &ModuleRecord{
		exports: make(map[string]syntax.NodeID),
	}
}

// AddImport appends an imported binding.
func (r *ModuleRecord) AddImport(e ImportEntry) {
	r.Imports = append(r.Imports, e)
}

// AddExport records that the file exports name, declared at node.
func (r *ModuleRecord) AddExport(name string, node syntax.NodeID) {
	r.exports[name] = node
}

// Exports reports whether the file exports the given name.
func (r *ModuleRecord) Exports(name string) bool {
	_, ok := r.exports[name]
	return ok
}

// ExportedNames returns the exported names in unspecified order.
func (r *ModuleRecord) ExportedNames() []string {
	out := make([]string, 0, len(r.exports))
	for name := range r.exports {
		out = append(out, name)
	}
	return out
}

// NumExports returns the number of exported names.
func (r *ModuleRecord) NumExports() int { return len(r.exports) }
