package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

// compileSchema compiles the embedded configuration schema.
func compileSchema() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("parsing embedded schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("vestige.schema.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("vestige.schema.json")
}

// ValidateFile checks a configuration file against the embedded schema.
// Unlike Load, it rejects unknown keys and out-of-range values instead of
// silently ignoring them.
func ValidateFile(path string) error {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
		return err
	}

	// Round-trip through JSON so parser-specific number types do not leak
	// into schema validation.
	raw, err := json.Marshal(k.Raw())
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return err
	}

	schema, err := compileSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
