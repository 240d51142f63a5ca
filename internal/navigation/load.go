package navigation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func overrideSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse navigation schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("navigation.schema.json", doc); err != nil {
			schemaErr = fmt.Errorf("add navigation schema: %w", err)
			return
		}
		schema, schemaErr = compiler.Compile("navigation.schema.json")
	})
	return schema, schemaErr
}

// Load reads a navigation override file. An empty path returns the
// built-in menus; a layout missing from the file keeps its built-in tree.
func Load(path string) (*Menus, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read navigation file: %w", err)
	}
	menus, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return menus, nil
}

// Parse validates an override document against the navigation schema and
// decodes it.
func Parse(data []byte) (*Menus, error) {
	sch, err := overrideSchema()
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parse navigation JSON: %w", err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("invalid navigation override: %w", err)
	}

	var override struct {
		Vertical   *[]Node `json:"vertical"`
		Horizontal *[]Node `json:"horizontal"`
	}
	if err := json.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("decode navigation override: %w", err)
	}

	menus := Default()
	if override.Vertical != nil {
		menus.Vertical = *override.Vertical
	}
	if override.Horizontal != nil {
		menus.Horizontal = *override.Horizontal
	}
	return menus, nil
}
