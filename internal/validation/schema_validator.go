// Package validation checks catalog files against JSON schemas. Catalogs
// may be JSON or YAML; schemas are always JSON.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// ErrSchemaViolation is wrapped by every failed validation
var ErrSchemaViolation = errors.New("schema validation failed")

// SchemaValidator validates catalog documents against JSON schemas
type SchemaValidator interface {
	// ValidateFile picks the decoder from the data file extension
	ValidateFile(dataPath, schemaPath string) error
	ValidateBytes(data []byte, schemaPath string) error
	ValidateYAML(data []byte, schemaPath string) error
}

type validator struct {
	mu       sync.Mutex
	compiler *jsonschema.Compiler
	schemas  map[string]*jsonschema.Schema
}

// NewSchemaValidator compiles each schema path once and reuses it
func NewSchemaValidator() SchemaValidator {
	return &validator{
		compiler: jsonschema.NewCompiler(),
		schemas:  make(map[string]*jsonschema.Schema),
	}
}

func (v *validator) ValidateFile(dataPath, schemaPath string) error {
	data, err := os.ReadFile(dataPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", dataPath, err)
	}
	switch strings.ToLower(filepath.Ext(dataPath)) {
	case ".yaml", ".yml":
		return v.ValidateYAML(data, schemaPath)
	default:
		return v.ValidateBytes(data, schemaPath)
	}
}

func (v *validator) ValidateBytes(data []byte, schemaPath string) error {
	instance, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("parse JSON data: %w", err)
	}
	return v.validate(instance, schemaPath)
}

// ValidateYAML re-encodes the document as JSON so numbers and maps reach
// the schema engine in the shape it expects.
func (v *validator) ValidateYAML(data []byte, schemaPath string) error {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse YAML data: %w", err)
	}
	asJSON, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("convert YAML to JSON: %w", err)
	}
	return v.ValidateBytes(asJSON, schemaPath)
}

func (v *validator) validate(instance any, schemaPath string) error {
	schema, err := v.schema(schemaPath)
	if err != nil {
		return fmt.Errorf("load schema %s: %w", schemaPath, err)
	}
	if err := schema.Validate(instance); err != nil {
		return flatten(err)
	}
	return nil
}

func (v *validator) schema(schemaPath string) (*jsonschema.Schema, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if s, ok := v.schemas[schemaPath]; ok {
		return s, nil
	}

	resolved, err := findUpward(schemaPath)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(resolved)
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse schema: %w", err)
	}
	if err := v.compiler.AddResource(schemaPath, doc); err != nil {
		return nil, err
	}
	s, err := v.compiler.Compile(schemaPath)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	v.schemas[schemaPath] = s
	return s, nil
}

// flatten reports one line per failing leaf location
func flatten(err error) error {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %w", ErrSchemaViolation, err)
	}

	var lines []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				walk(c)
			}
			return
		}
		keyword := ""
		if e.ErrorKind != nil {
			keyword = strings.Join(e.ErrorKind.KeywordPath(), ".")
		}
		lines = append(lines, fmt.Sprintf("  - at /%s: %s", strings.Join(e.InstanceLocation, "/"), keyword))
	}
	walk(verr)
	return fmt.Errorf("%w:\n%s", ErrSchemaViolation, strings.Join(lines, "\n"))
}

// findUpward resolves a relative path from the working directory or any
// parent up to the module root, so tests in nested packages find configs/.
func findUpward(path string) (string, error) {
	if filepath.IsAbs(path) {
		return path, nil
	}
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for dir := cwd; ; {
		candidate := filepath.Join(dir, path)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("schema file not found: %s (searched from %s)", path, cwd)
}
