package record

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/example/patta/internal/apperr"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// Schema names one of the embedded payload schemas.
type Schema string

const (
	SchemaCreate      Schema = "create"
	SchemaAction      Schema = "action"
	SchemaCertificate Schema = "certificate"
)

var allSchemas = []Schema{SchemaCreate, SchemaAction, SchemaCertificate}

// Validator checks caller payloads at the boundary before they reach the model.
type Validator struct {
	schemas map[Schema]*jsonschema.Schema
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020

	v := &Validator{schemas: make(map[Schema]*jsonschema.Schema, len(allSchemas))}
	for _, name := range allSchemas {
		data, err := schemaFS.ReadFile(fmt.Sprintf("schemas/%s.schema.json", name))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s schema: %w", name, err)
		}
		url := fmt.Sprintf("https://patta.schemas.local/%s.schema.json", name)
		if err := c.AddResource(url, bytes.NewReader(data)); err != nil {
			return nil, fmt.Errorf("failed to load %s schema: %w", name, err)
		}
		compiled, err := c.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s schema: %w", name, err)
		}
		v.schemas[name] = compiled
	}
	return v, nil
}

// MustValidator is NewValidator for package initialization and tests.
func MustValidator() *Validator {
	v, err := NewValidator()
	if err != nil {
		panic(err)
	}
	return v
}

// Check decodes raw as JSON and validates it against the named schema.
// Both failures are InvalidInput.
func (v *Validator) Check(name Schema, raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return apperr.InvalidInput(err, "invalid %s JSON", name)
	}
	schema, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("unknown schema %q", name)
	}
	if err := schema.Validate(doc); err != nil {
		return apperr.InvalidInput(err, "%s payload rejected", name)
	}
	return nil
}

// ParseCreatePayload turns a creation payload into an un-normalized record.
// A history value that is not a well-formed array of entries is dropped.
func (v *Validator) ParseCreatePayload(raw []byte) (*LandRecord, error) {
	if err := v.Check(SchemaCreate, raw); err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, apperr.InvalidInput(err, "invalid create JSON")
	}
	if h, ok := fields["history"]; ok {
		var entries []HistoryEntry
		if err := json.Unmarshal(h, &entries); err != nil {
			delete(fields, "history")
		}
	}
	if d, ok := fields["documents"]; ok {
		var docs []DocumentEntry
		if err := json.Unmarshal(d, &docs); err != nil {
			delete(fields, "documents")
		}
	}

	cleaned, err := json.Marshal(fields)
	if err != nil {
		return nil, apperr.InvalidInput(err, "invalid create JSON")
	}
	var r LandRecord
	if err := json.Unmarshal(cleaned, &r); err != nil {
		return nil, apperr.InvalidInput(err, "invalid create JSON")
	}
	return &r, nil
}
