// internal/common/validation/schema.go
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"loan-assessment-workers/internal/documents"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/*.json
var schemaFS embed.FS

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// Summary joins the errors into one line for logs and BPMN error details.
func (r *ValidationResult) Summary() string {
	var buf bytes.Buffer
	for i, e := range r.Errors {
		if i > 0 {
			buf.WriteString("; ")
		}
		fmt.Fprintf(&buf, "%s: %s", e.Field, e.Message)
	}
	return buf.String()
}

// DocumentValidator checks document payloads against the embedded per-type field schemas.
// It is safe for concurrent use.
type DocumentValidator struct {
	schemas map[documents.Type]*gojsonschema.Schema
}

// NewDocumentValidator compiles one schema per known document type.
func NewDocumentValidator() (*DocumentValidator, error) {
	v := &DocumentValidator{schemas: make(map[documents.Type]*gojsonschema.Schema, len(documents.Types))}
	for _, t := range documents.Types {
		raw, err := schemaFS.ReadFile("schemas/" + string(t) + ".json")
		if err != nil {
			return nil, fmt.Errorf("read %s schema: %w", t, err)
		}
		schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("compile %s schema: %w", t, err)
		}
		v.schemas[t] = schema
	}
	return v, nil
}

// Validate checks a raw {"type", "fields"} payload. Unknown types are rejected here even
// though the scoring core tolerates them, so that nothing unusable is persisted.
func (v *DocumentValidator) Validate(raw []byte) (documents.Type, *ValidationResult) {
	var envelope struct {
		Type   documents.Type  `json:"type"`
		Fields json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", invalid("(root)", err.Error(), "INVALID_JSON")
	}

	schema, ok := v.schemas[envelope.Type]
	if !ok {
		return envelope.Type, invalid("type", fmt.Sprintf("unknown document type %q", envelope.Type), "UNKNOWN_DOCUMENT_TYPE")
	}

	fields := bytes.TrimSpace(envelope.Fields)
	if len(fields) == 0 || bytes.Equal(fields, []byte("null")) {
		fields = []byte("{}")
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(fields))
	if err != nil {
		return envelope.Type, invalid("fields", err.Error(), "INVALID_JSON")
	}
	if result.Valid() {
		return envelope.Type, &ValidationResult{Valid: true}
	}

	errs := make([]ValidationError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		errs = append(errs, ValidationError{
			Field:   "fields." + desc.Field(),
			Message: desc.Description(),
			Code:    desc.Type(),
		})
	}
	sort.Slice(errs, func(i, j int) bool { return errs[i].Field < errs[j].Field })

	return envelope.Type, &ValidationResult{Valid: false, Errors: errs}
}

func invalid(field, message, code string) *ValidationResult {
	return &ValidationResult{
		Valid:  false,
		Errors: []ValidationError{{Field: field, Message: message, Code: code}},
	}
}
