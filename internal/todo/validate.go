package todo

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed slot.schema.json
var slotSchemaJSON string

// SlotSchema returns the JSON Schema the persisted slot must satisfy.
func SlotSchema() string {
	return slotSchemaJSON
}

var compileSlotSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	return jsonschema.CompileString("slot.schema.json", slotSchemaJSON)
})

// ValidationError represents a validation error with context.
type ValidationError struct {
	Path string // JSON path to the error location
	Err  error  // Underlying error
}

func (e *ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Err)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid  bool
	Errors []error
}

// Err joins all errors, or returns nil for a valid result.
func (r *ValidationResult) Err() error {
	if r.Valid {
		return nil
	}
	return errors.Join(r.Errors...)
}

// Validate checks a raw slot value: it must be JSON, satisfy the slot
// schema, and use every id at most once.
func Validate(data []byte) *ValidationResult {
	result := &ValidationResult{
		Valid:  true,
		Errors: make([]error, 0),
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("parse slot: %w", err),
		})
		return result
	}
	if dec.More() {
		result.Valid = false
		result.Errors = append(result.Errors, &ValidationError{
			Err: fmt.Errorf("parse slot: trailing data after array"),
		})
		return result
	}

	schema, err := compileSlotSchema()
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Errorf("compile slot schema: %w", err))
		return result
	}
	if err := schema.Validate(doc); err != nil {
		result.Valid = false
		appendSchemaErrors(result, err)
		return result
	}

	validateUniqueIDs(doc, result)
	return result
}

// validateUniqueIDs reports repeated ids, which the schema cannot express.
func validateUniqueIDs(doc any, result *ValidationResult) {
	items, ok := doc.([]any)
	if !ok {
		return
	}
	seen := make(map[string]int, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id := fmt.Sprint(obj["id"])
		if first, dup := seen[id]; dup {
			result.Valid = false
			result.Errors = append(result.Errors, &ValidationError{
				Path: fmt.Sprintf("[%d].id", i),
				Err:  fmt.Errorf("duplicate id %s (first used at [%d])", id, first),
			})
			continue
		}
		seen[id] = i
	}
}

func appendSchemaErrors(result *ValidationResult, err error) {
	if err == nil {
		return
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.Errors = append(result.Errors, err)
		return
	}

	collectSchemaErrors(result, ve)
}

func collectSchemaErrors(result *ValidationResult, err *jsonschema.ValidationError) {
	if err == nil {
		return
	}

	if len(err.Causes) == 0 {
		result.Errors = append(result.Errors, &ValidationError{
			Path: jsonPointerToPath(err.InstanceLocation),
			Err:  fmt.Errorf("%s", err.Message),
		})
		return
	}

	for _, cause := range err.Causes {
		collectSchemaErrors(result, cause)
	}
}

// jsonPointerToPath converts "/0/text" into "[0].text".
func jsonPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
