package contracts

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/xeipuuv/gojsonschema"
)

// ErrEmptyPayload is returned when a model answered with no usable payload.
var ErrEmptyPayload = errors.New("empty structured payload")

var validate = validator.New()

// Contract binds a result type to the schema its raw payloads must satisfy.
// A Contract is immutable and safe for concurrent use.
type Contract[T any] struct {
	Name   string
	Schema *Schema

	compiled *gojsonschema.Schema
}

// NewContract compiles schema and returns a contract for T.
func NewContract[T any](name string, schema *Schema) (*Contract[T], error) {
	if schema == nil {
		return nil, fmt.Errorf("contract %s: schema is required", name)
	}

	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema.JSONSchema()))
	if err != nil {
		return nil, &SchemaLoadError{Contract: name, Cause: err}
	}

	return &Contract[T]{Name: name, Schema: schema, compiled: compiled}, nil
}

// MustContract is like NewContract but panics if the schema does not compile.
func MustContract[T any](name string, schema *Schema) *Contract[T] {
	c, err := NewContract[T](name, schema)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse turns a raw model answer into a validated T. Blank answers and JSON
// null yield ErrEmptyPayload; anything that does not satisfy the schema or the
// struct constraints yields a *ValidationError.
func (c *Contract[T]) Parse(raw string) (*T, error) {
	cleaned := CleanJSON(raw)
	if cleaned == "" || cleaned == "null" {
		return nil, ErrEmptyPayload
	}

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &ValidationError{
			Contract: c.Name,
			Errors:   []FieldError{{Field: rootField, Message: fmt.Sprintf("malformed json: %v", err)}},
		}
	}
	if doc == nil {
		return nil, ErrEmptyPayload
	}

	if err := c.validateDocument(doc); err != nil {
		return nil, err
	}

	var out T
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  &out,
	})
	if err != nil {
		return nil, fmt.Errorf("contract %s: create decoder: %w", c.Name, err)
	}
	if err := decoder.Decode(doc); err != nil {
		return nil, &ValidationError{
			Contract: c.Name,
			Errors:   []FieldError{{Field: rootField, Message: err.Error()}},
		}
	}

	if err := ValidateStruct(c.Name, out); err != nil {
		return nil, err
	}

	return &out, nil
}

func (c *Contract[T]) validateDocument(doc any) error {
	result, err := c.compiled.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ValidationError{
			Contract: c.Name,
			Errors:   []FieldError{{Field: rootField, Message: err.Error()}},
		}
	}

	if result.Valid() {
		return nil
	}

	verr := &ValidationError{Contract: c.Name, Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = rootField
		}
		verr.Errors = append(verr.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return verr
}

// ValidateStruct runs the `validate` tag constraints of v.
func ValidateStruct(name string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("contract %s: %w", name, err)
	}

	verr := &ValidationError{Contract: name, Errors: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		verr.Errors = append(verr.Errors, FieldError{
			Field:   fe.Namespace(),
			Message: fmt.Sprintf("failed %q constraint (value %v)", describeTag(fe), fe.Value()),
		})
	}
	return verr
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// CleanJSON strips markdown code fences and surrounding prose from a model
// answer, returning the first JSON object or array found.
func CleanJSON(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// Drop a language tag such as "json" on the opening fence.
		if idx := strings.Index(text, "\n"); idx >= 0 {
			if first := strings.TrimSpace(text[:idx]); !strings.ContainsAny(first, "{[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	if text == "" || text == "null" {
		return text
	}

	if value, ok := extractJSONValue(text); ok {
		return value
	}
	return text
}

// extractJSONValue returns the first balanced object or array in text.
func extractJSONValue(text string) (string, bool) {
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return "", false
	}

	open := text[start]
	closing := byte('}')
	if open == '[' {
		closing = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}

	return "", false
}
