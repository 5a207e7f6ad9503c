package contracts

import (
	"fmt"
	"strings"
)

const rootField = "(root)"

// ValidationError reports why a payload does not satisfy a contract.
type ValidationError struct {
	Contract string
	Errors   []FieldError
}

// FieldError is a single violation at a field path.
type FieldError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s payload failed validation:", ve.Contract))
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf(" %d. %s: %s;", i+1, err.Field, err.Message))
	}
	return strings.TrimSuffix(sb.String(), ";")
}

// Fields returns the paths of all violations.
func (ve *ValidationError) Fields() []string {
	fields := make([]string, 0, len(ve.Errors))
	for _, e := range ve.Errors {
		fields = append(fields, e.Field)
	}
	return fields
}

// SchemaLoadError reports a contract schema that could not be compiled.
type SchemaLoadError struct {
	Contract string
	Cause    error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("compile schema for contract %s: %v", e.Contract, e.Cause)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}
