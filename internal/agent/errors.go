package agent

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spigell/career-companion/internal/ai"
	"github.com/spigell/career-companion/internal/contracts"
)

// ErrEmptyOutput is recorded when a model answered without any payload.
var ErrEmptyOutput = errors.New("model returned empty output")

// CredentialError means the backend rejected the configured credential. The
// remaining models of the roster are not tried.
type CredentialError struct {
	Agent string
	Model string
	Err   error
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("agent %s: credentials rejected by model %s: %v", e.Agent, e.Model, e.Err)
}

func (e *CredentialError) Unwrap() error { return e.Err }

// SchemaValidationError means a model answered with a payload that does not
// satisfy the agent contract.
type SchemaValidationError struct {
	Model string
	Err   *contracts.ValidationError
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("model %s: %v", e.Model, e.Err)
}

func (e *SchemaValidationError) Unwrap() error { return e.Err }

// Attempt records the outcome of one failed model call.
type Attempt struct {
	Model string
	Kind  ai.Kind
	Err   error
}

// ExhaustedRosterError is returned when every model on the roster failed.
// Err is the failure of the last model tried.
type ExhaustedRosterError struct {
	Agent    string
	Attempts []Attempt
	Err      error
}

func (e *ExhaustedRosterError) Error() string {
	models := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		models = append(models, a.Model)
	}
	return fmt.Sprintf("agent %s: all %d models failed (%s): last error: %v",
		e.Agent, len(e.Attempts), strings.Join(models, ", "), e.Err)
}

func (e *ExhaustedRosterError) Unwrap() error { return e.Err }

// kindOf extends ai.KindOf with the failures produced by the runner itself.
func kindOf(err error) ai.Kind {
	var schemaErr *SchemaValidationError
	switch {
	case errors.Is(err, ErrEmptyOutput):
		return ai.KindEmptyOutput
	case errors.As(err, &schemaErr):
		return ai.KindMalformedOutput
	default:
		return ai.KindOf(err)
	}
}
