package ai

import (
	"context"

	"github.com/spigell/career-companion/internal/contracts"
)

// Request is one structured generation call against a single model.
type Request struct {
	// Model is the model identifier used for this call only.
	Model        string
	Instructions string
	Prompt       string
	// ContractName and Schema describe the expected structured output. Schema
	// may be nil for free-form JSON.
	ContractName string
	Schema       *contracts.Schema
}

// Generator performs a single generation call and returns the raw answer.
// Failures should be reported as *Error so callers can classify them.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
	Provider() string
}
