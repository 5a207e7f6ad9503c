package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-companion/internal/ai"
	"github.com/spigell/career-companion/internal/contracts"
	"github.com/spigell/career-companion/internal/logger"
	"github.com/spigell/career-companion/internal/roster"
	"github.com/spigell/career-companion/internal/utils"
)

const defaultMaxLogLength = 200

// Runner executes agent specs against a generator with sequential failover
// over a model roster. A Runner is immutable and safe for concurrent use.
type Runner struct {
	generator ai.Generator
	roster    roster.Roster
	logger    *zap.Logger
	maxLogLen int
}

// NewRunner creates a runner that tries models in roster order.
func NewRunner(generator ai.Generator, models roster.Roster, log *zap.Logger, maxLogLength int) (*Runner, error) {
	if generator == nil {
		return nil, fmt.Errorf("generator is required")
	}
	if models.Len() == 0 {
		return nil, roster.ErrEmpty
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Runner{
		generator: generator,
		roster:    models,
		logger:    logger.WithFields(log, logger.StringFields(logger.StringField{Key: logger.FieldProvider, Value: generator.Provider()})...),
		maxLogLen: maxLogLength,
	}, nil
}

// Roster returns the models the runner fails over across.
func (r *Runner) Roster() roster.Roster { return r.roster }

// Provider names the backend behind the runner.
func (r *Runner) Provider() string { return r.generator.Provider() }

// Run executes spec with prompt, trying each roster model in order until one
// returns a payload that satisfies the agent contract.
//
// Rejected credentials stop the loop at once with a *CredentialError. Any other
// failure moves on to the next model without delay. When the roster runs out a
// *ExhaustedRosterError wrapping the last failure is returned.
func Run[T any](ctx context.Context, r *Runner, spec *Spec[T], prompt string) (*T, error) {
	if r == nil {
		return nil, fmt.Errorf("runner is required")
	}
	if spec == nil {
		return nil, fmt.Errorf("agent spec is required")
	}
	if r.roster.Len() == 0 {
		return nil, roster.ErrEmpty
	}

	models := r.roster.Models()
	log := logger.WithFields(r.logger, zap.String(logger.FieldAgent, spec.Name))
	log.Debug("agent prompt", zap.String("prompt", utils.TruncateForLog(prompt, r.maxLogLen)))

	attempts := make([]Attempt, 0, len(models))
	var lastErr error

	for i, model := range models {
		attemptLog := logger.WithFields(r.logger, logger.AttemptFields(spec.Name, model, i+1, len(models))...)

		result, err := attempt(ctx, r, spec, model, prompt, attemptLog)
		if err == nil {
			attemptLog.Info("agent succeeded")
			return result, nil
		}

		kind := kindOf(err)
		attempts = append(attempts, Attempt{Model: model, Kind: kind, Err: err})
		lastErr = err

		if kind == ai.KindUnauthorized {
			attemptLog.Error("credentials rejected, aborting failover", zap.Error(err))
			return nil, &CredentialError{Agent: spec.Name, Model: model, Err: err}
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			attemptLog.Warn("context done, aborting failover", zap.Error(ctxErr))
			return nil, fmt.Errorf("agent %s: %w", spec.Name, ctxErr)
		}

		if i < len(models)-1 {
			attemptLog.Warn("model failed, trying next candidate",
				zap.String("error_kind", string(kind)),
				zap.String("next_model", models[i+1]),
				zap.Error(err),
			)
			continue
		}

		attemptLog.Error("model failed, no candidates left",
			zap.String("error_kind", string(kind)),
			zap.Error(err),
		)
	}

	return nil, &ExhaustedRosterError{Agent: spec.Name, Attempts: attempts, Err: lastErr}
}

func attempt[T any](ctx context.Context, r *Runner, spec *Spec[T], model, prompt string, log *zap.Logger) (*T, error) {
	raw, err := r.generator.Generate(ctx, ai.Request{
		Model:        model,
		Instructions: spec.Instructions,
		Prompt:       prompt,
		ContractName: spec.Contract.Name,
		Schema:       spec.Contract.Schema,
	})
	if err != nil {
		if ai.KindOf(err) == ai.KindEmptyOutput {
			return nil, fmt.Errorf("%w: %w", ErrEmptyOutput, err)
		}
		return nil, err
	}

	log.Debug("agent response", zap.String("response", utils.TruncateForLog(raw, r.maxLogLen)))

	if strings.TrimSpace(raw) == "" {
		return nil, ErrEmptyOutput
	}

	result, err := spec.Contract.Parse(raw)
	if err != nil {
		if errors.Is(err, contracts.ErrEmptyPayload) {
			return nil, ErrEmptyOutput
		}
		var verr *contracts.ValidationError
		if errors.As(err, &verr) {
			return nil, &SchemaValidationError{Model: model, Err: verr}
		}
		return nil, err
	}

	return result, nil
}
