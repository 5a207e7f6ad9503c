package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the AI provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the AI model identifier.
	FieldModel = "ai_model"
	// FieldAgent names the agent definition being executed.
	FieldAgent = "agent"
	// FieldContract names the structured output contract of a request.
	FieldContract = "contract"
	// FieldAttempt is the 1-based failover attempt number.
	FieldAttempt = "attempt"
	// FieldCandidates is the size of the model roster.
	FieldCandidates = "candidates"
	// FieldStage names the pipeline stage.
	FieldStage = "stage"
	// FieldRunID identifies one pipeline run.
	FieldRunID = "run_id"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger, defaulting to
// a no-op logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns standard zap fields that describe the AI provider and model.
// Empty values are ignored to keep log entries compact when information is missing.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the common AI fields to the provided logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// AttemptFields describes one failover attempt of an agent.
func AttemptFields(agent, model string, attempt, candidates int) []zap.Field {
	fields := StringFields(
		StringField{Key: FieldAgent, Value: agent},
		StringField{Key: FieldModel, Value: model},
	)
	return append(fields,
		zap.Int(FieldAttempt, attempt),
		zap.Int(FieldCandidates, candidates),
	)
}
