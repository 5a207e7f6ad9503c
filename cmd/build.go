package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-companion/internal/agent"
	"github.com/spigell/career-companion/internal/ai"
	"github.com/spigell/career-companion/internal/ai/gemini"
	"github.com/spigell/career-companion/internal/ai/openrouter"
	"github.com/spigell/career-companion/internal/pipeline"
	"github.com/spigell/career-companion/internal/roster"
	"github.com/spigell/career-companion/internal/secrets"
)

func normalizedProvider(config *Config) string {
	provider := strings.ToLower(strings.TrimSpace(config.Provider))
	if provider == "" {
		return providerOpenRouter
	}
	return provider
}

var errMissingAPIKey = errors.New("api key is not configured")

// resolveAPIKey loads the credential of the configured provider. A placeholder
// key is logged and passed through to the backend.
func resolveAPIKey(config *Config, logger *zap.Logger) (string, error) {
	var src secrets.Source
	switch provider := normalizedProvider(config); provider {
	case providerOpenRouter:
		src = secrets.Source{Name: "openrouter api key"}
		if config.OpenRouter != nil {
			src.Value = config.OpenRouter.APIKey
			src.File = config.OpenRouter.APIKeyFile
		}
	case providerGemini:
		src = secrets.Source{Name: "gemini api key"}
		if config.Gemini != nil {
			src.Value = config.Gemini.APIKey
			src.File = config.Gemini.APIKeyFile
		}
	default:
		return "", fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}

	key, err := secrets.Load(src)
	switch {
	case errors.Is(err, secrets.ErrPlaceholder):
		logger.Warn("api key looks like a placeholder",
			zap.String("provider", normalizedProvider(config)),
			zap.String("hint", "replace the sample value in your .env or config file"),
		)
		return key, nil
	case err != nil && src.File != "":
		return "", err
	case err != nil:
		logger.Warn("api key is not configured",
			zap.String("provider", normalizedProvider(config)),
			zap.Error(err),
		)
		return "", fmt.Errorf("%w: %v", errMissingAPIKey, err)
	}

	return key, nil
}

func newGenerator(ctx context.Context, config *Config, apiKey string, logger *zap.Logger) (ai.Generator, error) {
	genLogger := logger.With(zap.String("provider", normalizedProvider(config)))

	switch normalizedProvider(config) {
	case providerGemini:
		return gemini.NewGenerator(ctx, apiKey, float32(config.Temperature), config.MaxLogLength, genLogger)
	case providerOpenRouter:
		opts := []openrouter.Option{
			openrouter.WithTemperature(config.Temperature),
			openrouter.WithMaxLogLength(config.MaxLogLength),
		}
		if config.OpenRouter != nil && strings.TrimSpace(config.OpenRouter.BaseURL) != "" {
			opts = append(opts, openrouter.WithBaseURL(config.OpenRouter.BaseURL))
		}
		return openrouter.New(apiKey, genLogger, opts...)
	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", config.Provider)
	}
}

func newRunner(ctx context.Context, config *Config, logger *zap.Logger) (*agent.Runner, error) {
	models, err := roster.Parse(config.Models)
	if err != nil {
		return nil, fmt.Errorf("parse models: %w", err)
	}

	apiKey, err := resolveAPIKey(config, logger)
	if err != nil {
		return nil, fmt.Errorf("load api key: %w", err)
	}

	generator, err := newGenerator(ctx, config, apiKey, logger)
	if err != nil {
		return nil, fmt.Errorf("create %s generator: %w", normalizedProvider(config), err)
	}

	logger.Info("model roster", zap.Strings("models", models.Models()))

	return agent.NewRunner(generator, models, logger, config.MaxLogLength)
}

func newOrchestrator(ctx context.Context, config *Config, logger *zap.Logger) (*pipeline.Orchestrator, error) {
	runner, err := newRunner(ctx, config, logger)
	if err != nil {
		return nil, err
	}

	return pipeline.New(runner, logger, config.Pipeline)
}

// describeFailure turns a pipeline error into the line shown to the user.
func describeFailure(provider string, err error) string {
	var credErr *agent.CredentialError
	if errors.As(err, &credErr) || errors.Is(err, errMissingAPIKey) {
		return fmt.Sprintf("%s API key is invalid or missing, check your configuration", providerTitle(provider))
	}

	var exhausted *agent.ExhaustedRosterError
	if errors.As(err, &exhausted) {
		return fmt.Sprintf("all %d configured models failed, last error: %v", len(exhausted.Attempts), exhausted.Err)
	}

	switch {
	case errors.Is(err, pipeline.ErrEmptyResume):
		return "the uploaded file contains no text"
	case errors.Is(err, pipeline.ErrEmptyRole):
		return "a target role is required"
	}

	return fmt.Sprintf("failed to build the career report: %v", err)
}

func providerTitle(provider string) string {
	switch provider {
	case providerOpenRouter:
		return "OpenRouter"
	case providerGemini:
		return "Gemini"
	default:
		return provider
	}
}
