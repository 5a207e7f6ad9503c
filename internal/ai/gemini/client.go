package gemini

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/career-companion/internal/ai"
	"github.com/spigell/career-companion/internal/logger"
	"github.com/spigell/career-companion/internal/utils"
)

const (
	providerName        = "gemini"
	defaultMaxLogLength = 200
	jsonMIMEType        = "application/json"
	permissionDenied    = "PERMISSION_DENIED"
)

type modelsAPI interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator wraps the Google GenAI client. The model is chosen per request.
type Generator struct {
	models      modelsAPI
	temperature float32
	logger      *zap.Logger
	maxLogLen   int
}

// NewGenerator creates a new Generator configured for the Gemini API backend.
func NewGenerator(ctx context.Context, apiKey string, temperature float32, maxLogLength int, log *zap.Logger) (*Generator, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is required")
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Generator{
		models:      client.Models,
		temperature: temperature,
		logger:      logger.WithFields(log, zap.String(logger.FieldProvider, providerName)),
		maxLogLen:   maxLogLength,
	}, nil
}

func (g *Generator) Provider() string { return providerName }

// Generate sends one structured request to req.Model and returns the textual answer.
func (g *Generator) Generate(ctx context.Context, req ai.Request) (string, error) {
	if g == nil || g.models == nil {
		return "", errors.New("gemini generator is not initialized")
	}

	model := strings.TrimSpace(req.Model)
	if model == "" {
		return "", errors.New("model must not be empty")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	temperature := g.temperature
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: jsonMIMEType,
		Temperature:      &temperature,
	}
	if instructions := strings.TrimSpace(req.Instructions); instructions != "" {
		config.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: instructions}}}
	}
	if req.Schema != nil {
		config.ResponseSchema = toGenaiSchema(req.Schema)
	}

	log := g.logger.With(zap.String(logger.FieldModel, model), zap.String(logger.FieldContract, req.ContractName))
	log.Debug("gemini generate content request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, g.maxLogLen)),
	)

	resp, err := g.models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", g.classify(model, err)
	}

	output := collectText(resp)
	if output == "" {
		return "", &ai.Error{
			Kind:     ai.KindEmptyOutput,
			Provider: providerName,
			Model:    model,
			Err:      errors.New("gemini api returned empty response"),
		}
	}

	log.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(output)),
		zap.String("response_preview", utils.TruncateForLog(output, g.maxLogLen)),
	)

	return output, nil
}

func (g *Generator) classify(model string, err error) error {
	wrapped := &ai.Error{
		Kind:     ai.KindTransport,
		Provider: providerName,
		Model:    model,
		Err:      fmt.Errorf("generate content: %w", err),
	}

	apiErr, ok := asAPIError(err)
	if !ok {
		return wrapped
	}

	wrapped.StatusCode = apiErr.Code
	wrapped.Kind = ai.KindForStatus(apiErr.Code)
	// Gemini answers a rejected or restricted API key with 403 PERMISSION_DENIED.
	if apiErr.Code == http.StatusForbidden && apiErr.Status == permissionDenied {
		wrapped.Kind = ai.KindUnauthorized
	}

	return wrapped
}

func asAPIError(err error) (genai.APIError, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}

	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return *apiErrPtr, true
	}

	return genai.APIError{}, false
}

// collectText returns the text of the first candidate that has any.
func collectText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}

		var builder strings.Builder
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			builder.WriteString(part.Text)
		}

		if text := strings.TrimSpace(builder.String()); text != "" {
			return text
		}
	}

	return ""
}
