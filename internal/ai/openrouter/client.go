// Package openrouter implements the ai.Generator interface on top of the
// OpenRouter chat completions API.
package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/career-companion/internal/ai"
	"github.com/spigell/career-companion/internal/logger"
	"github.com/spigell/career-companion/internal/utils"
)

const (
	// DefaultBaseURL is the public OpenRouter API endpoint.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	providerName        = "openrouter"
	defaultMaxLogLength = 200
	maxErrorBody        = 4096
)

// Client talks to OpenRouter. It is safe for concurrent use.
type Client struct {
	baseURL     string
	apiKey      string
	temperature float64
	httpClient  *http.Client
	logger      *zap.Logger
	maxLogLen   int
}

// Option customizes a Client.
type Option func(*Client)

func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url = strings.TrimRight(strings.TrimSpace(url), "/"); url != "" {
			c.baseURL = url
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithTemperature(t float64) Option {
	return func(c *Client) { c.temperature = t }
}

func WithMaxLogLength(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxLogLen = n
		}
	}
}

// New creates a Client authenticated with apiKey.
func New(apiKey string, log *zap.Logger, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openrouter api key is required")
	}

	c := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{},
		logger:     logger.WithFields(log, zap.String(logger.FieldProvider, providerName)),
		maxLogLen:  defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

func (c *Client) Provider() string { return providerName }

// Generate performs one chat completion against req.Model and returns the
// assistant message content.
func (c *Client) Generate(ctx context.Context, req ai.Request) (string, error) {
	model := strings.TrimSpace(req.Model)
	if model == "" {
		return "", errors.New("model must not be empty")
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	body, err := json.Marshal(buildRequest(model, c.temperature, req))
	if err != nil {
		return "", fmt.Errorf("marshal chat completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	log := c.logger.With(zap.String(logger.FieldModel, model), zap.String(logger.FieldContract, req.ContractName))
	log.Debug("openrouter chat completion request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", c.fail(ai.KindTransport, model, 0, fmt.Errorf("send request: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", c.fail(ai.KindForStatus(resp.StatusCode), model, resp.StatusCode,
			fmt.Errorf("bad status: %s: %s", resp.Status, errorMessage(raw)))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return "", c.fail(ai.KindMalformedOutput, model, resp.StatusCode, fmt.Errorf("decode response: %w", err))
	}

	// OpenRouter reports some upstream failures inside a 200 body.
	if completion.Error != nil {
		return "", c.fail(ai.KindForStatus(completion.Error.Code), model, completion.Error.Code,
			errors.New(completion.Error.Message))
	}

	content := completion.content()
	if content == "" {
		return "", c.fail(ai.KindEmptyOutput, model, resp.StatusCode, errors.New("model returned no content"))
	}

	log.Debug("openrouter chat completion response",
		zap.String("finish_reason", completion.finishReason()),
		zap.Int("response_length", utf8.RuneCountInString(content)),
		zap.String("response_preview", utils.TruncateForLog(content, c.maxLogLen)),
	)

	return content, nil
}

func (c *Client) fail(kind ai.Kind, model string, status int, err error) error {
	return &ai.Error{
		Kind:       kind,
		Provider:   providerName,
		Model:      model,
		StatusCode: status,
		Err:        err,
	}
}

// errorMessage extracts the message of an OpenRouter error body, falling back
// to the raw text.
func errorMessage(raw []byte) string {
	var body struct {
		Error *apiError `json:"error"`
	}
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != nil && body.Error.Message != "" {
		return body.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
