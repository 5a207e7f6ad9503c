package openrouter

import (
	"strings"

	"github.com/spigell/career-companion/internal/ai"
)

// Chat API types (OpenAI-compatible).

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type jsonSchemaFormat struct {
	Name   string         `json:"name"`
	Strict bool           `json:"strict"`
	Schema map[string]any `json:"schema"`
}

type responseFormat struct {
	Type       string            `json:"type"`
	JSONSchema *jsonSchemaFormat `json:"json_schema,omitempty"`
}

type chatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
}

type choice struct {
	Index        int         `json:"index"`
	FinishReason string      `json:"finish_reason"`
	Message      chatMessage `json:"message"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type chatCompletionResponse struct {
	ID      string    `json:"id"`
	Model   string    `json:"model"`
	Choices []choice  `json:"choices"`
	Error   *apiError `json:"error,omitempty"`
}

func (r *chatCompletionResponse) content() string {
	for _, c := range r.Choices {
		if text := strings.TrimSpace(c.Message.Content); text != "" {
			return text
		}
	}
	return ""
}

func (r *chatCompletionResponse) finishReason() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].FinishReason
}

func buildRequest(model string, temperature float64, req ai.Request) chatCompletionRequest {
	messages := make([]chatMessage, 0, 2)
	if instructions := strings.TrimSpace(req.Instructions); instructions != "" {
		messages = append(messages, chatMessage{Role: "system", Content: instructions})
	}
	messages = append(messages, chatMessage{Role: "user", Content: strings.TrimSpace(req.Prompt)})

	out := chatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: &temperature,
	}

	if req.Schema != nil {
		name := req.ContractName
		if name == "" {
			name = "result"
		}
		out.ResponseFormat = &responseFormat{
			Type: "json_schema",
			JSONSchema: &jsonSchemaFormat{
				Name:   name,
				Schema: req.Schema.JSONSchema(),
			},
		}
	} else {
		out.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	return out
}
