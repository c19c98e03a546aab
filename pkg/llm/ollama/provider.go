package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-coding-assistant-be/pkg/llm"

	"resty.dev/v3"
)

type OllamaProvider struct {
	ModelName string
	client    *resty.Client
}

var _ llm.LLMProvider = (*OllamaProvider)(nil)

func NewOllamaProvider(baseURL, modelName string) *OllamaProvider {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(120*time.Second).
		SetHeader("Content-Type", "application/json")

	return &OllamaProvider{
		ModelName: modelName,
		client:    client,
	}
}

// --- Request/Response structs (Internal to this package) ---

type ollamaChatRequest struct {
	Model    string         `json:"model"`
	Messages []llm.Message  `json:"messages"`
	Stream   bool           `json:"stream"`
	Options  *ollamaOptions `json:"options,omitempty"`
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type ollamaChatResponse struct {
	Model   string      `json:"model"`
	Message llm.Message `json:"message"`
	Done    bool        `json:"done"`
}

type ollamaError struct {
	Error string `json:"error"`
}

func (o *OllamaProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	options := llm.Apply(llm.Options{Model: o.ModelName, Temperature: 0.7}, opts...)

	reqPayload := ollamaChatRequest{
		Model:    options.Model,
		Messages: history,
		Stream:   false,
		Options: &ollamaOptions{
			Temperature: options.Temperature,
			NumPredict:  options.MaxTokens,
		},
	}

	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(reqPayload).
		Post("/api/chat")
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}

	respBytes := resp.Bytes()
	if resp.StatusCode() >= 400 {
		var apiErr ollamaError
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Error != "" {
			return "", fmt.Errorf("ollama error: status %d: %s", resp.StatusCode(), apiErr.Error)
		}
		return "", fmt.Errorf("ollama error: status %d: %s", resp.StatusCode(), string(respBytes))
	}

	var out ollamaChatResponse
	if err := json.Unmarshal(respBytes, &out); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}
	return out.Message.Content, nil
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	return o.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, opts...)
}
