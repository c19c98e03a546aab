package huggingface

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-coding-assistant-be/pkg/llm"

	"resty.dev/v3"
)

const defaultBaseURL = "https://router.huggingface.co/v1"

type HuggingFaceProvider struct {
	model  string
	client *resty.Client
}

var _ llm.LLMProvider = (*HuggingFaceProvider)(nil)

// Request Payload Structure (OpenAI Compatible)
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewHuggingFaceProvider(apiKey, baseURL, model string) *HuggingFaceProvider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(120*time.Second).
		SetHeader("Content-Type", "application/json")
	if apiKey != "" {
		client.SetHeader("Authorization", fmt.Sprintf("Bearer %s", apiKey))
	}

	return &HuggingFaceProvider{
		model:  model,
		client: client,
	}
}

func (p *HuggingFaceProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := llm.Apply(llm.Options{Model: p.model, MaxTokens: 500}, options...)

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(chatRequest{
			Model:       opts.Model,
			Messages:    history,
			MaxTokens:   opts.MaxTokens,
			Temperature: opts.Temperature,
		}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("huggingface request failed: %w", err)
	}

	var out chatResponse
	decodeErr := json.Unmarshal(resp.Bytes(), &out)
	if out.Error != nil {
		return "", fmt.Errorf("huggingface api returned error (status %d): %s", resp.StatusCode(), out.Error.Message)
	}
	if resp.IsError() {
		return "", fmt.Errorf("huggingface api error (status %d): %s", resp.StatusCode(), resp.String())
	}
	if decodeErr != nil {
		return "", fmt.Errorf("failed to decode huggingface response: %w", decodeErr)
	}

	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Message.Content, nil
}

func (p *HuggingFaceProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}}, options...)
}
