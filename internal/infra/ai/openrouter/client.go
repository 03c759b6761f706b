package openrouter

import (
	"context"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	domain "github.com/bintangp/dermalens/internal/domain/analysis"
)

const (
	defaultBaseURL = "https://openrouter.ai/api/v1"
	maxTokens      = 2048
)

// Client talks to an OpenAI-compatible chat-completions endpoint and walks an
// ordered list of candidate models until one answers.
type Client struct {
	api         *openai.Client
	temperature float32
}

func NewClient(apiKey, baseURL string, temperature float32) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	cfg.BaseURL = baseURL
	return &Client{api: openai.NewClientWithConfig(cfg), temperature: temperature}
}

// Complete tries each model exactly once, strictly in order. A credential
// rejection or an unclassified status aborts the cascade; a per-model 400/404
// or a network-level failure advances to the next candidate. On exhaustion the
// most recently captured error is returned.
func (c *Client) Complete(ctx context.Context, instruction string, images []string, models []string) (string, error) {
	if len(models) == 0 {
		return "", &domain.CascadeError{Kind: domain.KindUnknown, Err: errors.New("no candidate models")}
	}

	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: instruction},
	}
	for _, img := range images {
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: img},
		})
	}

	var lastErr error
	for _, model := range models {
		req := openai.ChatCompletionRequest{
			Model:       model,
			Temperature: c.temperature,
			MaxTokens:   maxTokens,
			ResponseFormat: &openai.ChatCompletionResponseFormat{
				Type: openai.ChatCompletionResponseFormatTypeJSONObject,
			},
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleUser, MultiContent: parts},
			},
		}

		resp, err := c.api.CreateChatCompletion(ctx, req)
		if err != nil {
			cerr := classify(model, err)
			if cerr.Fatal() {
				return "", cerr
			}
			lastErr = cerr
			continue
		}
		if len(resp.Choices) == 0 {
			lastErr = &domain.CascadeError{
				Kind:  domain.KindModelUnavailable,
				Model: model,
				Err:   fmt.Errorf("empty choices in response"),
			}
			continue
		}
		return resp.Choices[0].Message.Content, nil
	}

	return "", lastErr
}

// classify turns a go-openai error into a tagged cascade outcome. Status codes
// decide fatality; errors without a status are network-level and skippable.
func classify(model string, err error) *domain.CascadeError {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return classifyStatus(model, apiErr.HTTPStatusCode, err)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return classifyStatus(model, reqErr.HTTPStatusCode, err)
	}
	return &domain.CascadeError{Kind: domain.KindTransport, Model: model, Err: err}
}

func classifyStatus(model string, status int, err error) *domain.CascadeError {
	kind := domain.KindUnknown
	switch status {
	case 401, 403:
		kind = domain.KindCredential
	case 400, 404:
		kind = domain.KindModelUnavailable
	}
	return &domain.CascadeError{Kind: kind, Status: status, Model: model, Err: err}
}
