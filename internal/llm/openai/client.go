// Package openai implements llm.Summarizer with the official OpenAI SDK.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"documate/internal/llm"
)

const (
	providerName = "openai"
	DefaultModel = "gpt-4o-mini"
)

// Client wraps an SDK client bound to one model.
type Client struct {
	sdk      openai.Client
	model    string
	provider string
}

// NewClient constructs an OpenAI client. baseURL is optional and allows
// any OpenAI-compatible endpoint.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	return NewCompatible(providerName, apiKey, model, baseURL, timeout), nil
}

// NewCompatible binds the SDK to another provider that speaks the OpenAI
// chat completions API. Errors are reported under the given provider name.
func NewCompatible(provider, apiKey, model, baseURL string, timeout time.Duration) *Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	return &Client{sdk: openai.NewClient(opts...), model: model, provider: provider}
}

// Provider names the backend the client talks to.
func (c *Client) Provider() string { return c.provider }

// Summarize sends the prompt as a single user message.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	resp, err := c.sdk.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(c.model),
	})
	if err != nil {
		return "", c.classify(err)
	}

	content := extractText(resp)
	if content == "" {
		return "", &llm.Error{Kind: llm.KindModelError, Provider: c.provider, Err: errors.New("response empty content")}
	}
	return content, nil
}

func (c *Client) classify(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return &llm.Error{
			Kind:     llm.KindForStatus(apiErr.StatusCode),
			Provider: c.provider,
			Status:   apiErr.StatusCode,
			Err:      err,
		}
	}
	return llm.TransportError(c.provider, err)
}

func extractText(resp *openai.ChatCompletion) string {
	if resp == nil || len(resp.Choices) == 0 {
		return ""
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

var _ llm.Summarizer = (*Client)(nil)
