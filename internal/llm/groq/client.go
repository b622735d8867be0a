// Package groq presets the OpenAI SDK client for Groq's OpenAI-compatible API.
package groq

import (
	"fmt"
	"strings"
	"time"

	"documate/internal/llm/openai"
)

const (
	providerName   = "groq"
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	DefaultModel   = "gemma-7b-it"
)

// NewClient constructs a Groq client. An empty baseURL selects the public API.
func NewClient(apiKey, model, baseURL string, timeout time.Duration) (*openai.Client, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("GROQ_API_KEY is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return openai.NewCompatible(providerName, apiKey, model, baseURL, timeout), nil
}
