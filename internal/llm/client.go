package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrModelNotFound marks a model identifier the provider does not serve.
// Callers may move on to another model.
var ErrModelNotFound = errors.New("model not found")

// Role is a chat message author.
type Role string

// Chat roles
const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one chat turn.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Request is a single chat completion call.
type Request struct {
	Model            string    `json:"model"`
	Messages         []Message `json:"messages"`
	MaxTokens        int       `json:"max_tokens,omitempty"`
	Temperature      float64   `json:"temperature"`
	TopP             float64   `json:"top_p,omitempty"`
	FrequencyPenalty float64   `json:"frequency_penalty,omitempty"`
}

// ChatCompleter is an abstraction over chat-completion providers.
type ChatCompleter interface {
	// Complete returns the first choice's text. Errors wrap ErrModelNotFound
	// when the requested model is unavailable.
	Complete(ctx context.Context, req Request) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a ChatCompleter based on configuration
func NewClient(ctx context.Context, config *Config) (ChatCompleter, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config.APIKey)
	case ProviderPerplexity, "":
		return NewPerplexityClient(config.APIKey, config.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported LLM provider %q", config.Provider)
	}
}

// EmptyResponseError is returned when a provider answers without text.
type EmptyResponseError struct {
	Model string
}

func (e *EmptyResponseError) Error() string {
	return fmt.Sprintf("no content received from model %s", e.Model)
}
