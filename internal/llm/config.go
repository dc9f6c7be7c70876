// Package llm provides chat-completion clients for the providers the
// optimizer can talk to.
package llm

import (
	"fmt"
	"strings"
)

// Provider represents an LLM provider
type Provider string

const (
	// ProviderPerplexity speaks the OpenAI-compatible chat completions API.
	ProviderPerplexity Provider = "perplexity"
	// ProviderGemini is the Google Gemini provider
	ProviderGemini Provider = "gemini"
)

// DefaultPerplexityBaseURL is used when no base URL is configured.
const DefaultPerplexityBaseURL = "https://api.perplexity.ai"

// DefaultPerplexityModels is the ordered fallback list tried by the optimizer.
var DefaultPerplexityModels = []string{
	"sonar-pro",
	"sonar",
	"llama-3.1-sonar-large-128k-online",
	"llama-3.1-sonar-huge-128k-online",
}

// DefaultGeminiModels is the fallback list used with ProviderGemini.
var DefaultGeminiModels = []string{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
}

// Config holds the provider selection and credentials.
type Config struct {
	Provider Provider
	APIKey   string
	BaseURL  string
	Models   []string
}

// DefaultConfig returns the default configuration (Perplexity).
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderPerplexity,
		BaseURL:  DefaultPerplexityBaseURL,
		Models:   append([]string(nil), DefaultPerplexityModels...),
	}
}

// ParseProvider maps a configuration string to a Provider.
func ParseProvider(s string) (Provider, error) {
	switch Provider(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProviderPerplexity:
		return ProviderPerplexity, nil
	case ProviderGemini:
		return ProviderGemini, nil
	default:
		return "", fmt.Errorf("unknown LLM provider %q", s)
	}
}

// ModelList returns the configured models or the provider's defaults.
func (c *Config) ModelList() []string {
	if len(c.Models) > 0 {
		return append([]string(nil), c.Models...)
	}
	if c.Provider == ProviderGemini {
		return append([]string(nil), DefaultGeminiModels...)
	}
	return append([]string(nil), DefaultPerplexityModels...)
}

// WithModels returns a copy of the config using the given model list.
func (c *Config) WithModels(models ...string) *Config {
	newConfig := *c
	newConfig.Models = append([]string(nil), models...)
	return &newConfig
}

// SplitModels parses a comma separated model list, dropping blanks.
func SplitModels(s string) []string {
	var models []string
	for _, m := range strings.Split(s, ",") {
		if m = strings.TrimSpace(m); m != "" {
			models = append(models, m)
		}
	}
	return models
}
