package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// PerplexityClient implements ChatCompleter against an OpenAI-compatible
// /chat/completions endpoint.
type PerplexityClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// PerplexityOption configures a PerplexityClient.
type PerplexityOption func(*PerplexityClient)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(c *http.Client) PerplexityOption {
	return func(p *PerplexityClient) { p.httpClient = c }
}

// NewPerplexityClient creates a new Perplexity client
func NewPerplexityClient(apiKey, baseURL string, opts ...PerplexityOption) (*PerplexityClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if baseURL == "" {
		baseURL = DefaultPerplexityBaseURL
	}
	c := &PerplexityClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Minute},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type contentChunk struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type apiErrorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete sends one chat completion request.
func (c *PerplexityClient) Complete(ctx context.Context, req Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", classifyHTTPError(req.Model, resp.StatusCode, raw)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", &EmptyResponseError{Model: req.Model}
	}

	text, err := decodeContent(parsed.Choices[0].Message.Content)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", &EmptyResponseError{Model: req.Model}
	}
	return text, nil
}

// Close is a no-op; the HTTP client holds no per-client resources.
func (c *PerplexityClient) Close() error {
	return nil
}

// decodeContent accepts either a plain string or an array of typed chunks,
// keeping only text chunks.
func decodeContent(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, nil
	}

	var chunks []contentChunk
	if err := json.Unmarshal(raw, &chunks); err != nil {
		return "", fmt.Errorf("unexpected content format from model")
	}
	var sb strings.Builder
	for _, ch := range chunks {
		if ch.Type == "text" {
			sb.WriteString(ch.Text)
		}
	}
	return sb.String(), nil
}

func classifyHTTPError(model string, status int, raw []byte) error {
	var body apiErrorBody
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Error.Message != "" {
		msg = body.Error.Message
	}

	lower := strings.ToLower(msg)
	if status == http.StatusNotFound || strings.Contains(lower, "invalid model") || body.Error.Type == "invalid_model" {
		return fmt.Errorf("%s: %w: %s", model, ErrModelNotFound, msg)
	}
	return fmt.Errorf("chat completion failed with status %d: %s", status, msg)
}
