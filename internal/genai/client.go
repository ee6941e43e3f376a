// Package genai wraps an OpenAI-compatible chat-completion API. The client
// performs exactly one outbound call per invocation and never retries;
// callers recover from every failure by falling back to local generation.
package genai

import (
	"context"
	"errors"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/unicampus/examgen/internal/genai/prompts"
)

const (
	// placeholderKey is the credential sentinel shipped in sample configs.
	// A key equal to it, or shorter than minKeyLength, is treated as absent.
	placeholderKey = "sk-proj-your-openai-api-key-here"
	minKeyLength   = 20

	// DefaultTimeout bounds one completion call. Expiry surfaces as a
	// TransportError so callers fall back.
	DefaultTimeout = 30 * time.Second

	maxTokens   = 2000
	temperature = 0.7
)

// Config holds the completion client settings. The credential is passed
// explicitly; the client never reads the environment.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	api     *openai.Client
	apiKey  string
	model   string
	timeout time.Duration
}

// New creates a completion client from explicit configuration.
func New(cfg Config) *Client {
	apiCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		apiCfg.BaseURL = cfg.BaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		api:     openai.NewClientWithConfig(apiCfg),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		timeout: timeout,
	}
}

// Configured reports whether a usable credential is present.
func (c *Client) Configured() bool {
	return c.apiKey != placeholderKey && len(c.apiKey) >= minKeyLength
}

// KeyStatus returns the configuration state and a masked key preview that
// is safe to log or display.
func (c *Client) KeyStatus() (configured bool, preview string) {
	if !c.Configured() {
		return false, "not configured"
	}
	return true, c.apiKey[:7] + "..." + c.apiKey[len(c.apiKey)-4:]
}

// Complete sends one chat completion request and returns the raw text of
// the model's reply, unparsed.
func (c *Client) Complete(ctx context.Context, p prompts.PromptSpec) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.System},
			{Role: openai.ChatMessageRoleUser, Content: p.User},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	})
	if err != nil {
		return "", classifyError(err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrMalformedResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// classifyError separates non-2xx service responses from transport-level
// failures so callers can observe the distinction.
func classifyError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ServiceError{Status: apiErr.HTTPStatusCode, Body: apiErr.Message}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		body := ""
		if reqErr.Err != nil {
			body = reqErr.Err.Error()
		}
		return &ServiceError{Status: reqErr.HTTPStatusCode, Body: body}
	}
	return &TransportError{Err: err}
}
