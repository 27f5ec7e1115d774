// Package generator asks a hosted chat model for a new task list.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/starford/braindump/internal/apperr"
	"github.com/starford/braindump/internal/reconcile"
)

// chatModel is the subset of llms.Model the client needs.
type chatModel interface {
	GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)
}

// Config selects the model endpoint.
type Config struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float64
}

// Client implements reconcile.Generator over an OpenAI-compatible API.
type Client struct {
	llm         chatModel
	temperature float64
	now         func() time.Time
}

var _ reconcile.Generator = (*Client)(nil)

// New creates a Client. An empty API key is rejected.
func New(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generator: api key is required: %w", apperr.ErrConfiguration)
	}
	opts := []openai.Option{openai.WithToken(cfg.APIKey), openai.WithModel(cfg.Model)}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	llm, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("generator: init client: %w", err)
	}
	return &Client{llm: llm, temperature: cfg.Temperature, now: time.Now}, nil
}

// Generate sends one chat request and returns the trimmed reply.
func (c *Client) Generate(ctx context.Context, req reconcile.Request) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, UserMessage(req, c.now())),
	}
	resp, err := c.llm.GenerateContent(ctx, messages, llms.WithTemperature(c.temperature))
	if err != nil {
		return "", fmt.Errorf("generator: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("generator: empty response")
	}
	return strings.TrimSpace(resp.Choices[0].Content), nil
}
