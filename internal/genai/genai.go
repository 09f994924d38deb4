// Package genai provides GenAI-enhanced operations using the OpenAI API.

package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

// DefaultModel is used when no model override is configured.
const DefaultModel = "gpt-4.1"

// DefaultAPIVersion is the Azure OpenAI api-version used when an Azure
// endpoint is configured.
const DefaultAPIVersion = "2025-01-01-preview"

// ClientInterface defines the operations the rest of the system needs from
// the model client.
type ClientInterface interface {
	// GeneratePrompt generates a response based on the provided system and
	// user prompts.
	GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Opts holds configuration options for GenAI client creation.
type Opts struct {
	APIKey   string
	Endpoint string
	Model    string
}

// Option defines a configuration option for GenAI client creation.
type Option func(*Opts)

// WithAPIKey sets the API key, overriding the OPENAI_API_KEY environment variable.
func WithAPIKey(key string) Option {
	return func(o *Opts) {
		o.APIKey = key
	}
}

// WithEndpoint sets an Azure OpenAI endpoint. When empty, the public OpenAI
// API is used.
func WithEndpoint(endpoint string) Option {
	return func(o *Opts) {
		o.Endpoint = endpoint
	}
}

// WithModel sets the model or Azure deployment name.
func WithModel(model string) Option {
	return func(o *Opts) {
		o.Model = model
	}
}

// Client wraps the OpenAI chat completion service for generating prompts.
type Client struct {
	client openai.Client
	model  string
}

// NewClient initializes a new GenAI client. The API key falls back to the
// OPENAI_API_KEY environment variable; a missing key is a configuration
// error, not something to defer until the first call.
func NewClient(options ...Option) (*Client, error) {
	var opts Opts
	for _, opt := range options {
		opt(&opts)
	}
	if opts.APIKey == "" {
		opts.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if opts.APIKey == "" {
		return nil, fmt.Errorf("genai.NewClient: OPENAI_API_KEY not set")
	}
	if opts.Model == "" {
		opts.Model = DefaultModel
	}

	var cli openai.Client
	if opts.Endpoint != "" {
		cli = openai.NewClient(
			azure.WithEndpoint(opts.Endpoint, DefaultAPIVersion),
			azure.WithAPIKey(opts.APIKey),
		)
		slog.Debug("GenAI client created with Azure endpoint", "endpoint", opts.Endpoint, "model", opts.Model)
	} else {
		cli = openai.NewClient(option.WithAPIKey(opts.APIKey))
		slog.Debug("GenAI client created", "model", opts.Model)
	}
	return &Client{client: cli, model: opts.Model}, nil
}

// GeneratePrompt generates a response based on the provided system and user prompts.
func (c *Client) GeneratePrompt(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(userPrompt),
		},
		Temperature: openai.Float(0.7),
		MaxTokens:   openai.Int(3000),
	})
	if err != nil {
		return "", fmt.Errorf("GeneratePrompt: chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("GeneratePrompt: no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}
