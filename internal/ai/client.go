package ai

import (
	"context"
	"errors"
	"sync"

	openai "github.com/sashabaranov/go-openai"
)

// Generation settings for the classification call. Low randomness and a
// bounded output budget keep replies cheap and deterministic enough to parse.
const (
	completionTemperature = 0.25
	completionMaxTokens   = 512
)

// Completer sends a prompt to the external model and returns its raw reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Client is a Completer backed by an openai-compatible chat completion API.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a Client for the given credential, endpoint, and model.
// An empty baseURL uses the upstream default endpoint.
func NewClient(apiKey, baseURL, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

// Model returns the model identifier this client calls.
func (c *Client) Model() string {
	return c.model
}

// Complete sends a single-turn prompt and returns the model's text reply.
// Upstream API errors keep their HTTP status when the API reports one.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: completionTemperature,
		MaxTokens:   completionMaxTokens,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
			return "", newError(apiErr.HTTPStatusCode, "The AI service could not process that entry")
		}
		return "", ErrUpstream
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	return resp.Choices[0].Message.Content, nil
}

// The shared client is constructed on first use and reused for the process
// lifetime. Generation settings and the model identifier are fixed, so there
// is never a reason to rebuild it.
var (
	sharedOnce   sync.Once
	sharedClient *Client
)

// SharedClient returns the process-wide model client, constructing it on
// first use. A missing API key fails the invocation, not startup: the rest
// of the API stays usable without the AI feature.
func SharedClient(apiKey, baseURL, model string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	sharedOnce.Do(func() {
		sharedClient = NewClient(apiKey, baseURL, model)
	})

	return sharedClient, nil
}
