package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

var (
	// ErrDisabled is returned by the provider used when no LLM token is configured.
	ErrDisabled = errors.New("llm disabled: no API token configured")
	// ErrNoChoices is returned when the model answers without any choice.
	ErrNoChoices = errors.New("no choices returned")
)

// Request is one chat completion: a system instruction and a user prompt.
type Request struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// Completer turns a prompt into text. Implementations must be safe for
// concurrent use.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
	Name() string
}

// Client talks to any OpenAI-compatible chat completion endpoint.
type Client struct {
	client *openai.Client
	model  string
	name   string
}

func NewClient(name, baseURL, apiKey, model string) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = strings.TrimSuffix(baseURL, "/")
	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		name:   name,
	}
}

func (c *Client) Name() string {
	return c.name
}

// Complete sends one non-streaming request and returns the trimmed content of
// the first choice.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.System},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("%s completion: %w", c.name, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s completion: %w", c.name, ErrNoChoices)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// Disabled fails every request with ErrDisabled.
type Disabled struct{}

func (Disabled) Name() string {
	return "disabled"
}

func (Disabled) Complete(context.Context, Request) (string, error) {
	return "", ErrDisabled
}

// StripCodeFences removes markdown code fences that some models wrap around JSON.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)
	// Opening fence tag, e.g. ```json
	if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
		s = s[4:]
	}
	return strings.TrimSpace(s)
}
