package completion

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
)

type openaiClient struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	system      string
	hasKey      bool
}

// NewOpenAI creates a Client for OpenAI or any OpenAI-compatible server
// (set Options.BaseURL). Only the first API key is used.
func NewOpenAI(opts Options) Client {
	opts.defaults()
	if opts.Model == "" {
		opts.Model = openai.GPT4o
	}

	var key string
	if len(opts.APIKeys) > 0 {
		key = opts.APIKeys[0]
	}

	clientConfig := openai.DefaultConfig(key)
	if opts.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{Timeout: opts.Timeout + 5*time.Second}

	return &openaiClient{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       opts.Model,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
		system:      opts.SystemInstruction,
		hasKey:      key != "",
	}
}

func (c *openaiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if !c.hasKey {
		return "", ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("model %q: %w", c.model, ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("model %q: %w", c.model, ErrEmptyResponse)
	}
	return text, nil
}
