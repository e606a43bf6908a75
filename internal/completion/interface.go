// Package completion is the single I/O boundary to the hosted language model.
package completion

import (
	"context"
	"errors"
	"time"
)

// Client sends one prompt and returns the model's text. Calls are stateless:
// no conversation history is carried between them.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to Client.
type Func func(ctx context.Context, prompt string) (string, error)

func (f Func) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// DefaultSystemInstruction frames every request.
const DefaultSystemInstruction = "You are a professional code reviewer and technical writer."

var (
	// ErrMissingCredential is returned by Complete when no API key was found
	// at startup.
	ErrMissingCredential = errors.New("completion: missing API credential")
	// ErrEmptyResponse is returned when the provider answers without text.
	ErrEmptyResponse = errors.New("completion: empty response")
)

// Options configures a provider backend.
type Options struct {
	Model             string
	Temperature       float32
	Timeout           time.Duration
	BaseURL           string
	APIKeys           []string
	SystemInstruction string
}

func (o *Options) defaults() {
	if o.Timeout <= 0 {
		o.Timeout = 120 * time.Second
	}
	if o.SystemInstruction == "" {
		o.SystemInstruction = DefaultSystemInstruction
	}
}
