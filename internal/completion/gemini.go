package completion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/codesummary/internal/logger"
)

type geminiClient struct {
	apiKeys     []string
	model       string
	temperature float32
	timeout     time.Duration
	system      string
	logger      logger.Logger

	mu         sync.Mutex
	currentKey int
	clients    map[string]*genai.Client
}

// NewGemini creates a Client that rotates through the supplied Gemini API
// keys when one is rate limited.
func NewGemini(opts Options, log logger.Logger) Client {
	opts.defaults()
	if opts.Model == "" {
		opts.Model = "gemini-2.5-flash"
	}

	return &geminiClient{
		apiKeys:     opts.APIKeys,
		model:       opts.Model,
		temperature: opts.Temperature,
		timeout:     opts.Timeout,
		system:      opts.SystemInstruction,
		logger:      log,
		clients:     make(map[string]*genai.Client),
	}
}

// Complete sends the prompt to Gemini. Rotates API keys on 429 / quota errors.
func (g *geminiClient) Complete(ctx context.Context, prompt string) (string, error) {
	if len(g.apiKeys) == 0 {
		return "", ErrMissingCredential
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.system, genai.RoleUser),
		Temperature:       genai.Ptr(g.temperature),
	}

	var lastErr error
	for range len(g.apiKeys) {
		idx, client, err := g.client(ctx)
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey(idx)
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
		if err != nil {
			if isQuotaError(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var sb strings.Builder
			for _, part := range result.Candidates[0].Content.Parts {
				if part != nil && part.Text != "" {
					sb.WriteString(part.Text)
				}
			}
			if text := strings.TrimSpace(sb.String()); text != "" {
				return text, nil
			}
		}

		return "", fmt.Errorf("model %q: %w", g.model, ErrEmptyResponse)
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiClient) client(ctx context.Context) (int, *genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	idx := g.currentKey
	key := g.apiKeys[idx]
	if c, ok := g.clients[key]; ok {
		return idx, c, nil
	}

	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  key,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return idx, nil, err
	}
	g.clients[key] = c
	return idx, c, nil
}

// rotateKey advances past from; a no-op if another caller already rotated.
func (g *geminiClient) rotateKey(from int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == from {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}
