package completion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/codesummary/internal/config"
	"github.com/nguyentantai21042004/codesummary/internal/logger"
)

type chatRequest struct {
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	Messages    []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newFakeOpenAI(t *testing.T, reply string, status int, seen *chatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}

		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"upstream exploded","type":"server_error"}}`))
			return
		}
		resp := map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "gpt-4o",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIComplete(t *testing.T) {
	var seen chatRequest
	srv := newFakeOpenAI(t, "  ok-a \n", http.StatusOK, &seen)

	client := NewOpenAI(Options{
		Model:       "gpt-4o",
		Temperature: 0.2,
		BaseURL:     srv.URL + "/v1/",
		APIKeys:     []string{"test-key"},
	})

	got, err := client.Complete(context.Background(), "summarize me")
	require.NoError(t, err)
	assert.Equal(t, "ok-a", got)

	assert.Equal(t, "gpt-4o", seen.Model)
	assert.InDelta(t, 0.2, seen.Temperature, 0.0001)
	require.Len(t, seen.Messages, 2)
	assert.Equal(t, "system", seen.Messages[0].Role)
	assert.Equal(t, DefaultSystemInstruction, seen.Messages[0].Content)
	assert.Equal(t, "user", seen.Messages[1].Role)
	assert.Equal(t, "summarize me", seen.Messages[1].Content)
}

func TestOpenAICompleteProviderError(t *testing.T) {
	srv := newFakeOpenAI(t, "", http.StatusInternalServerError, nil)

	client := NewOpenAI(Options{BaseURL: srv.URL + "/v1", APIKeys: []string{"test-key"}})

	_, err := client.Complete(context.Background(), "p")
	assert.Error(t, err)
}

func TestOpenAICompleteEmptyResponse(t *testing.T) {
	srv := newFakeOpenAI(t, "   ", http.StatusOK, nil)

	client := NewOpenAI(Options{BaseURL: srv.URL + "/v1", APIKeys: []string{"test-key"}})

	_, err := client.Complete(context.Background(), "p")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestMissingCredentialSurfacesOnFirstCall(t *testing.T) {
	tests := []struct {
		name   string
		client Client
	}{
		{"openai", NewOpenAI(Options{})},
		{"gemini", NewGemini(Options{}, logger.Discard())},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.client)
			_, err := tt.client.Complete(context.Background(), "p")
			assert.ErrorIs(t, err, ErrMissingCredential)
		})
	}
}

func TestCachedClient(t *testing.T) {
	var calls atomic.Int32
	next := Func(func(ctx context.Context, prompt string) (string, error) {
		calls.Add(1)
		if prompt == "bad" {
			return "", errors.New("boom")
		}
		return "reply:" + prompt, nil
	})

	client, err := NewCached(next, 8)
	require.NoError(t, err)

	for range 3 {
		got, err := client.Complete(context.Background(), "same")
		require.NoError(t, err)
		assert.Equal(t, "reply:same", got)
	}
	assert.EqualValues(t, 1, calls.Load())

	for range 2 {
		_, err := client.Complete(context.Background(), "bad")
		assert.Error(t, err)
	}
	assert.EqualValues(t, 3, calls.Load(), "errors are not cached")
}

func TestCachedDisabled(t *testing.T) {
	next := Func(func(ctx context.Context, prompt string) (string, error) { return prompt, nil })

	client, err := NewCached(next, 0)
	require.NoError(t, err)
	_, isCached := client.(*cachedClient)
	assert.False(t, isCached)
}

func TestNewSelectsProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Completion.CacheSize = 0

	client, err := New(cfg, config.Credentials{}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &openaiClient{}, client)

	cfg.Completion.Provider = config.ProviderGemini
	client, err = New(cfg, config.Credentials{}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &geminiClient{}, client)

	cfg.Completion.CacheSize = 16
	client, err = New(cfg, config.Credentials{}, logger.Discard())
	require.NoError(t, err)
	assert.IsType(t, &cachedClient{}, client)
}
