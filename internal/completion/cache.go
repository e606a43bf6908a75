package completion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

type cachedClient struct {
	next  Client
	cache *lru.Cache[string, string]
}

// NewCached wraps next with an in-process LRU keyed by prompt, so identical
// files in one run cost a single call. Only successful responses are kept.
// size <= 0 returns next unchanged.
func NewCached(next Client, size int) (Client, error) {
	if size <= 0 {
		return next, nil
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("create completion cache: %w", err)
	}
	return &cachedClient{next: next, cache: cache}, nil
}

func (c *cachedClient) Complete(ctx context.Context, prompt string) (string, error) {
	key := promptKey(prompt)
	if text, ok := c.cache.Get(key); ok {
		return text, nil
	}

	text, err := c.next.Complete(ctx, prompt)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, text)
	return text, nil
}

func promptKey(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
