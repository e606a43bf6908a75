package completion

import (
	"time"

	"github.com/nguyentantai21042004/codesummary/internal/config"
	"github.com/nguyentantai21042004/codesummary/internal/logger"
)

// New builds the configured provider backend, wrapped with the prompt cache
// when completion.cache_size is set. A missing credential does not fail
// here; it surfaces on the first Complete call.
func New(cfg *config.Config, creds config.Credentials, log logger.Logger) (Client, error) {
	opts := Options{
		Model:   cfg.Completion.Model,
		Timeout: time.Duration(cfg.Completion.TimeoutSeconds) * time.Second,
		BaseURL: cfg.Completion.BaseURL,
		APIKeys: creds.APIKeys,
	}
	if cfg.Completion.Temperature != nil {
		opts.Temperature = *cfg.Completion.Temperature
	}

	var client Client
	switch cfg.Completion.Provider {
	case config.ProviderGemini:
		client = NewGemini(opts, log)
	default:
		client = NewOpenAI(opts)
	}

	return NewCached(client, cfg.Completion.CacheSize)
}
