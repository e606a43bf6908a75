package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Credentials holds the completion service keys read once at startup.
type Credentials struct {
	APIKeys []string
}

// HasKey reports whether at least one key was found.
func (c Credentials) HasKey() bool {
	return len(c.APIKeys) > 0
}

// LoadCredentials reads the key named by cfg.Completion.APIKeyEnv, also
// accepting a comma-separated plural form (e.g. GEMINI_API_KEYS) for key
// rotation. A .env file in the working directory is honored when present.
// A missing key is not an error here; the client reports it on first use.
func LoadCredentials(cfg *Config) Credentials {
	_ = godotenv.Load()

	var keys []string
	name := cfg.Completion.APIKeyEnv
	for _, env := range []string{name + "S", name} {
		for _, k := range strings.Split(os.Getenv(env), ",") {
			k = strings.TrimSpace(k)
			if k != "" && !contains(keys, k) {
				keys = append(keys, k)
			}
		}
	}

	return Credentials{APIKeys: keys}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
