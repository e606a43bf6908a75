package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tooHot := float32(0.9)

	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name: "valid config",
			config: Config{
				Paths: PathsConfig{Input: "data/inbox", Output: "data/output"},
			},
			wantErr: false,
		},
		{
			name: "missing paths",
			config: Config{
				Paths: PathsConfig{},
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			config: Config{
				Completion: CompletionConfig{Provider: "llama"},
				Paths:      PathsConfig{Input: "in", Output: "out"},
			},
			wantErr: true,
		},
		{
			name: "temperature above limit",
			config: Config{
				Completion: CompletionConfig{Temperature: &tooHot},
				Paths:      PathsConfig{Input: "in", Output: "out"},
			},
			wantErr: true,
		},
		{
			name: "unknown prompt mode",
			config: Config{
				Prompt: PromptConfig{Mode: "freeform"},
				Paths:  PathsConfig{Input: "in", Output: "out"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateDefaults(t *testing.T) {
	cfg := Config{Paths: PathsConfig{Input: "in", Output: "out"}}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ProviderOpenAI, cfg.Completion.Provider)
	assert.Equal(t, "gpt-4o", cfg.Completion.Model)
	assert.Equal(t, "OPENAI_API_KEY", cfg.Completion.APIKeyEnv)
	require.NotNil(t, cfg.Completion.Temperature)
	assert.InDelta(t, 0.2, *cfg.Completion.Temperature, 0.0001)
	assert.Equal(t, 120, cfg.Completion.TimeoutSeconds)
	assert.Equal(t, PromptModeCombined, cfg.Prompt.Mode)
	assert.Equal(t, []string{"md", "html"}, cfg.Export.Formats)
	assert.Equal(t, 1, cfg.Performance.MaxConcurrent)
	assert.Equal(t, 1, cfg.Performance.MaxJobs)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidateGeminiDefaults(t *testing.T) {
	cfg := Config{
		Completion: CompletionConfig{Provider: "Gemini"},
		Paths:      PathsConfig{Input: "in", Output: "out"},
	}
	require.NoError(t, cfg.Validate())

	assert.Equal(t, ProviderGemini, cfg.Completion.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.Completion.Model)
	assert.Equal(t, "GEMINI_API_KEY", cfg.Completion.APIKeyEnv)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	content := `
completion:
  provider: "openai"
  model: "gpt-4o-mini"
  temperature: 0
  cache_size: 64

prompt:
  mode: "staged"

paths:
  input: "data/inbox"
  output: "data/output"

export:
  formats: ["md", "docx"]
  render_markdown: true

logging:
  level: "debug"
  format: "json"

performance:
  max_concurrent: 4
  max_jobs: 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o-mini", cfg.Completion.Model)
	require.NotNil(t, cfg.Completion.Temperature)
	assert.Zero(t, *cfg.Completion.Temperature)
	assert.Equal(t, 64, cfg.Completion.CacheSize)
	assert.Equal(t, PromptModeStaged, cfg.Prompt.Mode)
	assert.Equal(t, "data/inbox", cfg.Paths.Input)
	assert.Equal(t, []string{"md", "docx"}, cfg.Export.Formats)
	assert.True(t, cfg.Export.RenderMarkdown)
	assert.Equal(t, 4, cfg.Performance.MaxConcurrent)
	assert.Equal(t, 2, cfg.Performance.MaxJobs)
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := Load("nonexistent.yaml")
	assert.Error(t, err, "Load() should return error for nonexistent file")
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("paths: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "data/inbox", cfg.Paths.Input)
	assert.Equal(t, ProviderOpenAI, cfg.Completion.Provider)
}

func TestLoadCredentials(t *testing.T) {
	cfg := Default()
	cfg.Completion.APIKeyEnv = "CODESUMMARY_TEST_KEY"

	t.Setenv("CODESUMMARY_TEST_KEY", "k1")
	t.Setenv("CODESUMMARY_TEST_KEYS", "k2, k1 ,k3")

	creds := LoadCredentials(cfg)
	assert.True(t, creds.HasKey())
	assert.Equal(t, []string{"k2", "k1", "k3"}, creds.APIKeys)
}

func TestLoadCredentialsMissing(t *testing.T) {
	cfg := Default()
	cfg.Completion.APIKeyEnv = "CODESUMMARY_ABSENT_KEY"

	creds := LoadCredentials(cfg)
	assert.False(t, creds.HasKey())
}
