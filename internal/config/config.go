package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Completion  CompletionConfig  `yaml:"completion"`
	Prompt      PromptConfig      `yaml:"prompt"`
	Paths       PathsConfig       `yaml:"paths"`
	Export      ExportConfig      `yaml:"export"`
	Logging     LoggingConfig     `yaml:"logging"`
	Performance PerformanceConfig `yaml:"performance"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}

type CompletionConfig struct {
	Provider       string   `yaml:"provider"`
	Model          string   `yaml:"model"`
	Temperature    *float32 `yaml:"temperature"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	BaseURL        string   `yaml:"base_url"`
	APIKeyEnv      string   `yaml:"api_key_env"`
	CacheSize      int      `yaml:"cache_size"`
}

type PromptConfig struct {
	Mode string `yaml:"mode"`
}

type PathsConfig struct {
	Input       string   `yaml:"input"`
	Output      string   `yaml:"output"`
	Archived    string   `yaml:"archived"`
	Temp        string   `yaml:"temp"`
	ExcludeDirs []string `yaml:"exclude_dirs"`
}

type ExportConfig struct {
	Formats        []string `yaml:"formats"`
	RenderMarkdown bool     `yaml:"render_markdown"`
	PDFCommand     []string `yaml:"pdf_command"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// PerformanceConfig bounds parallelism. In watch mode up to
// MaxJobs * MaxConcurrent completion calls can be in flight.
type PerformanceConfig struct {
	// MaxConcurrent is the number of files summarized in parallel per job.
	MaxConcurrent int `yaml:"max_concurrent"`
	// MaxJobs is the number of archives the watcher processes at once.
	MaxJobs int `yaml:"max_jobs"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	PromptModeCombined = "combined"
	PromptModeStaged   = "staged"

	maxTemperature float32 = 0.3
)

// Default returns a validated configuration for running without a file.
func Default() *Config {
	cfg := &Config{
		Paths: PathsConfig{
			Input:  "data/inbox",
			Output: "data/output",
		},
	}
	// Defaults always validate.
	_ = cfg.Validate()
	return cfg
}

// Load reads and validates the YAML file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

// Validate checks required fields and fills defaults in place.
func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Output == "" {
		return fmt.Errorf("paths.output is required")
	}

	c.Completion.Provider = strings.ToLower(strings.TrimSpace(c.Completion.Provider))
	switch c.Completion.Provider {
	case "":
		c.Completion.Provider = ProviderOpenAI
	case ProviderOpenAI, ProviderGemini:
	default:
		return fmt.Errorf("completion.provider %q is not supported", c.Completion.Provider)
	}

	if c.Completion.Model == "" {
		if c.Completion.Provider == ProviderGemini {
			c.Completion.Model = "gemini-2.5-flash"
		} else {
			c.Completion.Model = "gpt-4o"
		}
	}
	if c.Completion.Temperature == nil {
		t := float32(0.2)
		c.Completion.Temperature = &t
	}
	if t := *c.Completion.Temperature; t < 0 || t > maxTemperature {
		return fmt.Errorf("completion.temperature must be between 0 and %.1f, got %v", maxTemperature, t)
	}
	if c.Completion.TimeoutSeconds <= 0 {
		c.Completion.TimeoutSeconds = 120
	}
	if c.Completion.APIKeyEnv == "" {
		if c.Completion.Provider == ProviderGemini {
			c.Completion.APIKeyEnv = "GEMINI_API_KEY"
		} else {
			c.Completion.APIKeyEnv = "OPENAI_API_KEY"
		}
	}
	if c.Completion.CacheSize < 0 {
		c.Completion.CacheSize = 0
	}

	c.Prompt.Mode = strings.ToLower(strings.TrimSpace(c.Prompt.Mode))
	switch c.Prompt.Mode {
	case "":
		c.Prompt.Mode = PromptModeCombined
	case PromptModeCombined, PromptModeStaged:
	default:
		return fmt.Errorf("prompt.mode %q is not supported", c.Prompt.Mode)
	}

	if c.Paths.Temp == "" {
		c.Paths.Temp = os.TempDir()
	}
	if c.Paths.ExcludeDirs == nil {
		c.Paths.ExcludeDirs = []string{".git", "__MACOSX", "node_modules"}
	}

	if len(c.Export.Formats) == 0 {
		c.Export.Formats = []string{"md", "html"}
	}
	if len(c.Export.PDFCommand) == 0 {
		c.Export.PDFCommand = []string{"wkhtmltopdf", "--quiet", "-", "{output}"}
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
	if c.Performance.MaxConcurrent <= 0 {
		c.Performance.MaxConcurrent = 1
	}
	if c.Performance.MaxJobs <= 0 {
		c.Performance.MaxJobs = 1
	}

	return nil
}
