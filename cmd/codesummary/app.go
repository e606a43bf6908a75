package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"

	"github.com/nguyentantai21042004/codesummary/internal/completion"
	"github.com/nguyentantai21042004/codesummary/internal/config"
	"github.com/nguyentantai21042004/codesummary/internal/export"
	"github.com/nguyentantai21042004/codesummary/internal/logger"
	"github.com/nguyentantai21042004/codesummary/internal/metrics"
	"github.com/nguyentantai21042004/codesummary/internal/processor"
	"github.com/nguyentantai21042004/codesummary/internal/summarizer"
	"github.com/nguyentantai21042004/codesummary/pkg/executor"
)

// app holds the wired dependencies shared by every subcommand.
type app struct {
	cfg       *config.Config
	logger    logger.Logger
	metrics   *metrics.Prometheus
	processor processor.Processor
}

// loadConfig reads the config file and applies flag/env overrides. A missing
// file is only an error when --config was given explicitly.
func loadConfig() (*config.Config, error) {
	path := viper.GetString("config")

	cfg, err := config.Load(path)
	if err != nil {
		explicit := rootCmd.PersistentFlags().Changed("config") || os.Getenv("CODESUMMARY_CONFIG") != ""
		if !errors.Is(err, os.ErrNotExist) || explicit {
			return nil, err
		}
		cfg = config.Default()
	}

	if v := viper.GetString("provider"); v != "" {
		if v != cfg.Completion.Provider {
			// Let Validate pick the provider's default model and key env.
			cfg.Completion.Model = ""
			cfg.Completion.APIKeyEnv = ""
		}
		cfg.Completion.Provider = v
	}
	if v := viper.GetString("model"); v != "" {
		cfg.Completion.Model = v
	}
	if v := viper.GetString("base-url"); v != "" {
		cfg.Completion.BaseURL = v
	}
	if v := viper.GetString("prompt-mode"); v != "" {
		cfg.Prompt.Mode = v
	}
	if v := viper.GetString("output"); v != "" {
		cfg.Paths.Output = v
	}
	if v := viper.GetStringSlice("format"); len(v) > 0 {
		cfg.Export.Formats = v
	}
	if v := viper.GetInt("concurrency"); v > 0 {
		cfg.Performance.MaxConcurrent = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	if v := viper.GetString("log-format"); v != "" {
		cfg.Logging.Format = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	creds := config.LoadCredentials(cfg)
	if !creds.HasKey() {
		log.Warn(ctx, "No API key found in %s; every file will fail until one is set", cfg.Completion.APIKeyEnv)
	}

	client, err := completion.New(cfg, creds, log)
	if err != nil {
		return nil, fmt.Errorf("create completion client: %w", err)
	}

	rec := metrics.NewPrometheus()
	sum := summarizer.New(client, log, summarizer.Options{
		Mode:          cfg.Prompt.Mode,
		MaxConcurrent: cfg.Performance.MaxConcurrent,
		Metrics:       rec,
	})

	exec := executor.New()
	exp := export.New(export.Options{
		HTML:       export.HTMLOptions{RenderMarkdown: cfg.Export.RenderMarkdown},
		PDFCommand: cfg.Export.PDFCommand,
	}, exec)

	proc, err := processor.New(cfg, sum, exp, log)
	if err != nil {
		return nil, err
	}

	if wantsPDF(cfg.Export.Formats) {
		checkPDFConverter(ctx, exec, cfg.Export.PDFCommand, log)
	}

	return &app{cfg: cfg, logger: log, metrics: rec, processor: proc}, nil
}

func wantsPDF(formats []string) bool {
	for _, name := range formats {
		if f, err := export.ParseFormat(name); err == nil && f == export.FormatPDF {
			return true
		}
	}
	return false
}

// checkPDFConverter warns early when the configured converter cannot run.
func checkPDFConverter(ctx context.Context, exec executor.Executor, command []string, log logger.Logger) {
	if len(command) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := exec.Execute(ctx, command[0], "--version"); err != nil {
		log.Warn(ctx, "PDF converter %q is not usable, PDF export will fail: %v", command[0], err)
	}
}

// ensureDirectories creates required directories if they don't exist
func ensureDirectories(dirs ...string) error {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}
