package summarizer

import (
	"github.com/nguyentantai21042004/codesummary/internal/completion"
	"github.com/nguyentantai21042004/codesummary/internal/config"
	"github.com/nguyentantai21042004/codesummary/internal/logger"
	"github.com/nguyentantai21042004/codesummary/internal/metrics"
	"github.com/nguyentantai21042004/codesummary/internal/prompt"
)

// Options tunes a Summarizer. Zero values select the combined prompt, the
// built-in templates, sequential processing and no metrics.
type Options struct {
	// Mode is config.PromptModeCombined or config.PromptModeStaged.
	Mode          string
	MaxConcurrent int
	Builder       prompt.Builder
	Staged        prompt.StagedBuilder
	Metrics       metrics.Recorder
}

type implSummarizer struct {
	client        completion.Client
	logger        logger.Logger
	builder       prompt.Builder
	staged        prompt.StagedBuilder
	stagedMode    bool
	maxConcurrent int
	metrics       metrics.Recorder
}

// New creates a Summarizer that calls client for every supported unit.
func New(client completion.Client, log logger.Logger, opts Options) Summarizer {
	if opts.Builder == nil {
		opts.Builder = prompt.Default()
	}
	if opts.Staged == nil {
		opts.Staged = prompt.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop()
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}

	return &implSummarizer{
		client:        client,
		logger:        log,
		builder:       opts.Builder,
		staged:        opts.Staged,
		stagedMode:    opts.Mode == config.PromptModeStaged,
		maxConcurrent: opts.MaxConcurrent,
		metrics:       opts.Metrics,
	}
}
