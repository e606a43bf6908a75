package processor

import (
	"fmt"

	"github.com/nguyentantai21042004/codesummary/internal/config"
	"github.com/nguyentantai21042004/codesummary/internal/export"
	"github.com/nguyentantai21042004/codesummary/internal/logger"
	"github.com/nguyentantai21042004/codesummary/internal/summarizer"
)

type implProcessor struct {
	cfg        *config.Config
	summarizer summarizer.Summarizer
	exporter   export.Exporter
	formats    []export.Format
	logger     logger.Logger
}

// New creates a new Processor instance. The export formats in cfg are
// validated here.
func New(cfg *config.Config, sum summarizer.Summarizer, exp export.Exporter, log logger.Logger) (Processor, error) {
	formats := make([]export.Format, 0, len(cfg.Export.Formats))
	seen := make(map[export.Format]bool)
	for _, name := range cfg.Export.Formats {
		f, err := export.ParseFormat(name)
		if err != nil {
			return nil, fmt.Errorf("export.formats: %w", err)
		}
		if !seen[f] {
			seen[f] = true
			formats = append(formats, f)
		}
	}

	return &implProcessor{
		cfg:        cfg,
		summarizer: sum,
		exporter:   exp,
		formats:    formats,
		logger:     log,
	}, nil
}
