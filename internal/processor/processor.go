package processor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/codesummary/internal/export"
	"github.com/nguyentantai21042004/codesummary/internal/source"
	"github.com/nguyentantai21042004/codesummary/internal/summarizer"
)

// Process orchestrates one job: extract (for archives), summarize, export.
func (p *implProcessor) Process(ctx context.Context, inputPath string) (*Result, error) {
	startTime := time.Now()

	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}

	isArchive := !info.IsDir() && strings.EqualFold(filepath.Ext(inputPath), ".zip")
	if !info.IsDir() && !isArchive {
		return nil, fmt.Errorf("%w: %s is neither a .zip archive nor a directory", ErrUnsupportedInput, inputPath)
	}

	jobName := jobNameFor(inputPath)

	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Starting job %s: %s", jobName, inputPath)
	p.logger.Info(ctx, "========================================")

	root := inputPath
	if isArchive {
		tempDir, err := os.MkdirTemp(p.cfg.Paths.Temp, "codesummary-*")
		if err != nil {
			return nil, fmt.Errorf("create temp dir: %w", err)
		}
		defer p.removeTempDir(ctx, tempDir)

		// Step 1: Extract archive into an isolated temp dir
		if err := p.extractArchive(ctx, inputPath, tempDir); err != nil {
			return nil, fmt.Errorf("extract archive: %w", err)
		}
		root = tempDir
	}

	// Step 2: Summarize every file
	batch, err := p.summarizer.Summarize(ctx, source.Directory{
		Path:        root,
		ExcludeDirs: p.cfg.Paths.ExcludeDirs,
	})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	// Step 3: Write exports
	result := &Result{
		JobName: jobName,
		Batch:   batch,
		Outputs: p.exportAll(ctx, jobName, batch),
	}

	// Step 4: Move processed archive out of the inbox
	if isArchive && p.cfg.Paths.Archived != "" {
		if err := p.moveToArchived(ctx, inputPath); err != nil {
			p.logger.Warn(ctx, "Failed to move archive to archived folder: %v", err)
		}
	}

	p.logDone(ctx, result, time.Since(startTime))
	return result, nil
}

// ProcessSnippet summarizes pasted text and writes the configured exports.
func (p *implProcessor) ProcessSnippet(ctx context.Context, name, text string) (*Result, error) {
	startTime := time.Now()
	jobName := "snippet-" + shortID()

	p.logger.Info(ctx, "Starting job %s: pasted snippet (%d bytes)", jobName, len(text))

	batch, err := p.summarizer.Summarize(ctx, source.Snippet{Name: name, Text: text})
	if err != nil {
		return nil, fmt.Errorf("summarize: %w", err)
	}

	result := &Result{
		JobName: jobName,
		Batch:   batch,
		Outputs: p.exportAll(ctx, jobName, batch),
	}

	p.logDone(ctx, result, time.Since(startTime))
	return result, nil
}

// exportAll writes every configured format. A failing format is logged and
// skipped so the batch is never lost to one broken sink.
func (p *implProcessor) exportAll(ctx context.Context, jobName string, batch summarizer.Batch) map[export.Format]string {
	outputs := make(map[export.Format]string, len(p.formats))
	for _, f := range p.formats {
		path := filepath.Join(p.cfg.Paths.Output, jobName+f.Ext())
		if err := p.exporter.Export(ctx, batch, f, path); err != nil {
			p.logger.Error(ctx, "Failed to export %s: %v", f, err)
			continue
		}
		p.logger.Info(ctx, "Wrote %s", path)
		outputs[f] = path
	}
	return outputs
}

func (p *implProcessor) logDone(ctx context.Context, r *Result, d time.Duration) {
	completed, skipped, errored := r.Batch.Counts()
	p.logger.Info(ctx, "========================================")
	p.logger.Info(ctx, "Job %s completed", r.JobName)
	p.logger.Info(ctx, "Files: %d summarized, %d skipped, %d failed", completed, skipped, errored)
	p.logger.Info(ctx, "Processing time: %s", d)
	p.logger.Info(ctx, "========================================")
}

func jobNameFor(inputPath string) string {
	base := filepath.Base(filepath.Clean(inputPath))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "job-" + shortID()
	}
	return name
}

func shortID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
