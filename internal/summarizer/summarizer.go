package summarizer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/codesummary/internal/language"
	"github.com/nguyentantai21042004/codesummary/internal/prompt"
	"github.com/nguyentantai21042004/codesummary/internal/source"
)

const (
	unsupportedFileMessage   = "Unsupported file type: language could not be determined. No summary was generated."
	undetectedSnippetMessage = "Language could not be determined for the pasted code. No summary was generated."
)

// Summarize enumerates src and summarizes each unit. Units are processed
// sequentially unless MaxConcurrent > 1; either way records come back in
// discovery order.
func (s *implSummarizer) Summarize(ctx context.Context, src source.Source) (Batch, error) {
	cands, err := src.Candidates(ctx)
	if err != nil {
		return Batch{}, fmt.Errorf("enumerate source: %w", err)
	}

	records := make([]Record, len(cands))
	if len(cands) == 0 {
		s.logger.Info(ctx, "No files found to summarize")
		return Batch{Records: records}, nil
	}

	s.logger.Info(ctx, "Found %d files to summarize", len(cands))

	if s.maxConcurrent <= 1 {
		for i, c := range cands {
			records[i] = s.summarizeUnit(ctx, len(cands), c)
		}
	} else {
		s.summarizeConcurrently(ctx, cands, records)
	}

	batch := Batch{Records: records}
	done, skip, failed := batch.Counts()
	s.logger.Info(ctx, "Summary complete: %d success, %d skipped, %d failed", done, skip, failed)
	return batch, nil
}

// summarizeConcurrently fans units out to at most maxConcurrent workers.
// Each worker writes only its own index, so order is preserved.
func (s *implSummarizer) summarizeConcurrently(ctx context.Context, cands []source.Candidate, records []Record) {
	sem := semaphore.NewWeighted(int64(s.maxConcurrent))
	var wg sync.WaitGroup

	for i, c := range cands {
		if err := sem.Acquire(ctx, 1); err != nil {
			records[i] = s.summarizeUnit(ctx, len(cands), c)
			continue
		}
		wg.Add(1)
		go func(i int, c source.Candidate) {
			defer wg.Done()
			defer sem.Release(1)
			records[i] = s.summarizeUnit(ctx, len(cands), c)
		}(i, c)
	}

	wg.Wait()
}

// summarizeUnit drives one candidate to a terminal state. It never fails:
// every outcome is encoded in the returned Record.
func (s *implSummarizer) summarizeUnit(ctx context.Context, total int, c source.Candidate) Record {
	rec := s.runUnit(ctx, total, c)
	s.metrics.Unit(string(rec.Status))
	return rec
}

func (s *implSummarizer) runUnit(ctx context.Context, total int, c source.Candidate) Record {
	rec := Record{Name: c.Name, Language: language.Unknown}

	if err := ctx.Err(); err != nil {
		return errored(rec, fmt.Errorf("not started: %w", err))
	}

	if c.Err != nil {
		s.logger.Error(ctx, "Failed to open %s: %v", c.Name, c.Err)
		return errored(rec, c.Err)
	}

	if !c.Snippet {
		rec.Language = language.FromFilename(c.Name)
		if rec.Language == language.Unknown {
			s.logger.Debug(ctx, "[%d/%d] Skipping unsupported file: %s", c.Index+1, total, c.Name)
			return skipped(rec, unsupportedFileMessage)
		}
	}

	content, err := c.Read()
	if err != nil {
		s.logger.Error(ctx, "Failed to read %s: %v", c.Name, err)
		return errored(rec, err)
	}

	if c.Snippet {
		rec.Language = language.FromContent(content)
		if rec.Language == language.Unknown {
			s.logger.Warn(ctx, "Could not detect language of snippet %s", c.Name)
			return skipped(rec, undetectedSnippetMessage)
		}
	}

	s.logger.Info(ctx, "[%d/%d] Summarizing: %s (%s)", c.Index+1, total, c.Name, rec.Language)

	if s.stagedMode {
		err = s.completeStaged(ctx, content, &rec)
	} else {
		err = s.completeCombined(ctx, content, &rec)
	}
	if err != nil {
		s.logger.Error(ctx, "Failed to summarize %s: %v", c.Name, err)
		return errored(rec, err)
	}

	rec.Status = StatusCompleted
	s.logger.Debug(ctx, "[DONE] %s", c.Name)
	return rec
}

func (s *implSummarizer) completeCombined(ctx context.Context, content string, rec *Record) error {
	summary, err := s.complete(ctx, s.builder.Build(content, rec.Language))
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	rec.Summary = summary
	if score, ok := prompt.ParseConfidence(summary); ok {
		rec.Confidence = score
	}
	return nil
}

// completeStaged issues the summary, example and confidence calls in turn.
// Any failing call fails the unit.
func (s *implSummarizer) completeStaged(ctx context.Context, content string, rec *Record) error {
	summary, err := s.complete(ctx, s.staged.Summary(content, rec.Language))
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	example, err := s.complete(ctx, s.staged.Example(content, rec.Language))
	if err != nil {
		return fmt.Errorf("usage example: %w", err)
	}

	review, err := s.complete(ctx, s.staged.Confidence(content, rec.Language, summary))
	if err != nil {
		return fmt.Errorf("confidence review: %w", err)
	}

	rec.Summary = summary
	rec.Example = example
	if score, ok := prompt.ParseConfidence(review); ok {
		rec.Confidence = score
		rec.Scored = true
	} else {
		s.logger.Warn(ctx, "Unparseable confidence review for %s: %q", rec.Name, review)
	}
	return nil
}

func (s *implSummarizer) complete(ctx context.Context, p string) (string, error) {
	start := time.Now()
	text, err := s.client.Complete(ctx, p)
	s.metrics.Completion(time.Since(start), err)
	return text, err
}

func skipped(rec Record, msg string) Record {
	rec.Status = StatusSkipped
	rec.Summary = msg
	rec.Confidence = 0
	return rec
}

func errored(rec Record, err error) Record {
	rec.Status = StatusErrored
	rec.Err = err
	rec.Confidence = 0
	return rec
}
