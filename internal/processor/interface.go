package processor

import (
	"context"
	"errors"

	"github.com/nguyentantai21042004/codesummary/internal/export"
	"github.com/nguyentantai21042004/codesummary/internal/summarizer"
)

// Processor runs one summarization job end to end: unpack the input,
// summarize it, and write every configured export.
type Processor interface {
	// Process accepts a .zip archive or a directory.
	Process(ctx context.Context, inputPath string) (*Result, error)
	// ProcessSnippet summarizes a single pasted piece of code.
	ProcessSnippet(ctx context.Context, name, text string) (*Result, error)
}

// Result describes a finished job.
type Result struct {
	JobName string
	Batch   summarizer.Batch
	// Outputs maps each successfully written format to its file path.
	Outputs map[export.Format]string
}

var (
	// ErrArchive marks a malformed, truncated or unsafe archive. No batch is
	// produced.
	ErrArchive = errors.New("invalid archive")
	// ErrUnsupportedInput is returned for inputs that are neither a zip
	// archive nor a directory.
	ErrUnsupportedInput = errors.New("unsupported input")
)
