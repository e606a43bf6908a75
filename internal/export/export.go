// Package export serializes a summary batch into shareable documents.
package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nguyentantai21042004/codesummary/internal/summarizer"
	"github.com/nguyentantai21042004/codesummary/pkg/executor"
)

// Format is an output document type.
type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatDOCX     Format = "docx"
	FormatPDF      Format = "pdf"
)

// ErrUnknownFormat is returned for a format name that is not supported.
var ErrUnknownFormat = errors.New("unknown export format")

// outputPlaceholder in a PDF command is replaced by the destination path.
const outputPlaceholder = "{output}"

// ParseFormat accepts "md", "markdown", "html", "htm", "docx" and "pdf".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), ".")) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "docx":
		return FormatDOCX, nil
	case "pdf":
		return FormatPDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Ext returns the file extension including the dot.
func (f Format) Ext() string { return "." + string(f) }

// Exporter writes a batch to a file in one of the supported formats.
type Exporter interface {
	Export(ctx context.Context, batch summarizer.Batch, format Format, path string) error
}

// Options configures an Exporter.
type Options struct {
	HTML HTMLOptions
	// PDFCommand converts HTML on stdin into a PDF; "{output}" is replaced by
	// the destination path.
	PDFCommand []string
}

type implExporter struct {
	opts     Options
	executor executor.Executor
}

// New creates an Exporter. exec is only used for PDF output.
func New(opts Options, exec executor.Executor) Exporter {
	return &implExporter{opts: opts, executor: exec}
}

func (e *implExporter) Export(ctx context.Context, batch summarizer.Batch, format Format, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	switch format {
	case FormatMarkdown:
		return writeAtomic(path, []byte(Markdown(batch)))
	case FormatHTML:
		doc, err := RenderHTML(batch, e.opts.HTML)
		if err != nil {
			return err
		}
		return writeAtomic(path, []byte(doc))
	case FormatDOCX:
		return DOCX(batch, path)
	case FormatPDF:
		return e.pdf(ctx, batch, path)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// pdf pipes the HTML export through the configured external converter.
func (e *implExporter) pdf(ctx context.Context, batch summarizer.Batch, path string) error {
	if len(e.opts.PDFCommand) == 0 || e.executor == nil {
		return errors.New("pdf export: no converter configured")
	}

	doc, err := RenderHTML(batch, e.opts.HTML)
	if err != nil {
		return err
	}

	args := make([]string, 0, len(e.opts.PDFCommand)-1)
	for _, a := range e.opts.PDFCommand[1:] {
		args = append(args, strings.ReplaceAll(a, outputPlaceholder, path))
	}

	if _, err := e.executor.ExecuteWithInput(ctx, strings.NewReader(doc), e.opts.PDFCommand[0], args...); err != nil {
		return fmt.Errorf("pdf export: %w", err)
	}
	return nil
}

// writeAtomic writes data to a temp file beside path and renames it over.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
