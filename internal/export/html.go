package export

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/nguyentantai21042004/codesummary/internal/summarizer"
)

// HTMLOptions controls how record bodies are rendered.
type HTMLOptions struct {
	// RenderMarkdown converts each body from Markdown into HTML inside a
	// <div class="summary"> instead of escaping it into a <p>. Raw HTML in
	// model output is dropped.
	RenderMarkdown bool
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// HTML renders the batch as a minimal document with every body escaped.
func HTML(batch summarizer.Batch) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, r := range batch.Records {
		writeHeading(&sb, r)
		sb.WriteString("<p>")
		sb.WriteString(escapeBody(Body(r)))
		sb.WriteString("</p><hr>")
	}
	sb.WriteString("</body></html>")
	return sb.String()
}

// RenderHTML is HTML with options.
func RenderHTML(batch summarizer.Batch, opts HTMLOptions) (string, error) {
	if !opts.RenderMarkdown {
		return HTML(batch), nil
	}

	var sb strings.Builder
	sb.WriteString("<html><body>")
	for _, r := range batch.Records {
		writeHeading(&sb, r)

		var buf bytes.Buffer
		if err := md.Convert([]byte(Body(r)), &buf); err != nil {
			return "", fmt.Errorf("render %s: %w", r.Name, err)
		}
		sb.WriteString(`<div class="summary">`)
		sb.Write(buf.Bytes())
		sb.WriteString("</div><hr>")
	}
	sb.WriteString("</body></html>")
	return sb.String(), nil
}

func writeHeading(sb *strings.Builder, r summarizer.Record) {
	sb.WriteString("<h2>")
	sb.WriteString(html.EscapeString(Title(r)))
	sb.WriteString("</h2>")
}

func escapeBody(s string) string {
	return strings.ReplaceAll(html.EscapeString(s), "\n", "<br>\n")
}
