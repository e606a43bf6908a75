package export

import (
	"fmt"
	"strings"

	"github.com/nguyentantai21042004/codesummary/internal/summarizer"
)

const (
	errorPrefix   = "⚠️ Error reading or summarizing this file: "
	skippedPrefix = "⚠️ "
)

// Title is the heading text for a record: "name (language)".
func Title(r summarizer.Record) string {
	return fmt.Sprintf("%s (%s)", r.Name, r.Language)
}

// Body is the Markdown-flavored text rendered under a record's heading.
// Skipped and errored records get a visible marker instead of being hidden.
func Body(r summarizer.Record) string {
	switch r.Status {
	case summarizer.StatusErrored:
		msg := "unknown error"
		if r.Err != nil {
			msg = r.Err.Error()
		}
		return errorPrefix + msg
	case summarizer.StatusSkipped:
		return skippedPrefix + r.Summary
	}

	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(r.Summary))
	if ex := strings.TrimSpace(r.Example); ex != "" {
		sb.WriteString("\n\n#### Usage Example\n\n")
		sb.WriteString(ex)
	}
	if r.Scored {
		fmt.Fprintf(&sb, "\n\n#### Confidence Score\n\n%d/100", r.Confidence)
	}
	return sb.String()
}
