package export

import (
	"strings"

	"github.com/nguyentantai21042004/codesummary/internal/summarizer"
)

// Markdown renders one "### name (language)" block per record, in batch order.
func Markdown(batch summarizer.Batch) string {
	var sb strings.Builder
	for _, r := range batch.Records {
		sb.WriteString("### ")
		sb.WriteString(Title(r))
		sb.WriteString("\n\n")
		sb.WriteString(Body(r))
		sb.WriteString("\n\n---\n")
	}
	return sb.String()
}
