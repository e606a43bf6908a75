package summarizer

import (
	"context"

	"github.com/nguyentantai21042004/codesummary/internal/source"
)

// Summarizer turns a source into one Record per discovered unit.
type Summarizer interface {
	// Summarize returns an error only when src cannot be enumerated. Read
	// and completion failures are recorded on the unit's Record.
	Summarize(ctx context.Context, src source.Source) (Batch, error)
}
