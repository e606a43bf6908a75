package source

import (
	"context"
	"strings"
)

// DefaultSnippetName is used when a snippet is submitted without a name.
const DefaultSnippetName = "snippet"

// Snippet is a single pasted piece of code. Name is for display only; the
// language is always detected from the text.
type Snippet struct {
	Name string
	Text string
}

func (Snippet) sealed() {}

func (s Snippet) Candidates(ctx context.Context) ([]Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = DefaultSnippetName
	}
	text := s.Text

	return []Candidate{{
		Index:   0,
		Name:    name,
		Snippet: true,
		read:    func() (string, error) { return text, nil },
	}}, nil
}
