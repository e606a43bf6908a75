// Package source enumerates the units a summarization request covers: every
// regular file under a directory, or a single pasted snippet.
package source

import (
	"context"
	"errors"
)

// ErrBinary is returned when a file's bytes cannot be decoded as text.
var ErrBinary = errors.New("binary content")

// Source is either a Directory or a Snippet.
type Source interface {
	// Candidates lists the units in discovery order. The error is reserved
	// for a source that cannot be enumerated at all; per-file problems are
	// reported through Candidate.Read.
	Candidates(ctx context.Context) ([]Candidate, error)
	sealed()
}

// Candidate is one discovered unit whose content has not been read yet.
type Candidate struct {
	Index int
	// Name is the display name: a slash-separated path relative to the
	// directory root, or the snippet name.
	Name string
	// Path is the filesystem path; empty for snippets.
	Path string
	// Snippet is set when there is no filename to detect the language from.
	Snippet bool
	// Err is set when the unit was found but could not be opened, e.g. an
	// unreadable subdirectory. Such a unit is never read.
	Err error

	read func() (string, error)
}

// Read returns the decoded text content.
func (c Candidate) Read() (string, error) {
	if c.Err != nil {
		return "", c.Err
	}
	if c.read == nil {
		return "", errors.New("candidate has no content")
	}
	return c.read()
}
