package source

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Directory walks Path recursively. Directories whose base name matches
// ExcludeDirs (case-insensitive) are not descended into.
type Directory struct {
	Path        string
	ExcludeDirs []string
}

func (Directory) sealed() {}

func (d Directory) Candidates(ctx context.Context) ([]Candidate, error) {
	info, err := os.Stat(d.Path)
	if err != nil {
		return nil, fmt.Errorf("open source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("open source directory: %s is not a directory", d.Path)
	}

	exclude := make(map[string]struct{}, len(d.ExcludeDirs))
	for _, name := range d.ExcludeDirs {
		exclude[strings.ToLower(name)] = struct{}{}
	}

	var out []Candidate
	err = filepath.WalkDir(d.Path, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == d.Path {
			return walkErr
		}

		name := d.displayName(path)
		if walkErr != nil {
			// Unreadable subdirectory: keep it visible as a failed unit.
			out = append(out, Candidate{
				Index: len(out),
				Name:  name,
				Path:  path,
				Err:   withoutPath(walkErr),
			})
			if entry != nil && entry.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if _, skip := exclude[strings.ToLower(entry.Name())]; skip {
				return fs.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		p := path
		out = append(out, Candidate{
			Index: len(out),
			Name:  name,
			Path:  p,
			read:  func() (string, error) { return ReadFile(p) },
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", d.Path, err)
	}

	return out, nil
}

func (d Directory) displayName(path string) string {
	rel, err := filepath.Rel(d.Path, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}
