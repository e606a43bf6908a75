package processor

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// maxExtractBytes caps the total uncompressed size of one archive.
const maxExtractBytes = 512 << 20

// extractArchive unpacks the zip at archivePath into destDir. Any malformed
// entry, path escaping destDir, or oversized content fails the whole archive
// with ErrArchive.
func (p *implProcessor) extractArchive(ctx context.Context, archivePath, destDir string) error {
	p.logger.Info(ctx, "Extracting archive: %s", archivePath)

	r, err := zip.OpenReader(archivePath)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrArchive, err)
	}
	defer r.Close()

	var total int64
	for _, f := range r.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, err := entryPath(destDir, f.Name)
		if err != nil {
			return err
		}

		mode := f.Mode()
		switch {
		case mode.IsDir():
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create dir %s: %w", f.Name, err)
			}
			continue
		case !mode.IsRegular():
			p.logger.Debug(ctx, "Skipping non-regular archive entry: %s", f.Name)
			continue
		}

		n, err := extractFile(f, target, maxExtractBytes-total)
		if err != nil {
			return err
		}
		total += n
	}

	p.logger.Info(ctx, "Extracted %d entries (%d bytes) to %s", len(r.File), total, destDir)
	return nil
}

// entryPath resolves an archive entry name inside destDir, rejecting
// absolute paths and ".." escapes.
func entryPath(destDir, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.ReplaceAll(name, `\`, "/")))
	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.VolumeName(clean) != "" {
		return "", fmt.Errorf("%w: entry %q escapes extraction dir", ErrArchive, name)
	}
	return filepath.Join(destDir, clean), nil
}

func extractFile(f *zip.File, target string, budget int64) (int64, error) {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return 0, fmt.Errorf("create dir for %s: %w", f.Name, err)
	}

	rc, err := f.Open()
	if err != nil {
		return 0, fmt.Errorf("%w: open entry %s: %v", ErrArchive, f.Name, err)
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", f.Name, err)
	}

	n, err := io.Copy(out, io.LimitReader(rc, budget+1))
	closeErr := out.Close()
	if err != nil {
		return n, fmt.Errorf("%w: read entry %s: %v", ErrArchive, f.Name, err)
	}
	if n > budget {
		return n, fmt.Errorf("%w: uncompressed size exceeds %d bytes", ErrArchive, int64(maxExtractBytes))
	}
	if closeErr != nil {
		return n, fmt.Errorf("write %s: %w", f.Name, closeErr)
	}
	return n, nil
}
