package processor

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// moveToArchived moves a processed archive into the archived folder
func (p *implProcessor) moveToArchived(ctx context.Context, inputPath string) error {
	if err := os.MkdirAll(p.cfg.Paths.Archived, 0755); err != nil {
		return fmt.Errorf("create archived dir: %w", err)
	}
	destPath := filepath.Join(p.cfg.Paths.Archived, filepath.Base(inputPath))

	p.logger.Info(ctx, "Moving to archived folder: %s -> %s", inputPath, destPath)

	if err := os.Rename(inputPath, destPath); err != nil {
		// Rename fails across filesystems; copy instead
		if err := copyFile(inputPath, destPath); err != nil {
			return fmt.Errorf("move to archived: %w", err)
		}
		if err := os.Remove(inputPath); err != nil {
			return fmt.Errorf("remove original: %w", err)
		}
	}
	return nil
}

// removeTempDir removes an extraction dir, logs warning if fails
func (p *implProcessor) removeTempDir(ctx context.Context, dir string) {
	if err := os.RemoveAll(dir); err != nil {
		p.logger.Warn(ctx, "Failed to cleanup temp dir %s: %v", dir, err)
	} else {
		p.logger.Debug(ctx, "Cleaned up temp dir: %s", dir)
	}
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("write destination: %w", err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("write destination: %w", err)
	}
	return out.Close()
}
