package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/codesummary/internal/logger"
)

// Options configures a Watcher.
type Options struct {
	// Dir is the inbox directory.
	Dir string
	// Extensions lists accepted file extensions, with leading dot. Defaults
	// to .zip.
	Extensions []string
	// MaxConcurrent bounds in-flight handler calls. Defaults to 1.
	MaxConcurrent int
	// SettleDelay is the polling interval used to wait for a file's size to
	// stop changing before it is handed off. Defaults to 500ms.
	SettleDelay time.Duration
	// ProcessExisting dispatches archives already in Dir when Start is called.
	ProcessExisting bool
}

// New creates a new Watcher instance with concurrency control
func New(opts Options, handler EventHandler, log logger.Logger) (Watcher, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("watch dir is required")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler is required")
	}

	exts := make(map[string]bool)
	for _, e := range opts.Extensions {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	if len(exts) == 0 {
		exts[".zip"] = true
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = 1
	}
	if opts.SettleDelay <= 0 {
		opts.SettleDelay = 500 * time.Millisecond
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(opts.Dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &implWatcher{
		inputDir:        opts.Dir,
		extensions:      exts,
		handler:         handler,
		logger:          log,
		watcher:         fw,
		maxConcurrent:   opts.MaxConcurrent,
		settleDelay:     opts.SettleDelay,
		processExisting: opts.ProcessExisting,
		sem:             semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		inFlight:        make(map[string]bool),
	}, nil
}
