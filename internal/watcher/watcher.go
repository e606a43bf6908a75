package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/codesummary/internal/logger"
)

type implWatcher struct {
	inputDir        string
	extensions      map[string]bool
	handler         EventHandler
	logger          logger.Logger
	watcher         *fsnotify.Watcher
	maxConcurrent   int
	settleDelay     time.Duration
	processExisting bool
	sem             *semaphore.Weighted
	wg              sync.WaitGroup

	mu       sync.Mutex
	inFlight map[string]bool
}

// Start begins monitoring the inbox for new archives. It blocks until ctx is
// cancelled, then waits for in-flight handlers before returning ctx.Err().
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "File watcher started (max concurrent: %d). Monitoring: %s", w.maxConcurrent, w.inputDir)
	w.logger.Info(ctx, "Accepted extensions: %s", strings.Join(w.extensionList(), ", "))

	if w.processExisting {
		if err := w.dispatchExisting(ctx); err != nil {
			w.logger.Warn(ctx, "Failed to scan inbox: %v", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return w.drain(ctx)

		case event, ok := <-w.watcher.Events:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher events channel closed")
			}

			// Files moved into the inbox arrive as CREATE as well.
			if event.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if !w.accepts(event.Name) {
				w.logger.Debug(ctx, "Ignoring file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New archive detected: %s", event.Name)
			if err := w.dispatch(ctx, event.Name); err != nil {
				return w.drain(ctx)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.wg.Wait()
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error(ctx, "Watcher error: %v", err)
		}
	}
}

// Stop closes the file watcher
func (w *implWatcher) Stop() error {
	return w.watcher.Close()
}

func (w *implWatcher) drain(ctx context.Context) error {
	w.logger.Info(ctx, "Waiting for ongoing processing to complete...")
	w.wg.Wait()
	w.logger.Info(ctx, "File watcher stopped")
	return ctx.Err()
}

// dispatch blocks until a slot is free, then runs the handler in the
// background. A path that is already being handled is ignored.
func (w *implWatcher) dispatch(ctx context.Context, path string) error {
	if !w.claim(path) {
		w.logger.Debug(ctx, "Already processing: %s", path)
		return nil
	}

	if err := w.sem.Acquire(ctx, 1); err != nil {
		w.release(path)
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer w.sem.Release(1)
		defer w.release(path)

		if err := w.waitStable(ctx, path); err != nil {
			w.logger.Warn(ctx, "Skipping %s: %v", path, err)
			return
		}
		if err := w.handler(ctx, path); err != nil {
			w.logger.Error(ctx, "Failed to process %s: %v", path, err)
		}
	}()
	return nil
}

func (w *implWatcher) dispatchExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.inputDir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if !e.Type().IsRegular() || !w.accepts(e.Name()) {
			continue
		}
		path := filepath.Join(w.inputDir, e.Name())
		w.logger.Info(ctx, "Found queued archive: %s", path)
		if err := w.dispatch(ctx, path); err != nil {
			return err
		}
	}
	return nil
}

// waitStable polls the file size until two consecutive readings agree, so a
// copy still in progress is not handed off half-written.
func (w *implWatcher) waitStable(ctx context.Context, path string) error {
	last := int64(-1)
	for {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat: %w", err)
		}
		if info.Size() == last {
			return nil
		}
		last = info.Size()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(w.settleDelay):
		}
	}
}

func (w *implWatcher) claim(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[path] {
		return false
	}
	w.inFlight[path] = true
	return true
}

func (w *implWatcher) release(path string) {
	w.mu.Lock()
	delete(w.inFlight, path)
	w.mu.Unlock()
}

func (w *implWatcher) accepts(path string) bool {
	return w.extensions[strings.ToLower(filepath.Ext(path))]
}

func (w *implWatcher) extensionList() []string {
	list := make([]string, 0, len(w.extensions))
	for e := range w.extensions {
		list = append(list, e)
	}
	sort.Strings(list)
	return list
}
