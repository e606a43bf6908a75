package watcher

import "context"

// Watcher monitors an inbox directory and hands each new archive to a handler.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is called once per archive that lands in the inbox.
type EventHandler func(ctx context.Context, filePath string) error
