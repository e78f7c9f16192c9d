package outbound

import (
	"context"
)

// FileEventType is the kind of a file system change notification
type FileEventType string

const (
	FileCreated  FileEventType = "create"
	FileModified FileEventType = "modify"
	FileDeleted  FileEventType = "delete"
	FileRenamed  FileEventType = "rename"
)

// represents a file system change event
type FileChangeEvent struct {
	FilePath  string        `json:"filePath"`  // Path to the changed entry
	EventType FileEventType `json:"eventType"` // create, modify, delete, rename
}

// defines operations for monitoring one directory for changes.
// Watching is non-recursive.
type FileWatcher interface {
	// starts monitoring a directory for changes
	Watch(ctx context.Context, dir string) error

	// stops delivery and releases resources; blocks until the delivery goroutines exit
	Stop() error

	// returns a channel for receiving file change events, in delivery order
	Events() <-chan FileChangeEvent

	// returns a channel for receiving file watcher errors
	Errors() <-chan error

	// returns true if the watcher is currently monitoring a directory
	IsWatching() bool

	// returns a list of currently watched paths
	GetWatchedPaths() []string
}

// WatcherFactory creates an idle watcher for a new session
type WatcherFactory func() (FileWatcher, error)
