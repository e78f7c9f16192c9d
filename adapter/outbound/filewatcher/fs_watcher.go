package filewatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

const DefaultBufferSize = 100

// Options tunes a watcher. Debounce delays modify events per path so a file
// being written produces one event; zero delivers every write.
type Options struct {
	Debounce   time.Duration
	BufferSize int
}

type FsWatcher struct {
	watcher     *fsnotify.Watcher
	events      chan outbound.FileChangeEvent
	errors      chan error
	debounce    time.Duration
	debouncer   map[string]*time.Timer
	watchedDirs map[string]bool
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
	running     bool
	stopped     bool

	// tracks the read loop and every pending debounce callback
	wg sync.WaitGroup
}

func NewFSWatcher(opts Options) (outbound.FileWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	if opts.BufferSize <= 0 {
		opts.BufferSize = DefaultBufferSize
	}

	ctx, cancel := context.WithCancel(context.Background())

	fw := &FsWatcher{
		watcher:     fsWatcher,
		events:      make(chan outbound.FileChangeEvent, opts.BufferSize),
		errors:      make(chan error, 10),
		debounce:    opts.Debounce,
		debouncer:   make(map[string]*time.Timer),
		watchedDirs: make(map[string]bool),
		ctx:         ctx,
		cancel:      cancel,
	}

	fw.wg.Add(1)
	go fw.readEvents()

	return fw, nil
}

// Factory returns a WatcherFactory producing watchers with opts
func Factory(opts Options) outbound.WatcherFactory {
	return func() (outbound.FileWatcher, error) {
		return NewFSWatcher(opts)
	}
}

// Watch adds dir (not its subdirectories)
func (fw *FsWatcher) Watch(ctx context.Context, dir string) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return model.ErrWatcherClosed
	}

	absPath, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for %s: %w", dir, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidPath, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s", model.ErrNotADirectory, absPath)
	}

	if fw.watchedDirs[absPath] {
		return nil
	}

	if err := fw.watcher.Add(absPath); err != nil {
		return fmt.Errorf("failed to watch directory %s: %w", absPath, err)
	}

	fw.watchedDirs[absPath] = true
	fw.running = true

	return nil
}

// Stop is idempotent. When it returns no event will be sent anymore and
// both channels are closed.
func (fw *FsWatcher) Stop() error {
	fw.mu.Lock()
	if fw.stopped {
		fw.mu.Unlock()
		return nil
	}
	fw.stopped = true
	fw.running = false

	// cancel first so pending sends give up
	fw.cancel()
	fw.cleanupDebouncers()
	fw.mu.Unlock()

	err := fw.watcher.Close()

	fw.wg.Wait()

	close(fw.events)
	close(fw.errors)

	if err != nil {
		return fmt.Errorf("failed to close fsnotify watcher: %w", err)
	}
	return nil
}

func (fw *FsWatcher) Events() <-chan outbound.FileChangeEvent {
	return fw.events
}

func (fw *FsWatcher) Errors() <-chan error {
	return fw.errors
}

func (fw *FsWatcher) IsWatching() bool {
	fw.mu.RLock()
	defer fw.mu.RUnlock()
	return fw.running
}

func (fw *FsWatcher) GetWatchedPaths() []string {
	fw.mu.RLock()
	defer fw.mu.RUnlock()

	paths := make([]string, 0, len(fw.watchedDirs))
	for path := range fw.watchedDirs {
		paths = append(paths, path)
	}
	return paths
}

// readEvents converts fsnotify events and forwards them in arrival order
func (fw *FsWatcher) readEvents() {
	defer fw.wg.Done()

	for {
		select {
		case <-fw.ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}

			changeEvent := convertEvent(event)
			if changeEvent == nil {
				continue
			}

			if changeEvent.EventType == outbound.FileModified && fw.debounce > 0 {
				fw.debounceEvent(*changeEvent)
				continue
			}
			fw.deliver(*changeEvent)

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}

			select {
			case fw.errors <- err:
			case <-fw.ctx.Done():
				return
			}
		}
	}
}

func (fw *FsWatcher) deliver(event outbound.FileChangeEvent) {
	select {
	case fw.events <- event:
	case <-fw.ctx.Done():
	}
}

// debounceEvent restarts the per-path timer
func (fw *FsWatcher) debounceEvent(event outbound.FileChangeEvent) {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	if fw.stopped {
		return
	}

	if timer, exists := fw.debouncer[event.FilePath]; exists {
		if timer.Stop() {
			fw.wg.Done()
		}
	}

	fw.wg.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(fw.debounce, func() {
		defer fw.wg.Done()

		fw.mu.Lock()
		if fw.debouncer[event.FilePath] == timer {
			delete(fw.debouncer, event.FilePath)
		}
		fw.mu.Unlock()

		fw.deliver(event)
	})
	fw.debouncer[event.FilePath] = timer
}

// cleanupDebouncers stops pending timers; callers hold fw.mu
func (fw *FsWatcher) cleanupDebouncers() {
	for _, timer := range fw.debouncer {
		if timer.Stop() {
			fw.wg.Done()
		}
	}
	fw.debouncer = make(map[string]*time.Timer)
}

func convertEvent(event fsnotify.Event) *outbound.FileChangeEvent {
	var eventType outbound.FileEventType

	switch {
	case event.Has(fsnotify.Create):
		eventType = outbound.FileCreated
	case event.Has(fsnotify.Write):
		eventType = outbound.FileModified
	case event.Has(fsnotify.Remove):
		eventType = outbound.FileDeleted
	case event.Has(fsnotify.Rename):
		eventType = outbound.FileRenamed
	default:
		return nil // chmod only
	}

	return &outbound.FileChangeEvent{
		FilePath:  event.Name,
		EventType: eventType,
	}
}
