package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

type mockLogger struct{}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{})  {}
func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (m *mockLogger) Warn(msg string, keysAndValues ...interface{})  {}

// levelLogger keeps "LEVEL msg" lines
type levelLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *levelLogger) add(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, level+" "+msg)
}

func (l *levelLogger) Info(msg string, keysAndValues ...interface{})  { l.add("INFO", msg) }
func (l *levelLogger) Error(msg string, keysAndValues ...interface{}) { l.add("ERROR", msg) }
func (l *levelLogger) Debug(msg string, keysAndValues ...interface{}) { l.add("DEBUG", msg) }
func (l *levelLogger) Warn(msg string, keysAndValues ...interface{})  { l.add("WARN", msg) }

func (l *levelLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// testFS is a real file system whose Rename and Mkdir can be intercepted
type testFS struct {
	renameHook func(src, dst string) error
	renames    atomic.Int32
	mkdirs     atomic.Int32
}

func (f *testFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

func (f *testFS) ReadDir(dir string) ([]fs.DirEntry, error) {
	return os.ReadDir(dir)
}

func (f *testFS) Mkdir(path string) error {
	f.mkdirs.Add(1)
	err := os.Mkdir(path, 0o755)
	if errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("%w: %s", model.ErrAlreadyExists, path)
	}
	return err
}

func (f *testFS) Rename(src, dst string) error {
	f.renames.Add(1)
	if f.renameHook != nil {
		if err := f.renameHook(src, dst); err != nil {
			return err
		}
	}
	if _, err := os.Lstat(dst); err == nil {
		return fmt.Errorf("%w: %s", model.ErrAlreadyExists, dst)
	}
	return os.Rename(src, dst)
}

// memLedger records extensions in memory
type memLedger struct {
	mu      sync.Mutex
	entries []string
}

func (l *memLedger) Record(othersFolder, extension string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, filepath.Base(othersFolder)+":"+extension)
	return nil
}

func (l *memLedger) Entries() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.entries...)
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	mu     sync.Mutex
	events []model.OrganizerEvent
}

func (p *recordingPublisher) Publish(event model.OrganizerEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Kinds() []model.EventKind {
	p.mu.Lock()
	defer p.mu.Unlock()
	kinds := make([]model.EventKind, 0, len(p.events))
	for _, e := range p.events {
		kinds = append(kinds, e.Kind)
	}
	return kinds
}

// fakeWatcher delivers whatever the test sends on its channels
type fakeWatcher struct {
	mu       sync.Mutex
	events   chan outbound.FileChangeEvent
	errs     chan error
	dirs     []string
	stopped  bool
	watchErr error
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{
		events: make(chan outbound.FileChangeEvent, 16),
		errs:   make(chan error, 4),
	}
}

func (w *fakeWatcher) Watch(ctx context.Context, dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watchErr != nil {
		return w.watchErr
	}
	w.dirs = append(w.dirs, dir)
	return nil
}

func (w *fakeWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.stopped {
		w.stopped = true
		close(w.events)
		close(w.errs)
	}
	return nil
}

func (w *fakeWatcher) Events() <-chan outbound.FileChangeEvent { return w.events }
func (w *fakeWatcher) Errors() <-chan error                    { return w.errs }

func (w *fakeWatcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirs) > 0 && !w.stopped
}

func (w *fakeWatcher) GetWatchedPaths() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.dirs...)
}

func (w *fakeWatcher) Stopped() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stopped
}

// send delivers an event unless the session already stopped the watcher
func (w *fakeWatcher) send(path string, kind outbound.FileEventType) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return
	}
	w.events <- outbound.FileChangeEvent{FilePath: path, EventType: kind}
}

// watcherPool is a WatcherFactory handing out fakes the test can drive
type watcherPool struct {
	mu       sync.Mutex
	watchers []*fakeWatcher
}

func (p *watcherPool) factory() (outbound.FileWatcher, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	w := newFakeWatcher()
	p.watchers = append(p.watchers, w)
	return w, nil
}

func (p *watcherPool) get(i int) *fakeWatcher {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.watchers[i]
}

type testEnv struct {
	fs       *testFS
	ledger   *memLedger
	events   *recordingPublisher
	pipeline *pipeline
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		fs:     &testFS{},
		ledger: &memLedger{},
		events: &recordingPublisher{},
	}
	logger := &mockLogger{}
	mover := NewMover(env.fs, logger, DefaultMoveAttempts, 0)
	mover.sleep = func(time.Duration) {}
	env.pipeline = &pipeline{
		table:   model.DefaultCategoryTable(),
		folders: NewFolderMaterializer(env.fs, logger),
		mover:   mover,
		ledger:  env.ledger,
		logger:  logger,
		events:  emitter{publisher: env.events},
	}
	return env
}

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(name), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}
