package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

// WatchSession reacts to changes in one directory until stopped.
// Events of a session are handled one at a time, in delivery order.
type WatchSession struct {
	id        string
	baseDir   string
	selection model.Selection
	watcher   outbound.FileWatcher
	fs        outbound.FileSystem
	pipeline  *pipeline
	logger    outbound.Logger

	mu        sync.Mutex
	state     model.SessionState
	startedAt time.Time
	cancel    context.CancelFunc
	done      chan struct{}

	stopOnce sync.Once
	stopErr  error
}

func newWatchSession(
	id, baseDir string,
	sel model.Selection,
	watcher outbound.FileWatcher,
	fs outbound.FileSystem,
	p *pipeline,
	logger outbound.Logger,
) *WatchSession {
	return &WatchSession{
		id:        id,
		baseDir:   baseDir,
		selection: sel,
		watcher:   watcher,
		fs:        fs,
		pipeline:  p,
		logger:    logger,
		state:     model.SessionCreated,
	}
}

// Start subscribes to baseDir and launches the handling goroutine.
// The session outlives ctx; only Stop ends it.
func (s *WatchSession) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != model.SessionCreated {
		return fmt.Errorf("session %s cannot start from state %s", s.id, s.state)
	}

	if err := s.watcher.Watch(ctx, s.baseDir); err != nil {
		return fmt.Errorf("watch %s: %w", s.baseDir, err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.done = make(chan struct{})
	s.startedAt = time.Now()
	s.state = model.SessionActive

	go s.run(runCtx, s.done)

	return nil
}

// Stop ends delivery and waits until no event handler is running.
// A move retry loop in progress completes before Stop returns.
func (s *WatchSession) Stop() error {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		cancel, done := s.cancel, s.done
		s.mu.Unlock()

		if cancel != nil {
			cancel()
			<-done
		}

		s.stopErr = s.watcher.Stop()

		s.mu.Lock()
		s.state = model.SessionStopped
		s.mu.Unlock()

		s.logger.Info("Watch session stopped", "session", s.id, "path", s.baseDir)
		s.pipeline.events.emit(model.OrganizerEvent{
			Kind:      model.EventSessionStopped,
			SessionID: s.id,
			BaseDir:   s.baseDir,
		})
	})
	return s.stopErr
}

// Info returns the listing view; Index is set by the registry
func (s *WatchSession) Info() model.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.SessionInfo{
		ID:         s.id,
		Path:       s.baseDir,
		Categories: s.selection.Tokens(),
		State:      s.state,
		StartedAt:  s.startedAt,
	}
}

func (s *WatchSession) State() model.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *WatchSession) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	events := s.watcher.Events()
	errs := s.watcher.Errors()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			// stop may have been requested while this event was pending
			if ctx.Err() != nil {
				return
			}
			s.handleEvent(event)

		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			s.logger.Error("File watcher error", "session", s.id, "path", s.baseDir, "error", err)
		}
	}
}

// handleEvent is the per-event failure boundary: nothing here ends the session
func (s *WatchSession) handleEvent(event outbound.FileChangeEvent) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("Recovered from panic while handling file event",
				"session", s.id, "path", event.FilePath, "event", string(event.EventType), "panic", r)
		}
	}()

	switch event.EventType {
	case outbound.FileCreated:
		s.logger.Info("File created", "session", s.id, "path", event.FilePath)
		s.seen(model.EventFileCreatedSeen, event.FilePath)

	case outbound.FileDeleted:
		s.logger.Info("File deleted", "session", s.id, "path", event.FilePath)
		s.seen(model.EventFileDeletedSeen, event.FilePath)

	case outbound.FileRenamed:
		s.logger.Info("File moved", "session", s.id, "path", event.FilePath, "external", true)
		s.seen(model.EventFileMovedExternally, event.FilePath)

	case outbound.FileModified:
		s.handleModified(event.FilePath)

	default:
		s.logger.Debug("Ignoring file event type", "session", s.id, "path", event.FilePath, "type", string(event.EventType))
	}
}

func (s *WatchSession) handleModified(path string) {
	info, err := s.fs.Stat(path)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			s.logger.Debug("Modified file is gone", "session", s.id, "path", path)
			return
		}
		s.logger.Error("Failed to inspect modified file", "session", s.id, "path", path, "error", err)
		return
	}
	if info.IsDir() || !info.Mode().IsRegular() {
		return
	}

	s.pipeline.organize(s.id, s.baseDir, path, s.selection)
}

func (s *WatchSession) seen(kind model.EventKind, path string) {
	s.pipeline.events.emit(model.OrganizerEvent{
		Kind:      kind,
		SessionID: s.id,
		BaseDir:   s.baseDir,
		Path:      path,
	})
}
