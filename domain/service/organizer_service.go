package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/inbound"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

// OrganizerOptions wires the organizer to its adapters
type OrganizerOptions struct {
	FileSystem outbound.FileSystem
	Watchers   outbound.WatcherFactory
	Ledger     outbound.OthersLedger
	Logger     outbound.Logger

	// optional
	Filter outbound.PathFilter
	Events outbound.EventPublisher
	Table  *model.CategoryTable

	RetryAttempts int
	RetryDelay    time.Duration
}

// OrganizerService runs sweeps and owns the watch session registry
type OrganizerService struct {
	fs       outbound.FileSystem
	watchers outbound.WatcherFactory
	logger   outbound.Logger
	table    *model.CategoryTable
	pipeline *pipeline
	sweeper  *SweepEngine
	registry *SessionRegistry
}

func NewOrganizerService(opts OrganizerOptions) (*OrganizerService, error) {
	if opts.FileSystem == nil || opts.Watchers == nil || opts.Ledger == nil || opts.Logger == nil {
		return nil, errors.New("organizer requires a file system, a watcher factory, a ledger and a logger")
	}

	table := opts.Table
	if table == nil {
		table = model.DefaultCategoryTable()
	}

	p := &pipeline{
		table:   table,
		folders: NewFolderMaterializer(opts.FileSystem, opts.Logger),
		mover:   NewMover(opts.FileSystem, opts.Logger, opts.RetryAttempts, opts.RetryDelay),
		ledger:  opts.Ledger,
		filter:  opts.Filter,
		logger:  opts.Logger,
		events:  emitter{publisher: opts.Events},
	}

	return &OrganizerService{
		fs:       opts.FileSystem,
		watchers: opts.Watchers,
		logger:   opts.Logger,
		table:    table,
		pipeline: p,
		sweeper: &SweepEngine{
			fs:       opts.FileSystem,
			pipeline: p,
			logger:   opts.Logger,
		},
		registry: NewSessionRegistry(opts.Logger),
	}, nil
}

var _ inbound.OrganizerService = (*OrganizerService)(nil)

func (s *OrganizerService) Sweep(ctx context.Context, baseDir string, sel model.Selection) (*model.SweepReport, error) {
	dir, err := s.resolveDir(baseDir)
	if err != nil {
		return nil, err
	}
	return s.sweeper.Sweep(ctx, dir, sel)
}

func (s *OrganizerService) StartWatch(ctx context.Context, baseDir string, sel model.Selection) (model.SessionInfo, error) {
	dir, err := s.resolveDir(baseDir)
	if err != nil {
		return model.SessionInfo{}, err
	}

	watcher, err := s.watchers()
	if err != nil {
		return model.SessionInfo{}, fmt.Errorf("create watcher: %w", err)
	}

	session := newWatchSession(uuid.NewString(), dir, sel, watcher, s.fs, s.pipeline, s.logger)
	if err := session.Start(ctx); err != nil {
		if stopErr := watcher.Stop(); stopErr != nil {
			s.logger.Warn("Failed to release watcher", "path", dir, "error", stopErr)
		}
		return model.SessionInfo{}, err
	}

	index := s.registry.Register(session)
	info := session.Info()
	info.Index = index

	s.logger.Info("Watching folder", "index", index, "session", info.ID, "path", dir, "categories", sel.String())
	s.pipeline.events.emit(model.OrganizerEvent{
		Kind:      model.EventSessionStarted,
		SessionID: info.ID,
		BaseDir:   dir,
	})

	return info, nil
}

func (s *OrganizerService) Organize(ctx context.Context, baseDir string, sel model.Selection) (*model.SweepReport, model.SessionInfo, error) {
	report, err := s.Sweep(ctx, baseDir, sel)
	if err != nil {
		return nil, model.SessionInfo{}, err
	}

	info, err := s.StartWatch(ctx, baseDir, sel)
	if err != nil {
		return report, model.SessionInfo{}, err
	}
	return report, info, nil
}

func (s *OrganizerService) Categories() []model.Category {
	return append(s.table.Categories(), s.table.Others())
}

func (s *OrganizerService) Sessions() inbound.SessionRegistry {
	return s.registry
}

func (s *OrganizerService) Shutdown(ctx context.Context) error {
	done := make(chan error, 1)
	go func() {
		done <- s.registry.StopAll()
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *OrganizerService) resolveDir(baseDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("%w: empty path", model.ErrInvalidPath)
	}

	dir, err := filepath.Abs(baseDir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidPath, err)
	}

	info, err := s.fs.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidPath, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s", model.ErrNotADirectory, dir)
	}
	return dir, nil
}
