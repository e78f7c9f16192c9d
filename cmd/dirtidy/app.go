package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/ajkula/dirtidy/adapter/inbound/grpc"
	"github.com/ajkula/dirtidy/adapter/inbound/rest"
	"github.com/ajkula/dirtidy/adapter/inbound/websocket"
	"github.com/ajkula/dirtidy/adapter/outbound/filesystem"
	"github.com/ajkula/dirtidy/adapter/outbound/filewatcher"
	"github.com/ajkula/dirtidy/adapter/outbound/ledger"
	"github.com/ajkula/dirtidy/adapter/outbound/logging"
	"github.com/ajkula/dirtidy/adapter/outbound/patterns"
	"github.com/ajkula/dirtidy/adapter/outbound/storage/bolt"
	"github.com/ajkula/dirtidy/adapter/outbound/storage/memory"
	"github.com/ajkula/dirtidy/config"
	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
	"github.com/ajkula/dirtidy/domain/service"
)

// organizerApp is the wired organizer with its optional journal and event bus
type organizerApp struct {
	cfg       *config.Config
	logger    model.Logger
	bus       *memory.EventBus
	journal   *bolt.Journal
	organizer *service.OrganizerService
}

type appOptions struct {
	journal bool
}

func newOrganizerApp(cfg *config.Config, opts appOptions) (*organizerApp, error) {
	logger, err := logging.NewSlogAdapter(cfg)
	if err != nil {
		return nil, err
	}

	app := &organizerApp{cfg: cfg, logger: logger, bus: memory.NewEventBus()}

	if err := app.wire(opts); err != nil {
		app.close()
		return nil, err
	}
	return app, nil
}

func (a *organizerApp) wire(opts appOptions) error {
	table, err := model.DefaultCategoryTable().WithFolderNames(a.cfg.Organizer.FolderNames)
	if err != nil {
		return fmt.Errorf("organizer.folderNames: %w", err)
	}

	matcher, err := patterns.NewMatcher(a.cfg.Organizer.IgnorePatterns)
	if err != nil {
		return fmt.Errorf("organizer.ignorePatterns: %w", err)
	}

	if opts.journal && a.cfg.Storage.JournalEnabled {
		journal, err := bolt.OpenJournal(a.cfg.Storage.JournalPath)
		if err != nil {
			return err
		}
		a.journal = journal
		a.bus.Subscribe(journal.Recorder(a.logger))
	}

	organizer, err := service.NewOrganizerService(service.OrganizerOptions{
		FileSystem: filesystem.NewOSFileSystem(),
		Watchers: filewatcher.Factory(filewatcher.Options{
			Debounce:   a.cfg.Watch.Debounce,
			BufferSize: a.cfg.Watch.BufferSize,
		}),
		Ledger:        ledger.NewFileLedger(a.cfg.Organizer.LedgerFileName),
		Logger:        a.logger,
		Filter:        matcher,
		Events:        a.bus,
		Table:         table,
		RetryAttempts: a.cfg.Organizer.RetryAttempts,
		RetryDelay:    a.cfg.Organizer.RetryDelay,
	})
	if err != nil {
		return err
	}
	a.organizer = organizer
	return nil
}

// shutdown stops every session, then flushes the bus, the journal and the logger
func (a *organizerApp) shutdown(ctx context.Context) error {
	var err error
	if a.organizer != nil {
		err = a.organizer.Shutdown(ctx)
	}
	a.close()
	return err
}

func (a *organizerApp) close() {
	a.bus.Close()
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Error("Failed to close move journal", "error", err)
		}
	}
	a.logger.Shutdown()
}

// server is organizerApp plus the network surfaces and the instance lock
type server struct {
	*organizerApp
	lock      *flock.Flock
	stats     *service.StatsServiceImpl
	http      *rest.Server
	websocket *websocket.Handler
	grpc      *grpc.Server
}

func newServer(ctx *commandContext) (*server, error) {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.General.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	lock := flock.New(cfg.LockPath())
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another dirtidy server is running (lock %s)", cfg.LockPath())
	}

	app, err := newOrganizerApp(cfg, appOptions{journal: true})
	if err != nil {
		lock.Unlock()
		return nil, err
	}

	s := &server{organizerApp: app, lock: lock}

	s.stats = service.NewStatsService(app.organizer.Sessions(), app.logger, 0)
	app.bus.Subscribe(s.stats.Handler())

	if cfg.HTTP.Enabled {
		var auth *rest.AuthMiddleware
		if cfg.Security.EnableAuthentication {
			tokens, nodeID, err := ctx.tokenService()
			if err != nil {
				s.release()
				return nil, err
			}
			auth = rest.NewAuthMiddleware(tokens, app.logger, true)
			app.logger.Info("API authentication enabled", "node", nodeID)
		}

		handler := rest.NewHandler(app.organizer, s.journalOrNil(), rest.NewSettings(cfg, ctx.configPath, app.logger), app.logger).
			WithStats(s.stats)
		s.http = rest.NewServer(fmt.Sprintf("%s:%d", cfg.HTTP.Address, cfg.HTTP.Port), handler, auth, app.logger)

		s.websocket = websocket.NewHandler(app.bus, app.logger)
		s.http.Router().HandleFunc("/api/ws/events", s.websocket.HandleConnection).Methods("GET")
	}

	if cfg.GRPC.Enabled {
		s.grpc = grpc.NewServer(app.logger)
	}

	return s, nil
}

// journalOrNil keeps a disabled journal a nil interface
func (s *server) journalOrNil() outbound.MoveJournal {
	if s.journal == nil {
		return nil
	}
	return s.journal
}

// start opens the listeners, then organizes the configured directories
func (s *server) start(ctx context.Context) error {
	if s.http != nil {
		if err := s.http.Start(); err != nil {
			return err
		}
	}
	if s.grpc != nil {
		if err := s.grpc.Start(fmt.Sprintf("%s:%d", s.cfg.GRPC.Address, s.cfg.GRPC.Port)); err != nil {
			return err
		}
	}

	// a bad configured directory does not prevent the others
	for _, dir := range s.cfg.Watch.Directories {
		sel, err := dir.Selection()
		if err == nil {
			var report *model.SweepReport
			var info model.SessionInfo
			report, info, err = s.organizer.Organize(ctx, dir.Path, sel)
			if err == nil {
				s.logger.Info("Configured directory organized",
					"path", info.Path, "index", info.Index, "moved", report.Moved, "failed", report.Failed)
				continue
			}
		}
		s.logger.Error("Failed to organize configured directory", "path", dir.Path, "error", err)
	}
	return nil
}

func (s *server) stop(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if s.grpc != nil {
		s.grpc.SetServing(false)
	}
	if s.websocket != nil {
		s.websocket.Cleanup()
	}

	var errs []error
	if s.http != nil {
		if err := s.http.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("http shutdown: %w", err))
		}
	}
	if s.grpc != nil {
		s.grpc.Stop()
	}

	s.stats.Cleanup()
	if err := s.shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	s.lock.Unlock()

	return errors.Join(errs...)
}

func (s *server) release() {
	s.stats.Cleanup()
	s.close()
	s.lock.Unlock()
}

func selectionFlag(raw string) (model.Selection, error) {
	sel, err := model.ParseSelection(raw)
	if err != nil {
		return model.Selection{}, fmt.Errorf("--categories %q: %w (valid: 1-11, todos)", strings.TrimSpace(raw), err)
	}
	return sel, nil
}
