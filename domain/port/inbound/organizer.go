package inbound

import (
	"context"

	"github.com/ajkula/dirtidy/domain/model"
)

// OrganizerService is the entry point for callers (CLI, REST API, config at startup)
type OrganizerService interface {
	// Sweep runs the one-shot pass and returns when it completes
	Sweep(ctx context.Context, baseDir string, sel model.Selection) (*model.SweepReport, error)

	// StartWatch subscribes to changes in baseDir and registers the session;
	// it returns as soon as the subscription is live
	StartWatch(ctx context.Context, baseDir string, sel model.Selection) (model.SessionInfo, error)

	// Organize sweeps baseDir, then starts watching it
	Organize(ctx context.Context, baseDir string, sel model.Selection) (*model.SweepReport, model.SessionInfo, error)

	// Categories returns the category table in priority order, "others" last
	Categories() []model.Category

	// Sessions exposes the registry of active watch sessions
	Sessions() SessionRegistry

	// Shutdown stops every session
	Shutdown(ctx context.Context) error
}

// SessionRegistry holds active watch sessions addressed by 1-based display index
type SessionRegistry interface {
	// List returns the active sessions in insertion order
	List() []model.SessionInfo

	// StopAt removes and stops the session at index
	StopAt(index int) (model.SessionInfo, error)

	// StopMany stops several sessions, highest index first
	StopMany(indices []int) ([]model.SessionInfo, error)

	// StopAll stops every session
	StopAll() error

	// Len returns the number of active sessions
	Len() int
}
