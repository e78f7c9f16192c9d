package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

// SweepEngine organizes the files already present in a directory
type SweepEngine struct {
	fs       outbound.FileSystem
	pipeline *pipeline
	logger   outbound.Logger
}

// Sweep lists baseDir once and organizes each regular file in listing order.
// Folders created during the pass are not part of the listing, so they are never scanned.
func (e *SweepEngine) Sweep(ctx context.Context, baseDir string, sel model.Selection) (*model.SweepReport, error) {
	entries, err := e.fs.ReadDir(baseDir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", baseDir, err)
	}

	report := &model.SweepReport{
		BaseDir:   baseDir,
		Selection: sel.String(),
		StartedAt: time.Now(),
		Results:   make([]model.MoveResult, 0, len(entries)),
	}

	e.logger.Info("Sweep started", "path", baseDir, "categories", sel.String(), "entries", len(entries))

	for _, entry := range entries {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(baseDir, entry.Name())
		info, err := e.fs.Stat(path)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				res := model.Skipped(path, "", model.ReasonNotFound, 0)
				e.pipeline.report("", baseDir, res)
				report.Add(res)
				continue
			}
			res := model.Failed(path, "", err.Error(), 0)
			e.pipeline.report("", baseDir, res)
			report.Add(res)
			continue
		}
		if !info.Mode().IsRegular() {
			continue
		}

		report.Add(e.pipeline.organize("", baseDir, path, sel))
	}

	report.Duration = time.Since(report.StartedAt)

	e.logger.Info("Sweep completed",
		"path", baseDir,
		"moved", report.Moved,
		"skipped", report.Skipped,
		"failed", report.Failed,
		"ignored", report.Ignored,
		"cancelled", report.Cancelled,
		"elapsed", report.Duration.String())

	e.pipeline.events.emit(model.OrganizerEvent{
		Kind:    model.EventSweepCompleted,
		BaseDir: baseDir,
		Reason:  fmt.Sprintf("moved=%d skipped=%d failed=%d", report.Moved, report.Skipped, report.Failed),
	})

	return report, nil
}
