package service

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

// emitter stamps and publishes organizer events; a nil publisher drops them
type emitter struct {
	publisher outbound.EventPublisher
}

func (e emitter) emit(event model.OrganizerEvent) {
	if e.publisher == nil {
		return
	}
	event.ID = uuid.NewString()
	if event.Time.IsZero() {
		event.Time = time.Now()
	}
	e.publisher.Publish(event)
}

// pipeline is the classify, materialize, move sequence shared by sweeps and sessions
type pipeline struct {
	table   *model.CategoryTable
	folders *FolderMaterializer
	mover   *Mover
	ledger  outbound.OthersLedger
	filter  outbound.PathFilter
	logger  outbound.Logger
	events  emitter
}

// organize handles one regular file. It never fails: every outcome is a result.
func (p *pipeline) organize(sessionID, baseDir, path string, sel model.Selection) model.MoveResult {
	if p.filter != nil && p.filter.IsIgnored(filepath.Base(path)) {
		p.logger.Info("Ignoring file", "path", path, "reason", model.ReasonIgnoredPattern)
		return model.Ignored(path, model.ReasonIgnoredPattern)
	}

	ext := model.ExtensionOf(path)
	category, ok := p.table.Route(ext, sel)
	if !ok {
		return model.Ignored(path, model.ReasonUnclassified)
	}

	folder, created, err := p.folders.EnsureFolder(baseDir, category.Folder)
	if err != nil {
		res := model.Failed(path, "", err.Error(), 0)
		res.Category = category.Folder
		p.report(sessionID, baseDir, res)
		return res
	}
	if created {
		p.events.emit(model.OrganizerEvent{
			Kind:      model.EventFolderCreated,
			SessionID: sessionID,
			BaseDir:   baseDir,
			Path:      folder,
			Category:  category.Folder,
		})
	}

	res := p.mover.Move(path, folder)
	res.Category = category.Folder

	// recorded after the move so skipped or failed files leave no ledger line
	if category.IsOthers() && res.Outcome == model.OutcomeMoved {
		if err := p.ledger.Record(folder, ext); err != nil {
			p.logger.Error("Failed to record extension", "folder", folder, "extension", ext, "error", err)
		}
	}

	p.report(sessionID, baseDir, res)
	return res
}

func (p *pipeline) report(sessionID, baseDir string, res model.MoveResult) {
	switch res.Outcome {
	case model.OutcomeMoved:
		p.logger.Info("File moved",
			"path", res.Source, "destination", res.Destination, "category", res.Category,
			"attempts", res.Attempts, "session", sessionID)
	case model.OutcomeSkipped:
		p.logger.Warn("File skipped",
			"path", res.Source, "destination", res.Destination, "reason", res.Reason, "session", sessionID)
	case model.OutcomeFailed:
		p.logger.Error("File move failed",
			"path", res.Source, "destination", res.Destination, "reason", res.Reason,
			"attempts", res.Attempts, "session", sessionID)
	}

	kind, ok := model.EventForResult(res)
	if !ok {
		return
	}
	p.events.emit(model.OrganizerEvent{
		Kind:        kind,
		SessionID:   sessionID,
		BaseDir:     baseDir,
		Path:        res.Source,
		Destination: res.Destination,
		Category:    res.Category,
		Outcome:     res.Outcome,
		Reason:      res.Reason,
	})
}
