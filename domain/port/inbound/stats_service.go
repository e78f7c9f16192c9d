package inbound

import (
	"context"

	"github.com/ajkula/dirtidy/domain/model"
)

// ResourceStats is a snapshot of the process resource usage
type ResourceStats struct {
	Timestamp   int64  `json:"timestamp"`
	MemoryUsage int64  `json:"memoryUsage"` // bytes
	Goroutines  int    `json:"goroutines"`
	GCCycles    uint32 `json:"gcCycles"`
	GCPauseNs   int64  `json:"gcPauseNs"`
	HeapObjects uint64 `json:"heapObjects"`
}

// CategoryStats counts outcomes for one destination folder
type CategoryStats struct {
	Folder  string `json:"folder"`
	Moved   int64  `json:"moved"`
	Skipped int64  `json:"skipped"`
	Failed  int64  `json:"failed"`
}

// OrganizerStats aggregates what the organizer did since startup
type OrganizerStats struct {
	StartedAt      int64                  `json:"startedAt"`
	UptimeSeconds  int64                  `json:"uptimeSeconds"`
	ActiveSessions int                    `json:"activeSessions"`
	Sweeps         int64                  `json:"sweeps"`
	Moved          int64                  `json:"moved"`
	Skipped        int64                  `json:"skipped"`
	Failed         int64                  `json:"failed"`
	FoldersCreated int64                  `json:"foldersCreated"`
	Categories     []CategoryStats        `json:"categories"`
	RecentEvents   []model.OrganizerEvent `json:"recentEvents"`
	Resources      *ResourceStats         `json:"resources"`
}

// StatsService collects organizer counters and resource usage
type StatsService interface {
	// GetStats returns the current counters with a fresh resource snapshot
	GetStats(ctx context.Context) (*OrganizerStats, error)

	// GetResourceHistory returns up to limit periodic snapshots, oldest first
	GetResourceHistory(ctx context.Context, limit int) ([]*ResourceStats, error)

	// RecordEvent counts an organizer event
	RecordEvent(event model.OrganizerEvent)

	// Cleanup stops the periodic collection
	Cleanup()
}
