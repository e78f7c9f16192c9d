package service

import (
	"context"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/inbound"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

const (
	defaultCollectInterval = time.Minute
	maxResourceHistory     = 60 // one hour at one point per minute
	maxRecentEvents        = 20
)

// StatsServiceImpl counts organizer events and samples resource usage
type StatsServiceImpl struct {
	sessions inbound.SessionRegistry
	logger   outbound.Logger

	startedAt      time.Time
	sweeps         int64
	moved          int64
	skipped        int64
	failed         int64
	foldersCreated int64
	categories     map[string]*inbound.CategoryStats
	recentEvents   []model.OrganizerEvent

	statsHistory    []*inbound.ResourceStats
	collectInterval time.Duration
	stopCollect     chan struct{}
	stopOnce        sync.Once
	wg              sync.WaitGroup

	mu sync.RWMutex
}

// NewStatsService starts sampling resources every interval; zero means one minute
func NewStatsService(sessions inbound.SessionRegistry, logger outbound.Logger, interval time.Duration) *StatsServiceImpl {
	if interval <= 0 {
		interval = defaultCollectInterval
	}

	svc := &StatsServiceImpl{
		sessions:        sessions,
		logger:          logger,
		startedAt:       time.Now(),
		categories:      make(map[string]*inbound.CategoryStats),
		recentEvents:    make([]model.OrganizerEvent, 0, maxRecentEvents),
		statsHistory:    make([]*inbound.ResourceStats, 0, maxResourceHistory),
		collectInterval: interval,
		stopCollect:     make(chan struct{}),
	}

	svc.wg.Add(1)
	go svc.startCollection()

	return svc
}

var _ inbound.StatsService = (*StatsServiceImpl)(nil)

// Handler adapts RecordEvent for an event bus subscription
func (s *StatsServiceImpl) Handler() outbound.EventHandler {
	return s.RecordEvent
}

func (s *StatsServiceImpl) RecordEvent(event model.OrganizerEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch event.Kind {
	case model.EventSweepCompleted:
		s.sweeps++
	case model.EventFolderCreated:
		s.foldersCreated++
	case model.EventFileMoved:
		s.moved++
		s.category(event.Category).Moved++
	case model.EventFileSkipped:
		s.skipped++
		s.category(event.Category).Skipped++
	case model.EventFileFailed:
		s.failed++
		s.category(event.Category).Failed++
	default:
		return
	}

	s.recentEvents = append(s.recentEvents, event)
	if len(s.recentEvents) > maxRecentEvents {
		s.recentEvents = s.recentEvents[len(s.recentEvents)-maxRecentEvents:]
	}
}

// category returns the counters of folder; callers hold s.mu
func (s *StatsServiceImpl) category(folder string) *inbound.CategoryStats {
	if folder == "" {
		folder = "-"
	}
	c, ok := s.categories[folder]
	if !ok {
		c = &inbound.CategoryStats{Folder: folder}
		s.categories[folder] = c
	}
	return c
}

func (s *StatsServiceImpl) GetStats(ctx context.Context) (*inbound.OrganizerStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	stats := &inbound.OrganizerStats{
		StartedAt:      s.startedAt.Unix(),
		UptimeSeconds:  int64(time.Since(s.startedAt).Seconds()),
		Sweeps:         s.sweeps,
		Moved:          s.moved,
		Skipped:        s.skipped,
		Failed:         s.failed,
		FoldersCreated: s.foldersCreated,
		Categories:     make([]inbound.CategoryStats, 0, len(s.categories)),
		RecentEvents:   append([]model.OrganizerEvent(nil), s.recentEvents...),
	}
	for _, c := range s.categories {
		stats.Categories = append(stats.Categories, *c)
	}
	s.mu.RUnlock()

	sort.Slice(stats.Categories, func(i, j int) bool {
		return stats.Categories[i].Folder < stats.Categories[j].Folder
	})

	if s.sessions != nil {
		stats.ActiveSessions = s.sessions.Len()
	}
	stats.Resources = sampleResources()

	return stats, nil
}

func (s *StatsServiceImpl) GetResourceHistory(ctx context.Context, limit int) ([]*inbound.ResourceStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*inbound.ResourceStats, len(s.statsHistory))
	copy(result, s.statsHistory)

	if limit > 0 && limit < len(result) {
		result = result[len(result)-limit:]
	}
	return result, nil
}

func (s *StatsServiceImpl) Cleanup() {
	s.stopOnce.Do(func() {
		close(s.stopCollect)
		s.wg.Wait()
		s.logger.Debug("Stats collection stopped")
	})
}

func (s *StatsServiceImpl) startCollection() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.collectInterval)
	defer ticker.Stop()

	s.collectStats()

	for {
		select {
		case <-ticker.C:
			s.collectStats()
		case <-s.stopCollect:
			return
		}
	}
}

func (s *StatsServiceImpl) collectStats() {
	stats := sampleResources()

	s.mu.Lock()
	s.statsHistory = append(s.statsHistory, stats)
	if len(s.statsHistory) > maxResourceHistory {
		s.statsHistory = s.statsHistory[len(s.statsHistory)-maxResourceHistory:]
	}
	s.mu.Unlock()
}

func sampleResources() *inbound.ResourceStats {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	return &inbound.ResourceStats{
		Timestamp:   time.Now().Unix(),
		MemoryUsage: int64(memStats.Alloc),
		Goroutines:  runtime.NumGoroutine(),
		GCCycles:    memStats.NumGC,
		GCPauseNs:   int64(memStats.PauseNs[(memStats.NumGC+255)%256]), // last GC pause
		HeapObjects: memStats.HeapObjects,
	}
}
