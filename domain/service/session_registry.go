package service

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

// SessionRegistry keeps active sessions in insertion order.
// Indices are positions, recomputed on every listing: removing session k
// shifts every later session down by one.
type SessionRegistry struct {
	sessions []*WatchSession
	logger   outbound.Logger
	mu       sync.Mutex
}

func NewSessionRegistry(logger outbound.Logger) *SessionRegistry {
	return &SessionRegistry{
		sessions: make([]*WatchSession, 0),
		logger:   logger,
	}
}

// Register appends s and returns its current index
func (r *SessionRegistry) Register(s *WatchSession) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions = append(r.sessions, s)
	return len(r.sessions)
}

func (r *SessionRegistry) List() []model.SessionInfo {
	r.mu.Lock()
	sessions := make([]*WatchSession, len(r.sessions))
	copy(sessions, r.sessions)
	r.mu.Unlock()

	infos := make([]model.SessionInfo, 0, len(sessions))
	for i, s := range sessions {
		info := s.Info()
		info.Index = i + 1
		infos = append(infos, info)
	}
	return infos
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// StopAt removes the session at index and stops it outside the lock,
// so a session finishing a retry loop never blocks listing or other stops.
func (r *SessionRegistry) StopAt(index int) (model.SessionInfo, error) {
	r.mu.Lock()
	s, err := r.removeLocked(index)
	r.mu.Unlock()

	if err != nil {
		r.logger.Warn("Invalid session index", "index", index)
		return model.SessionInfo{}, err
	}

	info := s.Info()
	info.Index = index
	if err := s.Stop(); err != nil {
		return info, fmt.Errorf("stop session %d: %w", index, err)
	}

	r.logger.Info("Stopped watching folder", "index", index, "path", info.Path)
	return info, nil
}

// StopMany removes every listed session, highest index first so that a removal
// never shifts an index not yet processed, then stops them in parallel.
// Out of range indices are reported and do not prevent the others.
func (r *SessionRegistry) StopMany(indices []int) ([]model.SessionInfo, error) {
	ordered := uniqueDescending(indices)

	var errs []error
	removed := make([]*WatchSession, 0, len(ordered))
	infos := make([]model.SessionInfo, 0, len(ordered))

	r.mu.Lock()
	for _, index := range ordered {
		s, err := r.removeLocked(index)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		info := s.Info()
		info.Index = index
		removed = append(removed, s)
		infos = append(infos, info)
	}
	r.mu.Unlock()

	for _, err := range errs {
		r.logger.Warn("Invalid session index", "error", err)
	}

	if err := stopAll(removed); err != nil {
		errs = append(errs, err)
	}

	for _, info := range infos {
		r.logger.Info("Stopped watching folder", "index", info.Index, "path", info.Path)
	}

	return infos, errors.Join(errs...)
}

// StopAll stops every registered session
func (r *SessionRegistry) StopAll() error {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make([]*WatchSession, 0)
	r.mu.Unlock()

	return stopAll(sessions)
}

func (r *SessionRegistry) removeLocked(index int) (*WatchSession, error) {
	if index < 1 || index > len(r.sessions) {
		return nil, fmt.Errorf("%w: %d (have %d)", model.ErrSessionIndexOutOfRange, index, len(r.sessions))
	}

	s := r.sessions[index-1]
	r.sessions = append(r.sessions[:index-1], r.sessions[index:]...)
	return s, nil
}

func stopAll(sessions []*WatchSession) error {
	var g errgroup.Group
	for _, s := range sessions {
		g.Go(s.Stop)
	}
	return g.Wait()
}

func uniqueDescending(indices []int) []int {
	seen := make(map[int]struct{}, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if _, ok := seen[i]; ok {
			continue
		}
		seen[i] = struct{}{}
		out = append(out, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(out)))
	return out
}
