package rest

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/inbound"
)

type MockOrganizerService struct {
	mock.Mock
	registry *MockSessionRegistry
}

func (m *MockOrganizerService) Sweep(ctx context.Context, baseDir string, sel model.Selection) (*model.SweepReport, error) {
	args := m.Called(ctx, baseDir, sel)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SweepReport), args.Error(1)
}

func (m *MockOrganizerService) StartWatch(ctx context.Context, baseDir string, sel model.Selection) (model.SessionInfo, error) {
	args := m.Called(ctx, baseDir, sel)
	return args.Get(0).(model.SessionInfo), args.Error(1)
}

func (m *MockOrganizerService) Organize(ctx context.Context, baseDir string, sel model.Selection) (*model.SweepReport, model.SessionInfo, error) {
	args := m.Called(ctx, baseDir, sel)
	var report *model.SweepReport
	if args.Get(0) != nil {
		report = args.Get(0).(*model.SweepReport)
	}
	return report, args.Get(1).(model.SessionInfo), args.Error(2)
}

func (m *MockOrganizerService) Categories() []model.Category {
	args := m.Called()
	return args.Get(0).([]model.Category)
}

func (m *MockOrganizerService) Sessions() inbound.SessionRegistry {
	return m.registry
}

func (m *MockOrganizerService) Shutdown(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockSessionRegistry struct {
	mock.Mock
}

func (m *MockSessionRegistry) List() []model.SessionInfo {
	args := m.Called()
	return args.Get(0).([]model.SessionInfo)
}

func (m *MockSessionRegistry) StopAt(index int) (model.SessionInfo, error) {
	args := m.Called(index)
	return args.Get(0).(model.SessionInfo), args.Error(1)
}

func (m *MockSessionRegistry) StopMany(indices []int) ([]model.SessionInfo, error) {
	args := m.Called(indices)
	return args.Get(0).([]model.SessionInfo), args.Error(1)
}

func (m *MockSessionRegistry) StopAll() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockSessionRegistry) Len() int {
	args := m.Called()
	return args.Int(0)
}

type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateToken(subject string, issuedAt time.Time) (string, error) {
	args := m.Called(subject, issuedAt)
	return args.String(0), args.Error(1)
}

func (m *MockTokenService) ValidateToken(token string) (*model.Principal, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Principal), args.Error(1)
}

type MockJournal struct {
	mock.Mock
}

func (m *MockJournal) Append(ctx context.Context, entry model.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournal) Recent(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.JournalEntry), args.Error(1)
}

func (m *MockJournal) Close() error {
	return m.Called().Error(0)
}

// TestLogger records the level passed to UpdateLevel
type TestLogger struct {
	level string
}

func (l *TestLogger) Error(msg string, args ...any) {}
func (l *TestLogger) Warn(msg string, args ...any)  {}
func (l *TestLogger) Info(msg string, args ...any)  {}
func (l *TestLogger) Debug(msg string, args ...any) {}
func (l *TestLogger) UpdateLevel(level string)      { l.level = level }
func (l *TestLogger) Shutdown()                     {}

func newMockOrganizer() (*MockOrganizerService, *MockSessionRegistry) {
	reg := &MockSessionRegistry{}
	return &MockOrganizerService{registry: reg}, reg
}

type MockStatsService struct {
	mock.Mock
}

func (m *MockStatsService) GetStats(ctx context.Context) (*inbound.OrganizerStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*inbound.OrganizerStats)
	return stats, args.Error(1)
}

func (m *MockStatsService) GetResourceHistory(ctx context.Context, limit int) ([]*inbound.ResourceStats, error) {
	args := m.Called(ctx, limit)
	history, _ := args.Get(0).([]*inbound.ResourceStats)
	return history, args.Error(1)
}

func (m *MockStatsService) RecordEvent(event model.OrganizerEvent) {
	m.Called(event)
}

func (m *MockStatsService) Cleanup() {}
