package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

func newTestOrganizer(t *testing.T) (*OrganizerService, *watcherPool, *recordingPublisher) {
	t.Helper()
	pool := &watcherPool{}
	events := &recordingPublisher{}
	org, err := NewOrganizerService(OrganizerOptions{
		FileSystem: &testFS{},
		Watchers:   pool.factory,
		Ledger:     &memLedger{},
		Logger:     &mockLogger{},
		Events:     events,
		RetryDelay: 0,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = org.Shutdown(context.Background()) })
	return org, pool, events
}

func TestNewOrganizerService_RequiresAdapters(t *testing.T) {
	_, err := NewOrganizerService(OrganizerOptions{Logger: &mockLogger{}})
	assert.Error(t, err)
}

func TestOrganizer_StartWatchRegistersSession(t *testing.T) {
	org, pool, events := newTestOrganizer(t)
	dir := t.TempDir()

	info, err := org.StartWatch(context.Background(), dir, model.MustParseSelection("6,4"))
	require.NoError(t, err)

	assert.Equal(t, 1, info.Index)
	assert.Equal(t, dir, info.Path)
	assert.Equal(t, []string{"4", "6"}, info.Categories)
	assert.Equal(t, 1, org.Sessions().Len())
	assert.Contains(t, events.Kinds(), model.EventSessionStarted)

	w := pool.get(0)
	w.send(writeFile(t, dir, "pic.png"), outbound.FileModified)
	assert.Eventually(t, func() bool {
		return fileExists(filepath.Join(dir, "imagens", "pic.png"))
	}, 2*time.Second, 10*time.Millisecond)
}

func TestOrganizer_Organize(t *testing.T) {
	org, _, _ := newTestOrganizer(t)
	dir := t.TempDir()
	writeFile(t, dir, "existing.pdf")

	report, info, err := org.Organize(context.Background(), dir, model.MustParseSelection("4"))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Moved)
	assert.Equal(t, 1, info.Index)
	assert.FileExists(t, filepath.Join(dir, "pdf", "existing.pdf"))
}

func TestOrganizer_RejectsBadDirectories(t *testing.T) {
	org, _, _ := newTestOrganizer(t)
	dir := t.TempDir()
	file := writeFile(t, dir, "a.txt")

	_, err := org.Sweep(context.Background(), "", model.MustParseSelection("4"))
	assert.ErrorIs(t, err, model.ErrInvalidPath)

	_, err = org.StartWatch(context.Background(), filepath.Join(dir, "missing"), model.MustParseSelection("4"))
	assert.ErrorIs(t, err, model.ErrInvalidPath)

	_, err = org.Sweep(context.Background(), file, model.MustParseSelection("4"))
	assert.ErrorIs(t, err, model.ErrNotADirectory)

	assert.Equal(t, 0, org.Sessions().Len())
}

func TestOrganizer_CategoriesEndWithOthers(t *testing.T) {
	org, _, _ := newTestOrganizer(t)

	categories := org.Categories()
	require.Len(t, categories, 12)
	assert.Equal(t, "1", categories[0].Selector)
	assert.True(t, categories[11].IsOthers())
}

func TestOrganizer_ShutdownStopsSessions(t *testing.T) {
	org, pool, _ := newTestOrganizer(t)

	for i := 0; i < 2; i++ {
		_, err := org.StartWatch(context.Background(), t.TempDir(), model.MustParseSelection("todos"))
		require.NoError(t, err)
	}

	require.NoError(t, org.Shutdown(context.Background()))
	assert.Equal(t, 0, org.Sessions().Len())
	assert.True(t, pool.get(0).Stopped())
	assert.True(t, pool.get(1).Stopped())
}
