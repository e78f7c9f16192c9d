package bolt

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajkula/dirtidy/domain/model"
)

type nopLogger struct{}

func (nopLogger) Error(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := OpenJournal(filepath.Join(t.TempDir(), "data", "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func TestJournal_AppendAndRecent(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		require.NoError(t, j.Append(ctx, model.JournalEntry{
			Source:  "/base/" + name,
			Outcome: model.OutcomeMoved,
		}))
	}

	entries, err := j.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "/base/c.pdf", entries[0].Source)
	assert.Equal(t, uint64(3), entries[0].Seq)
	assert.Equal(t, "/base/b.pdf", entries[1].Source)
	assert.False(t, entries[0].Time.IsZero())
}

func TestJournal_RecentOnEmptyJournal(t *testing.T) {
	j := openTestJournal(t)

	entries, err := j.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestJournal_Recorder(t *testing.T) {
	j := openTestJournal(t)
	record := j.Recorder(nopLogger{})

	record(model.OrganizerEvent{Kind: model.EventFileCreatedSeen, Path: "/base/new.txt"})
	record(model.OrganizerEvent{
		Kind:        model.EventFileSkipped,
		Path:        "/base/photo.jpg",
		Destination: "/base/imagens/photo.jpg",
		Category:    "imagens",
		Outcome:     model.OutcomeSkipped,
		Reason:      model.ReasonAlreadyExists,
		Time:        time.Now(),
	})

	entries, err := j.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, model.OutcomeSkipped, entries[0].Outcome)
	assert.Equal(t, model.ReasonAlreadyExists, entries[0].Reason)
}
