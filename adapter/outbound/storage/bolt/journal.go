package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

var movesBucket = []byte("moves")

// Journal persists move outcomes in a bbolt file, keyed by sequence
type Journal struct {
	db *bolt.DB
}

func OpenJournal(path string) (*Journal, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create journal directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open journal %s: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(movesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init journal: %w", err)
	}

	return &Journal{db: db}, nil
}

var _ outbound.MoveJournal = (*Journal)(nil)

func (j *Journal) Append(ctx context.Context, entry model.JournalEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return j.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(movesBucket)

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		entry.Seq = seq
		if entry.Time.IsZero() {
			entry.Time = time.Now()
		}

		data, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("encode journal entry: %w", err)
		}
		return b.Put(seqKey(seq), data)
	})
}

// Recent returns up to limit entries, newest first
func (j *Journal) Recent(ctx context.Context, limit int) ([]model.JournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	entries := make([]model.JournalEntry, 0, limit)
	err := j.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(movesBucket).Cursor()
		for k, v := c.Last(); k != nil && len(entries) < limit; k, v = c.Prev() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var entry model.JournalEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("decode journal entry %d: %w", binary.BigEndian.Uint64(k), err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Recorder returns an event handler that journals move outcomes
func (j *Journal) Recorder(logger outbound.Logger) outbound.EventHandler {
	return func(event model.OrganizerEvent) {
		if event.Outcome == "" {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		err := j.Append(ctx, model.JournalEntry{
			SessionID:   event.SessionID,
			Source:      event.Path,
			Destination: event.Destination,
			Category:    event.Category,
			Outcome:     event.Outcome,
			Reason:      event.Reason,
			Time:        event.Time,
		})
		if err != nil {
			logger.Error("Failed to journal move", "path", event.Path, "error", err)
		}
	}
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}
