package service

import (
	"errors"
	"path/filepath"
	"time"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

const (
	DefaultMoveAttempts = 5
	DefaultRetryDelay   = time.Second
)

// Mover relocates files into category folders without ever overwriting
type Mover struct {
	fs       outbound.FileSystem
	logger   outbound.Logger
	attempts int
	delay    time.Duration
	sleep    func(time.Duration)
}

func NewMover(fs outbound.FileSystem, logger outbound.Logger, attempts int, delay time.Duration) *Mover {
	if attempts <= 0 {
		attempts = DefaultMoveAttempts
	}
	if delay < 0 {
		delay = DefaultRetryDelay
	}
	return &Mover{
		fs:       fs,
		logger:   logger,
		attempts: attempts,
		delay:    delay,
		sleep:    time.Sleep,
	}
}

// Move relocates src into destFolder under its own base name.
// Only busy failures are retried; the sleep between attempts blocks the caller,
// which is the handling goroutine of one session.
func (m *Mover) Move(src, destFolder string) model.MoveResult {
	dst := filepath.Join(destFolder, filepath.Base(src))

	if _, err := m.fs.Stat(dst); err == nil {
		return model.Skipped(src, dst, model.ReasonAlreadyExists, 0)
	}

	for attempt := 1; attempt <= m.attempts; attempt++ {
		err := m.fs.Rename(src, dst)
		switch {
		case err == nil:
			return model.Moved(src, dst, attempt)

		case errors.Is(err, model.ErrTransientLock):
			m.logger.Warn("File is in use by another process, retrying",
				"path", src, "attempt", attempt, "maxAttempts", m.attempts)
			if attempt < m.attempts {
				m.sleep(m.delay)
			}

		case errors.Is(err, model.ErrAlreadyExists):
			return model.Skipped(src, dst, model.ReasonAlreadyExists, attempt)

		case errors.Is(err, model.ErrNotFound):
			return model.Skipped(src, dst, model.ReasonNotFound, attempt)

		default:
			return model.Failed(src, dst, err.Error(), attempt)
		}
	}

	return model.Failed(src, dst, model.ReasonExhaustedRetries, m.attempts)
}
