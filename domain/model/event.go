package model

import "time"

// EventKind names an organizer event; each kind is also a log line
type EventKind string

const (
	EventFolderCreated       EventKind = "folder-created"
	EventFileMoved           EventKind = "file-moved"
	EventFileSkipped         EventKind = "file-skipped"
	EventFileFailed          EventKind = "file-failed"
	EventFileCreatedSeen     EventKind = "file-created-seen"
	EventFileDeletedSeen     EventKind = "file-deleted-seen"
	EventFileMovedExternally EventKind = "file-moved-externally-seen"
	EventSessionStarted      EventKind = "session-started"
	EventSessionStopped      EventKind = "session-stopped"
	EventSweepCompleted      EventKind = "sweep-completed"
)

// OrganizerEvent is published to subscribers (websocket clients, the move journal)
type OrganizerEvent struct {
	ID          string      `json:"id"`
	Kind        EventKind   `json:"kind"`
	SessionID   string      `json:"sessionId,omitempty"`
	BaseDir     string      `json:"baseDir,omitempty"`
	Path        string      `json:"path,omitempty"`
	Destination string      `json:"destination,omitempty"`
	Category    string      `json:"category,omitempty"`
	Outcome     MoveOutcome `json:"outcome,omitempty"`
	Reason      string      `json:"reason,omitempty"`
	Time        time.Time   `json:"time"`
}

// EventForResult maps a move result onto its event kind; ignored results have none
func EventForResult(res MoveResult) (EventKind, bool) {
	switch res.Outcome {
	case OutcomeMoved:
		return EventFileMoved, true
	case OutcomeSkipped:
		return EventFileSkipped, true
	case OutcomeFailed:
		return EventFileFailed, true
	}
	return "", false
}

// JournalEntry is a persisted move outcome
type JournalEntry struct {
	Seq         uint64      `json:"seq"`
	SessionID   string      `json:"sessionId,omitempty"`
	Source      string      `json:"source"`
	Destination string      `json:"destination,omitempty"`
	Category    string      `json:"category,omitempty"`
	Outcome     MoveOutcome `json:"outcome"`
	Reason      string      `json:"reason,omitempty"`
	Time        time.Time   `json:"time"`
}
