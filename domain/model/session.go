package model

import "time"

// SessionState is the lifecycle of a watch session
type SessionState string

const (
	SessionCreated SessionState = "created"
	SessionActive  SessionState = "active"
	SessionStopped SessionState = "stopped"
)

// SessionInfo is the listing view of a watch session.
// Index is the 1-based position in the registry at listing time, not a stable id.
type SessionInfo struct {
	Index      int          `json:"index"`
	ID         string       `json:"id"`
	Path       string       `json:"path"`
	Categories []string     `json:"categories"`
	State      SessionState `json:"state"`
	StartedAt  time.Time    `json:"startedAt"`
}
