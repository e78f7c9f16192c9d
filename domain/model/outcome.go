package model

import "time"

// MoveOutcome classifies the result of one move attempt sequence
type MoveOutcome string

const (
	OutcomeMoved   MoveOutcome = "moved"
	OutcomeSkipped MoveOutcome = "skipped"
	OutcomeFailed  MoveOutcome = "failed"
	OutcomeIgnored MoveOutcome = "ignored"
)

// Reasons reported with skipped or failed outcomes
const (
	ReasonAlreadyExists    = "already exists"
	ReasonNotFound         = "not found"
	ReasonExhaustedRetries = "exhausted retries"
	ReasonIgnoredPattern   = "ignored pattern"
	ReasonUnclassified     = "unclassified"
)

// MoveResult is reported for every file the organizer touches.
// The organizer never returns per-file errors, only results.
type MoveResult struct {
	Outcome     MoveOutcome `json:"outcome"`
	Reason      string      `json:"reason,omitempty"`
	Source      string      `json:"source"`
	Destination string      `json:"destination,omitempty"`
	Category    string      `json:"category,omitempty"`
	Attempts    int         `json:"attempts"`
}

func Moved(src, dst string, attempts int) MoveResult {
	return MoveResult{Outcome: OutcomeMoved, Source: src, Destination: dst, Attempts: attempts}
}

func Skipped(src, dst, reason string, attempts int) MoveResult {
	return MoveResult{Outcome: OutcomeSkipped, Reason: reason, Source: src, Destination: dst, Attempts: attempts}
}

func Failed(src, dst, reason string, attempts int) MoveResult {
	return MoveResult{Outcome: OutcomeFailed, Reason: reason, Source: src, Destination: dst, Attempts: attempts}
}

func Ignored(src, reason string) MoveResult {
	return MoveResult{Outcome: OutcomeIgnored, Reason: reason, Source: src}
}

// SweepReport summarizes a one-shot pass over a directory
type SweepReport struct {
	BaseDir   string        `json:"baseDir"`
	Selection string        `json:"selection"`
	Moved     int           `json:"moved"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Ignored   int           `json:"ignored"`
	Results   []MoveResult  `json:"results"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Cancelled bool          `json:"cancelled,omitempty"`
}

// Add counts r in the report
func (r *SweepReport) Add(res MoveResult) {
	switch res.Outcome {
	case OutcomeMoved:
		r.Moved++
	case OutcomeSkipped:
		r.Skipped++
	case OutcomeFailed:
		r.Failed++
	case OutcomeIgnored:
		r.Ignored++
	}
	r.Results = append(r.Results, res)
}
