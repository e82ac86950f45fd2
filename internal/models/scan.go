package models

import (
	"time"

	"github.com/google/uuid"
)

// ScanRun summarizes one scan invocation in the history database
type ScanRun struct {
	ID         string // UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Airports   int
	Aircraft   int
	Ignored    int
}

// NewScanRun starts a run with a fresh id
func NewScanRun(startedAt time.Time) ScanRun {
	return ScanRun{ID: uuid.NewString(), StartedAt: startedAt}
}

// Duration is how long the scan took
func (r ScanRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
