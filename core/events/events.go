// Package events defines the progress notifications emitted while a
// simulation run executes.
package events

import (
	"time"

	"github.com/kilianp07/evfleet/core/model"
)

// Type identifies a progress event.
type Type string

const (
	RunStarted   Type = "run_started"
	DayCompleted Type = "day_completed"
	RunFinished  Type = "run_finished"
	RunFailed    Type = "run_failed"
)

// RunEvent is published on the progress bus.
type RunEvent struct {
	Type  Type            `json:"type"`
	RunID string          `json:"run_id"`
	Day   int             `json:"day,omitempty"`
	Stats *model.DayStats `json:"stats,omitempty"`
	Error string          `json:"error,omitempty"`
	Time  time.Time       `json:"time"`
}
