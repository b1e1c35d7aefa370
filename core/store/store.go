// Package store defines persistence of simulation runs.
package store

import (
	"context"
	"errors"

	"github.com/kilianp07/evfleet/core/model"
)

// ErrRunNotFound is returned by LoadRun for unknown run identifiers.
var ErrRunNotFound = errors.New("run not found")

// Store persists runs and their day summaries.
type Store interface {
	SaveRun(ctx context.Context, run model.Run, res []model.DaySummary) error
	LoadRun(ctx context.Context, runID string) (model.Run, []model.DaySummary, error)
	Close() error
}
