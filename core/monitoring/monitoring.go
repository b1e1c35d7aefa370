// Package monitoring defines error reporting for simulation runs.
package monitoring

import (
	"strconv"
	"time"

	"github.com/kilianp07/evfleet/core/model"
)

// Monitor reports failures to an external error tracker.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	// Recover reports a panic and re-raises it. It must be deferred directly.
	Recover()
	Flush(timeout time.Duration) bool
}

// NopMonitor discards every report.
type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration) bool                  { return true }

// RunTags describes a run for error reports.
func RunTags(run model.Run) map[string]string {
	return map[string]string{
		"run_id":   run.ID,
		"days":     strconv.Itoa(run.Days),
		"vehicles": strconv.Itoa(run.Vehicles),
		"seed":     strconv.FormatInt(run.Seed, 10),
	}
}
