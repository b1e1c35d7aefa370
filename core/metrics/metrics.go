package metrics

import "github.com/kilianp07/evfleet/core/model"

// MetricsSink records the day summaries produced by a simulation run.
type MetricsSink interface {
	RecordDaySummaries(run model.Run, res []model.DaySummary) error
}

// StatsRecorder records per-day fleet aggregates.
type StatsRecorder interface {
	RecordDayStats(run model.Run, stats []model.DayStats) error
}

// FleetSizeRecorder records the number of simulated vehicles.
type FleetSizeRecorder interface {
	RecordFleetSize(size int) error
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close() error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordDaySummaries(model.Run, []model.DaySummary) error { return nil }
func (NopSink) RecordDayStats(model.Run, []model.DayStats) error       { return nil }
func (NopSink) RecordFleetSize(int) error                              { return nil }
