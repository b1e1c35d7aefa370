package metrics

import (
	"errors"

	"github.com/kilianp07/evfleet/core/model"
)

// MultiSink fans out results to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordDaySummaries forwards the summaries to all sinks. Every sink is
// attempted; the errors are joined.
func (m *MultiSink) RecordDaySummaries(run model.Run, res []model.DaySummary) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordDaySummaries(run, res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordDayStats forwards aggregates to sinks implementing StatsRecorder.
func (m *MultiSink) RecordDayStats(run model.Run, stats []model.DayStats) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(StatsRecorder); ok {
			if err := rec.RecordDayStats(run, stats); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// RecordFleetSize forwards the fleet size when supported by the sink.
func (m *MultiSink) RecordFleetSize(size int) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(FleetSizeRecorder); ok {
			if err := rec.RecordFleetSize(size); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink implementing Closer.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
