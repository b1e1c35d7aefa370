// Package metrics defines the sinks that receive simulation results.
//
// A MetricsSink records the per-vehicle day summaries of a run. Sinks may
// additionally implement StatsRecorder or FleetSizeRecorder; MultiSink fans
// out to every sink and only forwards optional events to those that support
// them. Concrete sinks live in infra/metrics and infra/mqtt and are built from
// configuration through NewMetricsSink.
package metrics
