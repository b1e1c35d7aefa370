// Package mqtt publishes simulation results to an MQTT broker.
//
// Each day summary is sent as JSON on <prefix>/ev/<index>/day and each day's
// fleet aggregate on <prefix>/fleet/day. Publisher implements the
// metrics.MetricsSink and metrics.StatsRecorder interfaces so it can be
// selected from configuration like any other sink.
package mqtt
