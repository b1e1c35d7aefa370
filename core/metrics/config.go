package metrics

import "github.com/kilianp07/evfleet/core/factory"

// Config defines settings for result sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// PrometheusAddr, when set, exposes /metrics on this address.
	PrometheusAddr string `json:"prometheus_addr" yaml:"prometheus_addr"`
}
