package config

import (
	"github.com/kilianp07/evfleet/infra/auth"
	"github.com/kilianp07/evfleet/pkg/export"
)

// ProfilesConfig locates the schedule population.
type ProfilesConfig struct {
	// Path is a local file or an http(s) URL.
	Path string `json:"path"`
	// Sheet selects the xlsx worksheet. Empty means the first one.
	Sheet string `json:"sheet"`
	// Auth configures OAuth2 client credentials for remote sources.
	Auth auth.Conf `json:"auth"`
}

// ExportConfig controls where results are written.
type ExportConfig struct {
	// Format is "csv" or "json".
	Format string `json:"format"`
	// Path of the result file. Empty writes to stdout, "-" disables export.
	Path string `json:"path"`
	// StatsPath optionally receives the per-day statistics as CSV.
	StatsPath string `json:"stats_path"`
	// ReportPath optionally receives an HTML chart of the per-day statistics.
	ReportPath string `json:"report_path"`
}

// SetDefaults applies sane defaults.
func (c *ExportConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = string(export.FormatCSV)
	}
}

// Validate checks the format name.
func (c ExportConfig) Validate() error {
	_, err := export.ParseFormat(c.Format)
	return err
}

// LiveConfig exposes run progress over websocket.
type LiveConfig struct {
	// Addr is the listen address of the /ws endpoint. Empty disables it.
	Addr string `json:"addr"`
}
