// Package export writes simulation results in formats consumed by external
// reporting and plotting tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/evfleet/core/model"
)

// Format selects the output encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// SummaryHeader is the CSV column order for day summaries.
var SummaryHeader = []string{
	"Initial SoC", "Goal (kWh)", "Arrival (h)", "Departure (h)", "EV", "Day", "Final SoC",
}

// StatsHeader is the CSV column order for per-day statistics.
var StatsHeader = []string{
	"day", "vehicles", "mean_initial_soc", "std_initial_soc", "mean_goal",
	"total_goal", "mean_arrival", "mean_departure", "mean_final_soc",
}

// ParseFormat resolves a format name. Empty selects CSV.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Write encodes res to w using f.
func Write(w io.Writer, f Format, res []model.DaySummary) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatCSV, "":
		return WriteCSV(w, res)
	default:
		return fmt.Errorf("unknown export format %q", f)
	}
}

// WriteJSON writes the summaries to w as an indented JSON array.
func WriteJSON(w io.Writer, res []model.DaySummary) error {
	if res == nil {
		res = []model.DaySummary{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

// WriteCSV writes one row per summary in result order.
func WriteCSV(w io.Writer, res []model.DaySummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SummaryHeader); err != nil {
		return err
	}
	for _, r := range res {
		rec := []string{
			formatFloat(r.InitialSoC),
			formatFloat(r.GoalKWh),
			formatFloat(r.ArrivalHour),
			formatFloat(r.DepartureHour),
			strconv.Itoa(r.EV),
			strconv.Itoa(r.Day),
			formatFloat(r.FinalSoC),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteStatsCSV writes one row per simulated day.
func WriteStatsCSV(w io.Writer, stats []model.DayStats) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(StatsHeader); err != nil {
		return err
	}
	for _, s := range stats {
		rec := []string{
			strconv.Itoa(s.Day),
			strconv.Itoa(s.Vehicles),
			formatFloat(s.MeanInitialSoC),
			formatFloat(s.StdInitialSoC),
			formatFloat(s.MeanGoal),
			formatFloat(s.TotalGoal),
			formatFloat(s.MeanArrival),
			formatFloat(s.MeanDeparture),
			formatFloat(s.MeanFinalSoC),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
