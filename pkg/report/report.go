// Package report renders per-day fleet statistics as an interactive HTML
// chart.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/evfleet/core/model"
)

// WriteHTML renders one page holding the SoC chart and the energy goal chart.
func WriteHTML(w io.Writer, run model.Run, stats []model.DayStats) error {
	page := components.NewPage()
	page.PageTitle = fmt.Sprintf("EV fleet run %s", run.ID)
	page.AddCharts(socChart(run, stats), goalChart(stats))
	if err := page.Render(w); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func days(stats []model.DayStats) []string {
	xs := make([]string, len(stats))
	for i, s := range stats {
		xs[i] = strconv.Itoa(s.Day)
	}
	return xs
}

func series(stats []model.DayStats, pick func(model.DayStats) float64) []opts.LineData {
	ys := make([]opts.LineData, len(stats))
	for i, s := range stats {
		ys[i] = opts.LineData{Value: pick(s)}
	}
	return ys
}

func socChart(run model.Run, stats []model.DayStats) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "State of charge",
			Subtitle: fmt.Sprintf("%d vehicles, capacity %g kWh", run.Vehicles, run.CapacityKWh),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Day"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "kWh"}),
		charts.WithTooltipOpts(opts.Tooltip{Trigger: "axis"}),
	)
	line.SetXAxis(days(stats)).
		AddSeries("Mean initial SoC", series(stats, func(s model.DayStats) float64 { return s.MeanInitialSoC })).
		AddSeries("Mean final SoC", series(stats, func(s model.DayStats) float64 { return s.MeanFinalSoC }))
	return line
}

func goalChart(stats []model.DayStats) *charts.Bar {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Energy goal"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Day"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "kWh"}),
	)
	ys := make([]opts.BarData, len(stats))
	for i, s := range stats {
		ys[i] = opts.BarData{Value: s.TotalGoal}
	}
	bar.SetXAxis(days(stats)).AddSeries("Total goal", ys)
	return bar
}
