package simulation

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/evfleet/core/model"
)

// Summarize aggregates summaries per day, ordered by day.
func Summarize(results []model.DaySummary) []model.DayStats {
	byDay := make(map[int][]model.DaySummary)
	for _, r := range results {
		byDay[r.Day] = append(byDay[r.Day], r)
	}
	days := make([]int, 0, len(byDay))
	for d := range byDay {
		days = append(days, d)
	}
	sort.Ints(days)

	out := make([]model.DayStats, 0, len(days))
	for _, d := range days {
		out = append(out, dayStats(d, byDay[d]))
	}
	return out
}

func dayStats(day int, rs []model.DaySummary) model.DayStats {
	n := len(rs)
	initial := make([]float64, n)
	goal := make([]float64, n)
	arrival := make([]float64, n)
	departure := make([]float64, n)
	final := make([]float64, n)
	for i, r := range rs {
		initial[i] = r.InitialSoC
		goal[i] = r.GoalKWh
		arrival[i] = r.ArrivalHour
		departure[i] = r.DepartureHour
		final[i] = r.FinalSoC
	}
	st := model.DayStats{
		Day:            day,
		Vehicles:       n,
		MeanInitialSoC: round2(stat.Mean(initial, nil)),
		MeanGoal:       round2(stat.Mean(goal, nil)),
		TotalGoal:      round2(floats.Sum(goal)),
		MeanArrival:    round2(stat.Mean(arrival, nil)),
		MeanDeparture:  round2(stat.Mean(departure, nil)),
		MeanFinalSoC:   round2(stat.Mean(final, nil)),
	}
	if n > 1 {
		st.StdInitialSoC = round2(stat.StdDev(initial, nil))
	}
	return st
}
