package model

import "time"

// DaySummary is the outcome of one vehicle over one simulated day.
// JSON names follow the column headers of the fleet report.
type DaySummary struct {
	InitialSoC    float64 `json:"Initial SoC"`
	GoalKWh       float64 `json:"Goal (kWh)"`
	ArrivalHour   float64 `json:"Arrival (h)"`
	DepartureHour float64 `json:"Departure (h)"`
	EV            int     `json:"EV"`
	Day           int     `json:"Day"`
	FinalSoC      float64 `json:"Final SoC"`
}

// DayStats aggregates the summaries of one simulated day across the fleet.
type DayStats struct {
	Day            int     `json:"day"`
	Vehicles       int     `json:"vehicles"`
	MeanInitialSoC float64 `json:"mean_initial_soc"`
	StdInitialSoC  float64 `json:"std_initial_soc"`
	MeanGoal       float64 `json:"mean_goal"`
	TotalGoal      float64 `json:"total_goal"`
	MeanArrival    float64 `json:"mean_arrival"`
	MeanDeparture  float64 `json:"mean_departure"`
	MeanFinalSoC   float64 `json:"mean_final_soc"`
}

// Run describes one multi-day simulation invocation.
type Run struct {
	ID          string    `json:"id"`
	StartedAt   time.Time `json:"started_at"`
	Days        int       `json:"days"`
	Vehicles    int       `json:"vehicles"`
	Seed        int64     `json:"seed"`
	CapacityKWh float64   `json:"capacity_kwh"`
	TimeStep    float64   `json:"time_step_hours"`
}
