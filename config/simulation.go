package config

import (
	"fmt"
	"math"

	"github.com/kilianp07/evfleet/core/simulation"
)

// MinTimeStepHours is the finest charging tick accepted, one second.
const MinTimeStepHours = 1.0 / 3600

// SimulationConfig holds the fleet run parameters.
type SimulationConfig struct {
	Vehicles      int     `json:"vehicles"`
	Days          int     `json:"days"`
	CapacityKWh   float64 `json:"capacity_kwh"`
	TimeStepHours float64 `json:"time_step_hours"`
	// Seed makes runs reproducible. Zero seeds from the clock.
	Seed int64 `json:"seed"`
}

// SetDefaults applies sane defaults.
func (c *SimulationConfig) SetDefaults() {
	if c.Vehicles == 0 {
		c.Vehicles = simulation.DefaultFleetSize
	}
	if c.Days == 0 {
		c.Days = 1
	}
	if c.CapacityKWh == 0 {
		c.CapacityKWh = simulation.DefaultCapacity
	}
	if c.TimeStepHours == 0 {
		c.TimeStepHours = simulation.DefaultTimeStep
	}
}

// Validate rejects negative sizes and non-finite parameters.
func (c SimulationConfig) Validate() error {
	if c.Vehicles < 0 {
		return fmt.Errorf("vehicles must be positive, got %d", c.Vehicles)
	}
	if c.Days < 0 {
		return fmt.Errorf("days must be positive, got %d", c.Days)
	}
	if c.CapacityKWh < 0 || math.IsNaN(c.CapacityKWh) || math.IsInf(c.CapacityKWh, 0) {
		return fmt.Errorf("invalid capacity_kwh %v", c.CapacityKWh)
	}
	if c.TimeStepHours < 0 || c.TimeStepHours > 24 || math.IsNaN(c.TimeStepHours) {
		return fmt.Errorf("invalid time_step_hours %v", c.TimeStepHours)
	}
	if c.TimeStepHours != 0 && c.TimeStepHours < MinTimeStepHours {
		return fmt.Errorf("time_step_hours %v is below one second", c.TimeStepHours)
	}
	return nil
}

// FleetConfig converts the section into simulation parameters.
func (c SimulationConfig) FleetConfig() simulation.FleetConfig {
	return simulation.FleetConfig{
		Size:        c.Vehicles,
		CapacityKWh: c.CapacityKWh,
		TimeStep:    c.TimeStepHours,
	}
}
