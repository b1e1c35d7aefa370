// Package scenarios runs YAML described fleet simulations and checks their
// outcome against expectations.
package scenarios

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evfleet/core/model"
	"github.com/kilianp07/evfleet/core/simulation"
)

// Final SoC expectations.
const (
	FinalAny      = ""
	FinalGoal     = "goal"
	FinalDepleted = "depleted"
)

type Expected struct {
	// Summaries is the number of rows produced.
	Summaries int `yaml:"summaries"`
	// Error, when set, must appear in the fleet construction error.
	Error string `yaml:"error,omitempty"`
	// FinalSoC is "goal" when every vehicle must end at its goal, "depleted"
	// when no charging may happen.
	FinalSoC string `yaml:"final_soc,omitempty"`
}

type Scenario struct {
	Name          string          `yaml:"name"`
	Description   string          `yaml:"description,omitempty"`
	Vehicles      int             `yaml:"vehicles"`
	Days          int             `yaml:"days"`
	Seed          int64           `yaml:"seed"`
	CapacityKWh   float64         `yaml:"capacity_kwh,omitempty"`
	TimeStepHours float64         `yaml:"time_step_hours,omitempty"`
	Profiles      []model.Profile `yaml:"profiles"`
	Expected      Expected        `yaml:"expected"`
}

// FleetConfig returns the simulation parameters of the scenario.
func (s Scenario) FleetConfig() simulation.FleetConfig {
	return simulation.FleetConfig{
		Size:        s.Vehicles,
		CapacityKWh: s.CapacityKWh,
		TimeStep:    s.TimeStepHours,
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
