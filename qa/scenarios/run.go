package scenarios

import (
	"math"
	"strings"
	"testing"

	"github.com/kilianp07/evfleet/core/model"
	"github.com/kilianp07/evfleet/core/simulation"
)

// tolerance absorbs the two-decimal rounding of summaries.
const tolerance = 0.011

func RunScenario(t *testing.T, sc *Scenario) {
	t.Helper()
	fleet, err := simulation.NewFleet(sc.Profiles, sc.FleetConfig(), simulation.NewRand(sc.Seed))
	if sc.Expected.Error != "" {
		if err == nil || !strings.Contains(err.Error(), sc.Expected.Error) {
			t.Fatalf("scenario %s expected error containing %q, got %v", sc.Name, sc.Expected.Error, err)
		}
		return
	}
	if err != nil {
		t.Fatalf("scenario %s: %v", sc.Name, err)
	}

	res := fleet.SimulateMultipleDays(sc.Days)
	if len(res) != sc.Expected.Summaries {
		t.Fatalf("scenario %s expected %d summaries, got %d", sc.Name, sc.Expected.Summaries, len(res))
	}
	capacity := fleet.Vehicles()[0].Capacity()
	for i, r := range res {
		checkOrder(t, sc.Name, i, fleet.Size(), r)
		checkBounds(t, sc.Name, capacity, r)
		switch sc.Expected.FinalSoC {
		case FinalGoal:
			if math.Abs(r.FinalSoC-math.Min(r.GoalKWh, capacity)) > tolerance {
				t.Errorf("scenario %s row %d: final %v, want goal %v", sc.Name, i, r.FinalSoC, r.GoalKWh)
			}
		case FinalDepleted:
			want := math.Max(r.InitialSoC-r.GoalKWh, 0)
			if math.Abs(r.FinalSoC-want) > tolerance {
				t.Errorf("scenario %s row %d: final %v, want depleted %v", sc.Name, i, r.FinalSoC, want)
			}
		}
	}
}

// checkOrder verifies the day-major, EV-minor layout of the results.
func checkOrder(t *testing.T, name string, i, size int, r model.DaySummary) {
	t.Helper()
	if r.Day != i/size+1 || r.EV != i%size {
		t.Errorf("scenario %s row %d: got day %d ev %d", name, i, r.Day, r.EV)
	}
}

func checkBounds(t *testing.T, name string, capacity float64, r model.DaySummary) {
	t.Helper()
	if r.InitialSoC < 0.1*capacity-tolerance || r.InitialSoC > 0.2*capacity+tolerance {
		t.Errorf("scenario %s day %d ev %d: initial SoC %v outside [10%%, 20%%] of %v", name, r.Day, r.EV, r.InitialSoC, capacity)
	}
	if r.FinalSoC < 0 || r.FinalSoC > capacity+tolerance {
		t.Errorf("scenario %s day %d ev %d: final SoC %v outside [0, %v]", name, r.Day, r.EV, r.FinalSoC, capacity)
	}
}
