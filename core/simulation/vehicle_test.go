package simulation

import (
	"errors"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evfleet/core/model"
	"github.com/kilianp07/evfleet/core/timeofday"
)

func newTestVehicle(t *testing.T, arrival, departure, consumption any, capacity float64) *Vehicle {
	t.Helper()
	v, err := NewVehicle(model.Profile{
		ArrivalAtHome:     arrival,
		DepartureFromHome: departure,
		Consumption:       consumption,
	}, capacity, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	return v
}

func TestNewVehicle(t *testing.T) {
	v := newTestVehicle(t, "2024-01-01 18:30:00", time.Date(2024, 1, 2, 7, 15, 0, 0, time.UTC), "3500.5", 0)
	assert.Equal(t, 18.5, v.Arrival())
	assert.Equal(t, 7.25, v.Departure())
	assert.Equal(t, 3500.5, v.Consumption())
	assert.Equal(t, DefaultCapacity, v.Capacity())
	assert.GreaterOrEqual(t, v.InitialSoC(), 0.1*DefaultCapacity)
	assert.LessOrEqual(t, v.InitialSoC(), 0.2*DefaultCapacity)
	assert.Equal(t, v.InitialSoC(), v.SoC())
}

func TestNewVehicleErrors(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	_, err := NewVehicle(model.Profile{ArrivalAtHome: "soon", DepartureFromHome: 7, Consumption: 1}, 0, rng)
	assert.True(t, errors.Is(err, timeofday.ErrUnsupportedTimeFormat))

	_, err = NewVehicle(model.Profile{ArrivalAtHome: 18, DepartureFromHome: []string{"7"}, Consumption: 1}, 0, rng)
	assert.True(t, errors.Is(err, timeofday.ErrUnsupportedTimeFormat))

	_, err = NewVehicle(model.Profile{ArrivalAtHome: math.NaN(), DepartureFromHome: 7, Consumption: 1}, 0, rng)
	assert.True(t, errors.Is(err, timeofday.ErrUnsupportedTimeFormat))

	for _, c := range []any{"lots", nil, -1.0, true} {
		_, err = NewVehicle(model.Profile{ArrivalAtHome: 18, DepartureFromHome: 7, Consumption: c}, 0, rng)
		assert.True(t, errors.Is(err, ErrInvalidConsumption), "consumption %#v", c)
	}
}

func TestParseConsumption(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{12, 12},
		{int64(7), 7},
		{uint16(3), 3},
		{float32(2.5), 2.5},
		{4.75, 4.75},
		{" 8.5 ", 8.5},
		{0, 0},
	}
	for _, tc := range cases {
		got, err := ParseConsumption(tc.in)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}
}

func TestResetDayRerollsWithinBounds(t *testing.T) {
	v := newTestVehicle(t, 18, 7, 0, 1000)
	seen := map[float64]bool{}
	for i := 0; i < 50; i++ {
		v.ResetDay()
		assert.GreaterOrEqual(t, v.InitialSoC(), 100.0)
		assert.LessOrEqual(t, v.InitialSoC(), 200.0)
		assert.Equal(t, v.InitialSoC(), v.SoC())
		seen[v.InitialSoC()] = true
	}
	assert.Greater(t, len(seen), 1)
}

func TestChargingDuration(t *testing.T) {
	cases := []struct {
		arrival, departure float64
		want               float64
	}{
		{22, 6, 8},
		{18, 7.5, 13.5},
		{8, 17, 9},
		{12, 12, 0},
		{0, 23.75, 23.75},
	}
	for _, tc := range cases {
		v := newTestVehicle(t, tc.arrival, tc.departure, 0, 0)
		assert.InDelta(t, tc.want, v.ChargingDuration(), 1e-9, "%v -> %v", tc.arrival, tc.departure)
	}
}

func TestSimulateDayZeroDurationKeepsSoC(t *testing.T) {
	v := newTestVehicle(t, 9, 9, 0, 0)
	v.ResetDay()
	initial := v.InitialSoC()
	s := v.SimulateDay(DefaultTimeStep)
	assert.Equal(t, initial, v.SoC())
	assert.Equal(t, round2(initial), s.InitialSoC)
	assert.Equal(t, round2(initial), s.FinalSoC)
}

func TestSimulateDayReachesGoal(t *testing.T) {
	v := newTestVehicle(t, 22, 6, 3000, 10000)
	v.initialSoC = 1500
	v.soc = 1500

	s := v.SimulateDay(0.25)
	// 1500 - 3000 clamps to 0, then 32 ticks of 93.75.
	assert.InDelta(t, 3000, v.SoC(), 1e-6)
	assert.Equal(t, model.DaySummary{
		InitialSoC:    1500,
		GoalKWh:       3000,
		ArrivalHour:   22,
		DepartureHour: 6,
		FinalSoC:      3000,
	}, s)
}

func TestSimulateDayNegativePowerMovesTowardGoal(t *testing.T) {
	v := newTestVehicle(t, 20, 22, 500, 10000)
	v.soc = 2000

	v.SimulateDay(0.25)
	// depleted to 1500, then drained toward the 500 goal over 2 hours.
	assert.InDelta(t, 500, v.SoC(), 1e-9)
}

func TestSimulateDayNeverExceedsCapacity(t *testing.T) {
	v := newTestVehicle(t, 10, 11, 0, 100)
	v.soc = 99
	v.SimulateDay(0.25)
	assert.LessOrEqual(t, v.SoC(), 100.0)
	assert.GreaterOrEqual(t, v.SoC(), 0.0)

	v = newTestVehicle(t, 10, 11, 500, 100)
	v.soc = 0
	s := v.SimulateDay(0.25)
	assert.Equal(t, 100.0, v.SoC())
	assert.Equal(t, 100.0, s.FinalSoC)
}

func TestSimulateDayFullBatterySkipsCharging(t *testing.T) {
	v := newTestVehicle(t, 10, 11, 0, 100)
	v.soc = 100
	v.SimulateDay(0.25)
	assert.Equal(t, 100.0, v.SoC())
}

func TestSimulateDayDefaultTimeStep(t *testing.T) {
	a := newTestVehicle(t, 22, 6, 3000, 10000)
	b := newTestVehicle(t, 22, 6, 3000, 10000)
	assert.Equal(t, a.SimulateDay(DefaultTimeStep), b.SimulateDay(0))
}

func TestSimulateDayRoundsSummary(t *testing.T) {
	v := newTestVehicle(t, "07:20", "17:40", 1234.5678, 0)
	s := v.SimulateDay(DefaultTimeStep)
	assert.Equal(t, 7.33, s.ArrivalHour)
	assert.Equal(t, 17.67, s.DepartureHour)
	assert.Equal(t, 1234.57, s.GoalKWh)
}

func TestSimulateDayKeepsSoCWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		p := model.Profile{
			ArrivalAtHome:     rng.Float64() * 24,
			DepartureFromHome: rng.Float64() * 24,
			Consumption:       rng.Float64() * 12000,
		}
		capacity := 1000 + rng.Float64()*9000
		v, err := NewVehicle(p, capacity, rng)
		require.NoError(t, err)
		for day := 0; day < 3; day++ {
			v.ResetDay()
			v.SimulateDay(DefaultTimeStep)
			assert.GreaterOrEqual(t, v.SoC(), 0.0)
			assert.LessOrEqual(t, v.SoC(), v.Capacity())
		}
	}
}
