package simulation

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"reflect"
	"strconv"
	"strings"

	"github.com/kilianp07/evfleet/core/model"
	"github.com/kilianp07/evfleet/core/timeofday"
)

const (
	// DefaultCapacity is the battery size used when none is given.
	DefaultCapacity = 10000.0
	// DefaultTimeStep is the charging tick length in hours.
	DefaultTimeStep = 0.25

	minInitialSoCRatio = 0.10
	maxInitialSoCRatio = 0.20
)

// ErrInvalidConsumption is returned when a profile consumption is not a
// finite non-negative number.
var ErrInvalidConsumption = errors.New("invalid consumption")

// Vehicle holds the schedule and battery state of one fleet member.
type Vehicle struct {
	arrival     float64
	departure   float64
	consumption float64
	capacity    float64

	initialSoC float64
	soc        float64

	rng *rand.Rand
}

// NewVehicle builds a vehicle from a profile row. A capacity <= 0 selects
// DefaultCapacity.
func NewVehicle(p model.Profile, capacity float64, rng *rand.Rand) (*Vehicle, error) {
	arrival, err := timeofday.ExtractHour(p.ArrivalAtHome)
	if err != nil {
		return nil, fmt.Errorf("arrivalAtHome: %w", err)
	}
	departure, err := timeofday.ExtractHour(p.DepartureFromHome)
	if err != nil {
		return nil, fmt.Errorf("departureFromHome: %w", err)
	}
	consumption, err := ParseConsumption(p.Consumption)
	if err != nil {
		return nil, err
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if rng == nil {
		rng = NewRand(0)
	}
	v := &Vehicle{
		arrival:     arrival,
		departure:   departure,
		consumption: consumption,
		capacity:    capacity,
		rng:         rng,
	}
	v.ResetDay()
	return v, nil
}

// ParseConsumption converts a profile consumption value to float64.
// Numeric kinds and numeric strings are accepted.
func ParseConsumption(v any) (float64, error) {
	var f float64
	switch x := v.(type) {
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidConsumption, x)
		}
		f = parsed
	default:
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			f = float64(rv.Int())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			f = float64(rv.Uint())
		case reflect.Float32, reflect.Float64:
			f = rv.Float()
		default:
			return 0, fmt.Errorf("%w: %v", ErrInvalidConsumption, v)
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, fmt.Errorf("%w: %v", ErrInvalidConsumption, v)
	}
	return f, nil
}

// ResetDay draws a fresh initial state of charge between 10% and 20% of the
// capacity.
func (v *Vehicle) ResetDay() {
	v.initialSoC = uniform(v.rng, minInitialSoCRatio, maxInitialSoCRatio) * v.capacity
	v.soc = v.initialSoC
}

// ChargingDuration is the time at home, wrapping past midnight when departure
// precedes arrival. The result lies in [0, 24).
func (v *Vehicle) ChargingDuration() float64 {
	d := math.Mod(v.departure-v.arrival, 24)
	if d < 0 {
		d += 24
	}
	if d >= 24 {
		d = 0
	}
	return d
}

// SimulateDay depletes the battery by the daily consumption, then charges it
// toward the consumption goal in ticks of timeStep hours. The charging power
// is fixed for the whole window from the post-depletion state of charge.
func (v *Vehicle) SimulateDay(timeStep float64) model.DaySummary {
	if timeStep <= 0 {
		timeStep = DefaultTimeStep
	}
	v.soc = math.Max(v.soc-v.consumption, 0)

	duration := v.ChargingDuration()
	steps := int(math.Floor(duration / timeStep))

	power := 0.0
	if duration > 0 {
		power = (v.consumption - v.soc) / duration
	}
	for i := 0; i < steps; i++ {
		if v.soc >= v.capacity {
			break
		}
		v.soc += math.Min(power*timeStep, v.capacity-v.soc)
	}
	// float drift only; the loop itself converges toward the goal.
	v.soc = math.Min(math.Max(v.soc, 0), v.capacity)

	return model.DaySummary{
		InitialSoC:    round2(v.initialSoC),
		GoalKWh:       round2(v.consumption),
		ArrivalHour:   round2(v.arrival),
		DepartureHour: round2(v.departure),
		FinalSoC:      round2(v.soc),
	}
}

// Arrival returns the arrival hour.
func (v *Vehicle) Arrival() float64 { return v.arrival }

// Departure returns the departure hour.
func (v *Vehicle) Departure() float64 { return v.departure }

// Consumption returns the daily energy goal.
func (v *Vehicle) Consumption() float64 { return v.consumption }

// Capacity returns the battery capacity.
func (v *Vehicle) Capacity() float64 { return v.capacity }

// InitialSoC returns the state of charge drawn at the start of the day.
func (v *Vehicle) InitialSoC() float64 { return v.initialSoC }

// SoC returns the live state of charge.
func (v *Vehicle) SoC() float64 { return v.soc }

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
