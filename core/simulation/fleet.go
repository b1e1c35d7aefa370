package simulation

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/kilianp07/evfleet/core/logger"
	"github.com/kilianp07/evfleet/core/model"
)

// DefaultFleetSize is used when FleetConfig.Size is zero.
const DefaultFleetSize = 10

// ErrEmptyPopulation is returned when vehicles must be sampled from an empty
// profile population.
var ErrEmptyPopulation = errors.New("empty profile population")

// FleetConfig holds parameters for fleet sampling and simulation.
type FleetConfig struct {
	// Size is the number of vehicles. Zero selects DefaultFleetSize.
	Size int
	// CapacityKWh is the battery capacity of every vehicle. Zero selects
	// DefaultCapacity.
	CapacityKWh float64
	// TimeStep is the charging tick in hours. Zero selects DefaultTimeStep.
	TimeStep float64
	// Logger receives debug output. Nil disables logging.
	Logger logger.Logger
}

// Fleet owns vehicles sampled with replacement from a profile population.
type Fleet struct {
	profiles []model.Profile
	vehicles []*Vehicle
	sampled  []int
	timeStep float64
	log      logger.Logger
}

// NewFleet samples cfg.Size profiles uniformly with replacement and builds a
// vehicle from each. The first invalid profile aborts construction.
func NewFleet(profiles []model.Profile, cfg FleetConfig, rng *rand.Rand) (*Fleet, error) {
	size := cfg.Size
	if size == 0 {
		size = DefaultFleetSize
	}
	if size < 0 {
		return nil, fmt.Errorf("fleet size must not be negative: %d", size)
	}
	if len(profiles) == 0 {
		return nil, ErrEmptyPopulation
	}
	if rng == nil {
		rng = NewRand(0)
	}
	log := cfg.Logger
	if log == nil {
		log = logger.NopLogger{}
	}

	f := &Fleet{
		profiles: profiles,
		vehicles: make([]*Vehicle, 0, size),
		sampled:  make([]int, 0, size),
		timeStep: cfg.TimeStep,
		log:      log,
	}
	for i := 0; i < size; i++ {
		idx := rng.Intn(len(profiles))
		v, err := NewVehicle(profiles[idx], cfg.CapacityKWh, rng)
		if err != nil {
			return nil, fmt.Errorf("vehicle %d (profile %d): %w", i, idx, err)
		}
		f.vehicles = append(f.vehicles, v)
		f.sampled = append(f.sampled, idx)
		log.Debugw("vehicle sampled", map[string]any{
			"ev":          i,
			"profile":     idx,
			"arrival":     v.Arrival(),
			"departure":   v.Departure(),
			"consumption": v.Consumption(),
		})
	}
	return f, nil
}

// SimulateMultipleDays runs days consecutive days over the whole fleet and
// returns one summary per vehicle and day, ordered by day then vehicle.
func (f *Fleet) SimulateMultipleDays(days int) []model.DaySummary {
	if days <= 0 {
		return []model.DaySummary{}
	}
	results := make([]model.DaySummary, 0, days*len(f.vehicles))
	for day := 1; day <= days; day++ {
		for i, v := range f.vehicles {
			v.ResetDay()
			s := v.SimulateDay(f.timeStep)
			s.EV = i
			s.Day = day
			results = append(results, s)
		}
		f.log.Debugf("day %d simulated for %d vehicles", day, len(f.vehicles))
	}
	return results
}

// Vehicles returns the fleet members in simulation order.
func (f *Fleet) Vehicles() []*Vehicle { return f.vehicles }

// Profiles returns the population the fleet was sampled from.
func (f *Fleet) Profiles() []model.Profile { return f.profiles }

// SampledProfiles returns, for each vehicle, the index of its source profile.
func (f *Fleet) SampledProfiles() []int { return f.sampled }

// Size returns the number of vehicles.
func (f *Fleet) Size() int { return len(f.vehicles) }
