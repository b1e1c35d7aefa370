package metrics

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/evfleet/core/metrics"
	"github.com/kilianp07/evfleet/core/model"
)

// PromSink exposes simulation results as Prometheus metrics.
type PromSink struct {
	vehicleDays *prometheus.CounterVec
	initialSoC  prometheus.Histogram
	finalSoC    prometheus.Histogram
	goal        prometheus.Histogram
	fleet       prometheus.Gauge
	dayMeanSoC  *prometheus.GaugeVec
	dayGoal     *prometheus.GaugeVec
}

// NewPromSink registers the simulation metrics on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	socBuckets := prometheus.ExponentialBuckets(100, 2, 10)

	s := &PromSink{
		vehicleDays: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evfleet_vehicle_days_total",
			Help: "Number of simulated vehicle-days",
		}, []string{"day"}),
		initialSoC: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evfleet_initial_soc",
			Help:    "State of charge drawn at the start of a simulated day",
			Buckets: socBuckets,
		}),
		finalSoC: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evfleet_final_soc",
			Help:    "State of charge at departure",
			Buckets: socBuckets,
		}),
		goal: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "evfleet_goal_kwh",
			Help:    "Daily energy goal of a vehicle",
			Buckets: socBuckets,
		}),
		fleet: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "evfleet_fleet_size",
			Help: "Number of vehicles in the simulated fleet",
		}),
		dayMeanSoC: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evfleet_day_mean_initial_soc",
			Help: "Fleet mean initial state of charge per simulated day",
		}, []string{"day"}),
		dayGoal: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evfleet_day_total_goal_kwh",
			Help: "Fleet energy goal per simulated day",
		}, []string{"day"}),
	}

	var err error
	if s.vehicleDays, err = register(reg, s.vehicleDays); err != nil {
		return nil, err
	}
	if s.initialSoC, err = register(reg, s.initialSoC); err != nil {
		return nil, err
	}
	if s.finalSoC, err = register(reg, s.finalSoC); err != nil {
		return nil, err
	}
	if s.goal, err = register(reg, s.goal); err != nil {
		return nil, err
	}
	if s.fleet, err = register(reg, s.fleet); err != nil {
		return nil, err
	}
	if s.dayMeanSoC, err = register(reg, s.dayMeanSoC); err != nil {
		return nil, err
	}
	if s.dayGoal, err = register(reg, s.dayGoal); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordDaySummaries updates counters and histograms for every summary.
func (s *PromSink) RecordDaySummaries(_ model.Run, res []model.DaySummary) error {
	for _, r := range res {
		s.vehicleDays.WithLabelValues(strconv.Itoa(r.Day)).Inc()
		s.initialSoC.Observe(r.InitialSoC)
		s.finalSoC.Observe(r.FinalSoC)
		s.goal.Observe(r.GoalKWh)
	}
	return nil
}

// RecordDayStats sets the per-day fleet gauges.
func (s *PromSink) RecordDayStats(_ model.Run, stats []model.DayStats) error {
	for _, st := range stats {
		day := strconv.Itoa(st.Day)
		s.dayMeanSoC.WithLabelValues(day).Set(st.MeanInitialSoC)
		s.dayGoal.WithLabelValues(day).Set(st.TotalGoal)
	}
	return nil
}

// RecordFleetSize sets the fleet size gauge.
func (s *PromSink) RecordFleetSize(size int) error {
	s.fleet.Set(float64(size))
	return nil
}

var (
	_ coremetrics.MetricsSink       = (*PromSink)(nil)
	_ coremetrics.StatsRecorder     = (*PromSink)(nil)
	_ coremetrics.FleetSizeRecorder = (*PromSink)(nil)
)
