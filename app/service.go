// Package app wires configuration, profile loading, the fleet simulation and
// its result sinks into a single runnable service.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/evfleet/api/runs"
	"github.com/kilianp07/evfleet/config"
	"github.com/kilianp07/evfleet/core/events"
	coremetrics "github.com/kilianp07/evfleet/core/metrics"
	"github.com/kilianp07/evfleet/core/model"
	coremon "github.com/kilianp07/evfleet/core/monitoring"
	"github.com/kilianp07/evfleet/core/simulation"
	corestore "github.com/kilianp07/evfleet/core/store"
	"github.com/kilianp07/evfleet/infra/auth"
	"github.com/kilianp07/evfleet/infra/logger"
	"github.com/kilianp07/evfleet/infra/metrics"
	"github.com/kilianp07/evfleet/infra/monitoring"
	"github.com/kilianp07/evfleet/infra/profiles"
	"github.com/kilianp07/evfleet/infra/store"
	"github.com/kilianp07/evfleet/infra/ws"
	"github.com/kilianp07/evfleet/internal/eventbus"
	"github.com/kilianp07/evfleet/pkg/export"
	"github.com/kilianp07/evfleet/pkg/report"
)

// ErrNoProfileSource is returned when neither a profile path nor injected
// profiles are available.
var ErrNoProfileSource = errors.New("no profile source configured")

// Options overrides collaborators normally built from the configuration.
type Options struct {
	Logger logger.Logger
	// Profiles replaces loading from cfg.Profiles.Path.
	Profiles []model.Profile
	// Rand replaces the generator seeded from cfg.Simulation.Seed.
	Rand *rand.Rand
	// Sink replaces the sinks listed in cfg.Metrics.Sinks.
	Sink coremetrics.MetricsSink
	// Store replaces the store selected by cfg.Store.
	Store corestore.Store
	// Monitor replaces the Sentry monitor built from cfg.Sentry.
	Monitor coremon.Monitor
	// Output receives the export when cfg.Export.Path is empty. Defaults to
	// stdout.
	Output io.Writer
	// Serve keeps the metrics and live endpoints up after the run until the
	// context is canceled.
	Serve bool
	Now   func() time.Time
}

// Result is the outcome of one Run.
type Result struct {
	Run       model.Run
	Summaries []model.DaySummary
	Stats     []model.DayStats
}

// Service runs fleet simulations and distributes their results.
type Service struct {
	cfg   *config.Config
	opts  Options
	log   logger.Logger
	sink  coremetrics.MetricsSink
	store corestore.Store
	mon   coremon.Monitor
	bus   *eventbus.TypedBus[events.RunEvent]
	hub   *ws.Hub
}

// New creates a Service from the configuration.
func New(cfg *config.Config, opts Options) (*Service, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	logg := opts.Logger
	if logg == nil {
		logg = logger.New("service")
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	mon := opts.Monitor
	if mon == nil {
		var err error
		mon, err = monitoring.NewSentryMonitor(cfg.Sentry)
		if err != nil {
			return nil, fmt.Errorf("sentry: %w", err)
		}
	}

	sink := opts.Sink
	if sink == nil {
		var err error
		sink, err = coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
		if err != nil {
			return nil, fmt.Errorf("metrics sink: %w", err)
		}
	}

	st := opts.Store
	if st == nil {
		var err error
		st, err = store.Open(cfg.Store)
		if err != nil {
			closeSink(sink)
			return nil, fmt.Errorf("store: %w", err)
		}
	}

	return &Service{
		cfg:   cfg,
		opts:  opts,
		log:   logg,
		sink:  sink,
		store: st,
		mon:   mon,
		bus:   eventbus.NewTypedWithBuffer[events.RunEvent](64),
		hub:   ws.NewHub(logger.New("live")),
	}, nil
}

// Events returns the progress bus. Subscribe before calling Run.
func (s *Service) Events() *eventbus.TypedBus[events.RunEvent] { return s.bus }

// Run executes one multi-day simulation and records its results.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	srvCtx, stopServers := context.WithCancel(ctx)
	var wg sync.WaitGroup
	s.startServers(srvCtx, &wg)
	defer func() {
		stopServers()
		wg.Wait()
	}()

	res, err := s.simulate(ctx)
	if err != nil {
		s.mon.CaptureException(err, coremon.RunTags(res.Run))
		s.publish(events.RunEvent{Type: events.RunFailed, RunID: res.Run.ID, Error: err.Error()})
		return nil, err
	}
	s.publish(events.RunEvent{Type: events.RunFinished, RunID: res.Run.ID, Day: res.Run.Days})
	s.log.Infof("run %s finished: %d vehicles, %d days, %d summaries",
		res.Run.ID, res.Run.Vehicles, res.Run.Days, len(res.Summaries))

	if s.opts.Serve && s.serving() {
		s.log.Infof("serving until interrupted")
		<-ctx.Done()
	}
	return res, nil
}

// simulate always returns a non-nil Result carrying at least the run metadata.
func (s *Service) simulate(ctx context.Context) (*Result, error) {
	defer s.mon.Recover()
	sim := s.cfg.Simulation
	rng := s.opts.Rand
	if rng == nil {
		sim.Seed = simulation.ResolveSeed(sim.Seed)
		rng = simulation.NewRand(sim.Seed)
	}
	run := model.Run{
		ID:          uuid.NewString(),
		StartedAt:   s.opts.Now().UTC(),
		Days:        sim.Days,
		Vehicles:    sim.Vehicles,
		Seed:        sim.Seed,
		CapacityKWh: sim.CapacityKWh,
		TimeStep:    sim.TimeStepHours,
	}
	res := &Result{Run: run}
	s.publish(events.RunEvent{Type: events.RunStarted, RunID: run.ID})

	pop, err := s.loadProfiles(ctx)
	if err != nil {
		return res, err
	}
	fc := sim.FleetConfig()
	fc.Logger = logger.New("fleet")
	fleet, err := simulation.NewFleet(pop, fc, rng)
	if err != nil {
		return res, fmt.Errorf("build fleet: %w", err)
	}
	res.Run.Vehicles = fleet.Size()

	res.Summaries = fleet.SimulateMultipleDays(sim.Days)
	res.Stats = simulation.Summarize(res.Summaries)
	for i := range res.Stats {
		st := res.Stats[i]
		s.publish(events.RunEvent{Type: events.DayCompleted, RunID: run.ID, Day: st.Day, Stats: &st})
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if err := s.record(ctx, res); err != nil {
		return res, err
	}
	if err := s.export(res); err != nil {
		return res, fmt.Errorf("export: %w", err)
	}
	return res, nil
}

func (s *Service) loadProfiles(ctx context.Context) ([]model.Profile, error) {
	if len(s.opts.Profiles) > 0 {
		return s.opts.Profiles, nil
	}
	if s.cfg.Profiles.Path == "" {
		return nil, ErrNoProfileSource
	}
	pop, err := profiles.LoadSource(ctx, s.cfg.Profiles.Path, ProfileOptions(s.cfg.Profiles))
	if err != nil {
		return nil, fmt.Errorf("load profiles: %w", err)
	}
	s.log.Infof("loaded %d profiles from %s", len(pop), s.cfg.Profiles.Path)
	return pop, nil
}

// ProfileOptions builds the profile source options of a configuration.
func ProfileOptions(pc config.ProfilesConfig) profiles.RemoteOptions {
	opts := profiles.RemoteOptions{Options: profiles.Options{Sheet: pc.Sheet}}
	if pc.Auth.Enabled() {
		opts.Auth = auth.NewClientCred(pc.Auth)
	}
	return opts
}

// record pushes results to the sinks and the store. Sink failures are logged
// so that a flaky exporter does not lose the run; store failures abort it.
func (s *Service) record(ctx context.Context, res *Result) error {
	if err := s.sink.RecordDaySummaries(res.Run, res.Summaries); err != nil {
		s.log.Errorf("record summaries: %v", err)
	}
	if rec, ok := s.sink.(coremetrics.StatsRecorder); ok {
		if err := rec.RecordDayStats(res.Run, res.Stats); err != nil {
			s.log.Errorf("record day stats: %v", err)
		}
	}
	if rec, ok := s.sink.(coremetrics.FleetSizeRecorder); ok {
		if err := rec.RecordFleetSize(res.Run.Vehicles); err != nil {
			s.log.Errorf("record fleet size: %v", err)
		}
	}
	if s.store == nil {
		return nil
	}
	if err := s.store.SaveRun(ctx, res.Run, res.Summaries); err != nil {
		return fmt.Errorf("save run: %w", err)
	}
	return nil
}

func (s *Service) export(res *Result) error {
	ec := s.cfg.Export
	if ec.Path != "-" {
		f, err := export.ParseFormat(ec.Format)
		if err != nil {
			return err
		}
		if err := writeTo(ec.Path, s.opts.Output, func(w io.Writer) error {
			return export.Write(w, f, res.Summaries)
		}); err != nil {
			return err
		}
	}
	if ec.StatsPath != "" {
		if err := writeTo(ec.StatsPath, nil, func(w io.Writer) error {
			return export.WriteStatsCSV(w, res.Stats)
		}); err != nil {
			return err
		}
	}
	if ec.ReportPath != "" {
		return writeTo(ec.ReportPath, nil, func(w io.Writer) error {
			return report.WriteHTML(w, res.Run, res.Stats)
		})
	}
	return nil
}

func writeTo(path string, fallback io.Writer, write func(io.Writer) error) error {
	if path == "" {
		return write(fallback)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func (s *Service) publish(ev events.RunEvent) {
	if ev.Time.IsZero() {
		ev.Time = s.opts.Now().UTC()
	}
	s.bus.Publish(ev)
}

func (s *Service) serving() bool {
	return s.cfg.Metrics.PrometheusAddr != "" || s.cfg.Live.Addr != ""
}

// startServers exposes /metrics, the /ws live feed and, with a store, the
// stored runs API. When metrics and live share an address a single server
// carries every route.
func (s *Service) startServers(ctx context.Context, wg *sync.WaitGroup) {
	promAddr := s.cfg.Metrics.PrometheusAddr
	liveAddr := s.cfg.Live.Addr
	if liveAddr != "" {
		sub := s.bus.Subscribe()
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.bus.Unsubscribe(sub)
			s.hub.Forward(ctx, sub)
		}()
		routes := map[string]http.Handler{"/ws": ws.NewHandler(s.hub)}
		if s.store != nil {
			routes[runs.Prefix] = runs.NewHandler(s.store)
		}
		s.serve(ctx, wg, liveAddr, routes)
	}
	if promAddr != "" && promAddr != liveAddr {
		s.serve(ctx, wg, promAddr, nil)
	}
}

func (s *Service) serve(ctx context.Context, wg *sync.WaitGroup, addr string, routes map[string]http.Handler) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := metrics.StartPromServer(ctx, addr, routes); err != nil {
			s.log.Errorf("http server %s: %v", addr, err)
		}
	}()
}

// Close releases the sinks, the store and the progress bus.
func (s *Service) Close() error {
	var errs []error
	if c, ok := s.sink.(coremetrics.Closer); ok {
		errs = append(errs, c.Close())
	}
	if s.store != nil {
		errs = append(errs, s.store.Close())
	}
	s.bus.Close()
	s.mon.Flush(2 * time.Second)
	return errors.Join(errs...)
}

func closeSink(sink coremetrics.MetricsSink) {
	if c, ok := sink.(coremetrics.Closer); ok {
		_ = c.Close()
	}
}
