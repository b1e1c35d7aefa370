package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evfleet/app"
	"github.com/kilianp07/evfleet/config"
	"github.com/kilianp07/evfleet/infra/logger"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Simulate overnight charging of a sampled fleet",
	RunE:  runSimulate,
}

var simFlags struct {
	days     int
	vehicles int
	seed     int64
	capacity float64
	timeStep float64
	profiles string
	sheet    string
	output   string
	stats    string
	report   string
	format   string
	serve    bool
}

func init() {
	f := simulateCmd.Flags()
	f.IntVarP(&simFlags.days, "days", "d", 0, "number of days to simulate")
	f.IntVarP(&simFlags.vehicles, "vehicles", "n", 0, "fleet size")
	f.Int64Var(&simFlags.seed, "seed", 0, "random seed (0 seeds from the clock)")
	f.Float64Var(&simFlags.capacity, "capacity", 0, "battery capacity in kWh")
	f.Float64Var(&simFlags.timeStep, "time-step", 0, "charging tick in hours")
	f.StringVarP(&simFlags.profiles, "profiles", "p", "", "profile file (xlsx, csv, json or yaml)")
	f.StringVar(&simFlags.sheet, "sheet", "", "xlsx worksheet name")
	f.StringVarP(&simFlags.output, "output", "o", "", "result file, stdout when empty, - to disable")
	f.StringVar(&simFlags.stats, "stats", "", "per-day statistics CSV file")
	f.StringVar(&simFlags.report, "report", "", "HTML chart of the per-day statistics")
	f.StringVarP(&simFlags.format, "format", "f", "", "result format: csv or json")
	f.BoolVar(&simFlags.serve, "serve", false, "keep metrics and live endpoints up after the run")
	rootCmd.AddCommand(simulateCmd)
}

// applyFlags overrides configuration values with the flags set on cmd.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	f := cmd.Flags()
	if f.Changed("days") {
		c.Simulation.Days = simFlags.days
	}
	if f.Changed("vehicles") {
		c.Simulation.Vehicles = simFlags.vehicles
	}
	if f.Changed("seed") {
		c.Simulation.Seed = simFlags.seed
	}
	if f.Changed("capacity") {
		c.Simulation.CapacityKWh = simFlags.capacity
	}
	if f.Changed("time-step") {
		c.Simulation.TimeStepHours = simFlags.timeStep
	}
	if f.Changed("profiles") {
		c.Profiles.Path = simFlags.profiles
	}
	if f.Changed("sheet") {
		c.Profiles.Sheet = simFlags.sheet
	}
	if f.Changed("output") {
		c.Export.Path = simFlags.output
	}
	if f.Changed("stats") {
		c.Export.StatsPath = simFlags.stats
	}
	if f.Changed("report") {
		c.Export.ReportPath = simFlags.report
	}
	if f.Changed("format") {
		c.Export.Format = simFlags.format
	}
	c.SetDefaults()
	return c.Validate()
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	svc, err := app.New(cfg, app.Options{Output: cmd.OutOrStdout(), Serve: simFlags.serve})
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	_, err = svc.Run(ctx)
	return err
}
