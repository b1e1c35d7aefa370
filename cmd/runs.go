package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evfleet/infra/store"
	"github.com/kilianp07/evfleet/pkg/export"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Stored run commands",
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print the summaries of a stored run",
	Args:  cobra.ExactArgs(1),
	RunE:  runRunsShow,
}

var showFormat string

func init() {
	runsShowCmd.Flags().StringVarP(&showFormat, "format", "f", "csv", "output format: csv or json")
	runsCmd.AddCommand(runsShowCmd)
	rootCmd.AddCommand(runsCmd)
}

func runRunsShow(cmd *cobra.Command, args []string) error {
	f, err := export.ParseFormat(showFormat)
	if err != nil {
		return err
	}
	st, err := store.Open(cfg.Store)
	if err != nil {
		return err
	}
	if st == nil {
		return errors.New("no store backend configured")
	}
	defer func() { _ = st.Close() }()
	run, res, err := st.LoadRun(context.Background(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "run %s started %s: %d vehicles, %d days, seed %d\n",
		run.ID, run.StartedAt.Format("2006-01-02 15:04:05"), run.Vehicles, run.Days, run.Seed)
	return export.Write(cmd.OutOrStdout(), f, res)
}
