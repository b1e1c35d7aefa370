package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kilianp07/evfleet/app"
	"github.com/kilianp07/evfleet/core/simulation"
	"github.com/kilianp07/evfleet/infra/profiles"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Profile population commands",
}

var profilesValidateCmd = &cobra.Command{
	Use:   "validate <file-or-url>",
	Short: "Check that every profile yields a valid vehicle",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesValidate,
}

var validateSheet string

func init() {
	profilesValidateCmd.Flags().StringVar(&validateSheet, "sheet", "", "xlsx worksheet name")
	profilesCmd.AddCommand(profilesValidateCmd)
	rootCmd.AddCommand(profilesCmd)
}

func runProfilesValidate(cmd *cobra.Command, args []string) error {
	pc := cfg.Profiles
	pc.Sheet = validateSheet
	pop, err := profiles.LoadSource(cmd.Context(), args[0], app.ProfileOptions(pc))
	if err != nil {
		return err
	}
	rng := simulation.NewRand(1)
	invalid := 0
	for i, p := range pop {
		if _, err := simulation.NewVehicle(p, cfg.Simulation.CapacityKWh, rng); err != nil {
			invalid++
			fmt.Fprintf(cmd.ErrOrStderr(), "profile %d (%s): %v\n", i, p.ID, err)
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d profiles, %d invalid\n", len(pop), invalid)
	if invalid > 0 {
		return fmt.Errorf("%d invalid profiles", invalid)
	}
	return nil
}
