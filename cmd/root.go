package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kilianp07/evfleet/config"
	"github.com/kilianp07/evfleet/infra/logger"
)

var (
	cfgPath string
	envPath string
	cfg     *config.Config
	logFile io.Closer
)

var rootCmd = &cobra.Command{
	Use:                "evfleet",
	Short:              "EV fleet home-charging simulator",
	SilenceUsage:       true,
	PersistentPreRunE:  loadConfig,
	PersistentPostRunE: closeLogFile,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
	rootCmd.PersistentFlags().StringVar(&envPath, "env-file", ".env", "dotenv file loaded before the configuration")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", envPath, err)
	}
	c, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logger.SetLevel(c.Logging.Level); err != nil {
		return err
	}
	if err := logger.SetFormat(c.Logging.Format); err != nil {
		return err
	}
	if err := closeLogFile(cmd, nil); err != nil {
		return err
	}
	if c.Logging.File != "" {
		f, err := logger.OpenFile(c.Logging.File, logger.FileOptions{
			MaxSizeMB:  c.Logging.MaxSizeMB,
			MaxBackups: c.Logging.MaxBackups,
			MaxAgeDays: c.Logging.MaxAgeDays,
		})
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		logFile = f
	}
	cfg = c
	return nil
}

func closeLogFile(*cobra.Command, []string) error {
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}
