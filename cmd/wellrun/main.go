package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/wellrun/internal/config"
)

var (
	flagConfig  string
	flagVerbose bool
)

// rootCmd is the base command for the WellRun CLI
var rootCmd = &cobra.Command{
	Use:   "wellrun",
	Short: "WellRun oil & gas investment analyzer",
	Long: `WellRun evaluates the economics of a depleting oil & gas well. It projects
a 60-month decline-curve cash-flow model, derives NPV, IRR and payback
period, and quantifies outcome uncertainty with Monte Carlo simulation
and distributional risk statistics.

Use 'wellrun project' for a single deterministic evaluation,
'wellrun simulate' for probabilistic analysis, or 'wellrun serve' to
expose both over HTTP.`,
}

func init() {
	cobra.OnInitialize(setupLogging)
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to YAML configuration file")
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")
}

func setupLogging() {
	level := zerolog.InfoLevel
	if flagVerbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}

// loadConfig returns the file configuration when --config is set, compiled
// defaults otherwise.
func loadConfig() (*config.Config, error) {
	if flagConfig == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
