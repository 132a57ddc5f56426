package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/wellrun/internal/model"
	"github.com/sawpanic/wellrun/internal/report"
	"github.com/sawpanic/wellrun/internal/risk"
	"github.com/sawpanic/wellrun/internal/sim"
)

// simulateCmd runs the Monte Carlo analysis
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run Monte Carlo simulation and risk assessment",
	Long: `Repeatedly perturb the base parameters by sampling from normal
distributions, re-evaluate the cash-flow model per trial, and derive risk
statistics (percentiles, probability of positive NPV, value-at-risk,
risk-adjusted return) over the batch.

Interrupting a running simulation (Ctrl-C) keeps the completed trials and
assesses the partial batch.

Examples:
  wellrun simulate --trials 5000
  wellrun simulate --seed 42 --workers 4
  wellrun simulate --oil-vol 0.20 --gas-vol 0.30
  wellrun simulate --output ./artifacts --format json`,
	RunE: runSimulate,
}

var (
	simParams    model.Parameters
	simTrials    int
	simSeed      int64
	simWorkers   int
	simHorizon   int
	simFormat    string
	simOutputDir string
	simOilVol    float64
	simGasVol    float64
	simProdVol   float64
	simDeclVol   float64
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	bindParameterFlags(simulateCmd.Flags(), &simParams)
	vol := sim.DefaultVolatility()
	simulateCmd.Flags().IntVar(&simTrials, "trials", 0, "Number of trials (0 uses the configured default)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Deterministic RNG seed (0 seeds from the clock)")
	simulateCmd.Flags().IntVar(&simWorkers, "workers", 0, "Worker goroutines (0 uses all cores)")
	simulateCmd.Flags().IntVar(&simHorizon, "horizon", model.DefaultHorizon, "Projection horizon in months")
	simulateCmd.Flags().StringVar(&simFormat, "format", "table", "Output format: table, json")
	simulateCmd.Flags().StringVar(&simOutputDir, "output", "", "Directory for CSV/JSON artifacts (optional)")
	simulateCmd.Flags().Float64Var(&simOilVol, "oil-vol", vol.OilPrice, "Oil price volatility (relative std dev)")
	simulateCmd.Flags().Float64Var(&simGasVol, "gas-vol", vol.GasPrice, "Gas price volatility (relative std dev)")
	simulateCmd.Flags().Float64Var(&simProdVol, "production-vol", vol.InitialProduction, "Initial production volatility (relative std dev)")
	simulateCmd.Flags().Float64Var(&simDeclVol, "decline-vol", vol.DeclineRate, "Decline rate volatility (relative std dev)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	simCfg := sim.Config{
		Trials:  cfg.Simulation.Trials,
		Workers: cfg.Simulation.Workers,
		Horizon: simHorizon,
		Seed:    simSeed,
		Volatility: sim.Volatility{
			OilPrice:          simOilVol,
			GasPrice:          simGasVol,
			InitialProduction: simProdVol,
			DeclineRate:       simDeclVol,
		},
	}
	if simTrials > 0 {
		simCfg.Trials = simTrials
	}
	if simWorkers > 0 {
		simCfg.Workers = simWorkers
	}
	if simCfg.Seed == 0 {
		simCfg.Seed = time.Now().UnixNano()
	}

	// Progress is cosmetic: only draw it on a real terminal.
	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	if interactive {
		simCfg.OnProgress = func(done, total int) {
			fmt.Fprintf(os.Stderr, "\rSimulating: %d/%d trials (%.1f%%)", done, total, float64(done)/float64(total)*100)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runner := sim.NewRunner(cfg.Economics)
	batch, err := runner.Run(ctx, simParams, simCfg)
	if interactive {
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		return err
	}
	if batch.Cancelled {
		log.Warn().Int("completed", batch.Completed).Msg("Simulation interrupted, assessing partial batch")
	}

	rep, err := risk.Assess(batch)
	if err != nil {
		return err
	}

	if simOutputDir != "" {
		writer := report.NewWriter(simOutputDir)
		if err := writer.WriteBatch(batch); err != nil {
			return err
		}
		if err := writer.WriteRiskReport(rep); err != nil {
			return err
		}
		log.Info().Str("dir", writer.OutputDir()).Msg("Simulation artifacts written")
	}

	switch strings.ToLower(simFormat) {
	case "json":
		return printJSON(struct {
			Batch  *sim.Batch   `json:"batch"`
			Report *risk.Report `json:"report"`
		}{batch, rep})
	case "table":
		fallthrough
	default:
		return printRiskTable(batch, rep)
	}
}

func printRiskTable(batch *sim.Batch, rep *risk.Report) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Trials\t%d completed / %d requested (%d skipped)\n", batch.Completed, batch.Requested, batch.Skipped)
	fmt.Fprintf(w, "Seed\t%d\n", batch.Seed)
	fmt.Fprintf(w, "Expected NPV\t$%.0fk\n", rep.ExpectedNPV)
	fmt.Fprintf(w, "NPV Std Dev\t$%.0fk\n", rep.StdDevNPV)
	fmt.Fprintf(w, "Coefficient of Variation\t%.2f\n", rep.CoefficientOfVariation)
	fmt.Fprintf(w, "Downside Deviation\t$%.0fk\n", rep.DownsideDeviation)
	fmt.Fprintf(w, "Risk-Adjusted Return\t%.2f\n", rep.RiskAdjustedReturn)
	fmt.Fprintf(w, "Value at Risk (5%%)\t$%.0fk\n", rep.ValueAtRisk5)
	fmt.Fprintf(w, "P(NPV > 0)\t%.1f%%\n", rep.ProbabilityPositive)
	fmt.Fprintf(w, "P(top quartile)\t%.1f%%\n", rep.ProbabilityExcellent)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PERCENTILE\tNPV ($k)\tIRR (%)")
	rows := []struct {
		label    string
		npv, irr float64
	}{
		{"P5", rep.NPV.P5, rep.IRR.P5},
		{"P10", rep.NPV.P10, rep.IRR.P10},
		{"P25", rep.NPV.P25, rep.IRR.P25},
		{"P50", rep.NPV.P50, rep.IRR.P50},
		{"P75", rep.NPV.P75, rep.IRR.P75},
		{"P90", rep.NPV.P90, rep.IRR.P90},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.0f\t%.1f\n", r.label, r.npv, r.irr)
	}
	return w.Flush()
}
