package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/sawpanic/wellrun/internal/model"
	"github.com/sawpanic/wellrun/internal/report"
)

// projectCmd runs a single deterministic evaluation
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Run a single deterministic cash-flow projection",
	Long: `Project the well's monthly production, revenue, costs and cash flow over
the horizon and derive NPV, IRR, payback period and production metrics.

Examples:
  wellrun project
  wellrun project --oil-price 80 --decline-rate 2.0
  wellrun project --format json
  wellrun project --scenarios
  wellrun project --output ./artifacts`,
	RunE: runProject,
}

var (
	projectParams    model.Parameters
	projectHorizon   int
	projectFormat    string
	projectOutputDir string
	projectScenarios bool
)

func init() {
	rootCmd.AddCommand(projectCmd)

	bindParameterFlags(projectCmd.Flags(), &projectParams)
	projectCmd.Flags().IntVar(&projectHorizon, "horizon", model.DefaultHorizon, "Projection horizon in months")
	projectCmd.Flags().StringVar(&projectFormat, "format", "table", "Output format: table, json, csv")
	projectCmd.Flags().StringVar(&projectOutputDir, "output", "", "Directory for CSV/JSON artifacts (optional)")
	projectCmd.Flags().BoolVar(&projectScenarios, "scenarios", false, "Compare conservative/base/optimistic scenarios")
}

func runProject(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if projectScenarios {
		return runScenarioComparison(cfg.Economics)
	}

	proj, err := model.Project(projectParams, cfg.Economics, projectHorizon)
	if err != nil {
		return err
	}

	if projectOutputDir != "" {
		writer := report.NewWriter(projectOutputDir)
		if err := writer.WriteProjection(proj); err != nil {
			return err
		}
		log.Info().Str("dir", writer.OutputDir()).Msg("Projection artifacts written")
	}

	switch strings.ToLower(projectFormat) {
	case "json":
		return printJSON(proj)
	case "csv":
		return printMonthlyCSV(proj)
	case "table":
		fallthrough
	default:
		return printSummaryTable(proj)
	}
}

func runScenarioComparison(econ model.Economics) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tNPV ($k)\tIRR (%)\tPAYBACK (mo)\tFINAL CF ($k)\tGRADE")

	for _, sc := range model.Scenarios(projectParams) {
		proj, err := model.Project(sc.Params, econ, projectHorizon)
		if err != nil {
			return fmt.Errorf("scenario %s: %w", sc.Name, err)
		}
		s := proj.Summary
		grade := model.Grade(s.NPV / s.TotalInvestment * 100)
		fmt.Fprintf(w, "%s\t%.0f\t%.1f\t%d\t%.0f\t%s\n",
			sc.Name, s.NPV, s.IRR, s.PaybackMonths, s.FinalCumulativeCF, grade)
	}
	return w.Flush()
}

func printSummaryTable(proj *model.Projection) error {
	s := proj.Summary
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)

	fmt.Fprintf(w, "Total Investment\t$%.0fk\n", s.TotalInvestment)
	fmt.Fprintf(w, "Total Revenue\t$%.0fk\n", s.TotalRevenue)
	fmt.Fprintf(w, "NPV @ %.1f%%\t$%.0fk\n", proj.Params.DiscountRate, s.NPV)
	if s.IRRConverged {
		fmt.Fprintf(w, "IRR\t%.1f%%\n", s.IRR)
	} else {
		fmt.Fprintf(w, "IRR\tn/a (no meaningful rate)\n")
	}
	fmt.Fprintf(w, "Payback Period\t%d months\n", s.PaybackMonths)
	fmt.Fprintf(w, "Final Cumulative CF\t$%.0fk\n", s.FinalCumulativeCF)
	fmt.Fprintf(w, "Peak Production\t%.0f bbl/month\n", s.PeakProduction)
	fmt.Fprintf(w, "Final Production\t%.0f bbl/month\n", s.FinalProduction)
	fmt.Fprintf(w, "Investment Grade\t%s\n", model.Grade(s.NPV/s.TotalInvestment*100))
	return w.Flush()
}

func printMonthlyCSV(proj *model.Projection) error {
	cw := csv.NewWriter(os.Stdout)
	if err := cw.Write([]string{"month", "oil_production", "total_revenue", "total_opex", "net_operating_income", "capex", "net_cash_flow", "cumulative_cash_flow", "pv_cash_flow"}); err != nil {
		return err
	}
	for _, m := range proj.Months {
		row := []string{
			strconv.Itoa(m.Month),
			fmt.Sprintf("%.1f", m.OilProduction),
			fmt.Sprintf("%.2f", m.TotalRevenue),
			fmt.Sprintf("%.2f", m.TotalOpex),
			fmt.Sprintf("%.2f", m.NetOperatingIncome),
			fmt.Sprintf("%.2f", m.Capex),
			fmt.Sprintf("%.2f", m.NetCashFlow),
			fmt.Sprintf("%.2f", m.CumulativeCashFlow),
			fmt.Sprintf("%.2f", m.PVCashFlow),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
