package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/sawpanic/wellrun/internal/model"
	"github.com/sawpanic/wellrun/internal/risk"
	"github.com/sawpanic/wellrun/internal/sim"
)

// Writer writes evaluation artifacts (CSV tables and JSON summaries) under a
// dated output directory. The engine itself never does file I/O; exporting
// is the caller's concern and consumes only the engine's structures.
type Writer struct {
	outputDir string
}

// NewWriter creates a writer rooted at outputDir/<date>.
func NewWriter(outputDir string) *Writer {
	return &Writer{
		outputDir: filepath.Join(outputDir, time.Now().Format("2006-01-02")),
	}
}

// OutputDir returns the full output directory path.
func (w *Writer) OutputDir() string {
	return w.outputDir
}

// WriteProjection writes monthly.csv (one row per period) and summary.json.
func (w *Writer) WriteProjection(proj *model.Projection) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filepath.Join(w.outputDir, "monthly.csv"))
	if err != nil {
		return fmt.Errorf("failed to create monthly.csv: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	header := []string{
		"month", "oil_production", "gas_production", "oil_revenue", "gas_revenue",
		"total_revenue", "operating_expense", "severance_tax", "total_opex",
		"net_operating_income", "capex", "net_cash_flow", "cumulative_cash_flow",
		"pv_factor", "pv_cash_flow",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, m := range proj.Months {
		row := []string{
			strconv.Itoa(m.Month),
			formatFloat(m.OilProduction),
			formatFloat(m.GasProduction),
			formatFloat(m.OilRevenue),
			formatFloat(m.GasRevenue),
			formatFloat(m.TotalRevenue),
			formatFloat(m.OperatingExpense),
			formatFloat(m.SeveranceTax),
			formatFloat(m.TotalOpex),
			formatFloat(m.NetOperatingIncome),
			formatFloat(m.Capex),
			formatFloat(m.NetCashFlow),
			formatFloat(m.CumulativeCashFlow),
			formatFloat(m.PVFactor),
			formatFloat(m.PVCashFlow),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write month %d: %w", m.Month, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush monthly.csv: %w", err)
	}

	return w.writeJSON("summary.json", struct {
		Params  model.Parameters `json:"params"`
		Summary model.Summary    `json:"summary"`
	}{proj.Params, proj.Summary})
}

// WriteBatch writes trials.csv (one row per completed trial) and
// batch.json (metadata without the runs).
func (w *Writer) WriteBatch(batch *sim.Batch) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(filepath.Join(w.outputDir, "trials.csv"))
	if err != nil {
		return fmt.Errorf("failed to create trials.csv: %w", err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	header := []string{
		"trial", "oil_price", "gas_price", "initial_production", "decline_rate",
		"npv", "irr", "payback_months", "final_cumulative_cf",
		"total_investment", "total_revenue",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, run := range batch.Runs {
		row := []string{
			strconv.Itoa(run.Trial),
			formatFloat(run.Params.OilPrice),
			formatFloat(run.Params.GasPrice),
			formatFloat(run.Params.InitialProduction),
			formatFloat(run.Params.DeclineRate),
			formatFloat(run.Summary.NPV),
			formatFloat(run.Summary.IRR),
			strconv.Itoa(run.Summary.PaybackMonths),
			formatFloat(run.Summary.FinalCumulativeCF),
			formatFloat(run.Summary.TotalInvestment),
			formatFloat(run.Summary.TotalRevenue),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write trial %d: %w", run.Trial, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush trials.csv: %w", err)
	}

	meta := *batch
	meta.Runs = nil
	return w.writeJSON("batch.json", meta)
}

// WriteRiskReport writes risk.json.
func (w *Writer) WriteRiskReport(rep *risk.Report) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return w.writeJSON("risk.json", rep)
}

func (w *Writer) writeJSON(name string, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(w.outputDir, name), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
