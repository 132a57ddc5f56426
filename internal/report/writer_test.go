package report

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sawpanic/wellrun/internal/model"
	"github.com/sawpanic/wellrun/internal/risk"
	"github.com/sawpanic/wellrun/internal/sim"
)

func testProjection(t *testing.T) *model.Projection {
	t.Helper()
	proj, err := model.Project(model.DefaultParameters(), model.DefaultEconomics(), model.DefaultHorizon)
	if err != nil {
		t.Fatal(err)
	}
	return proj
}

func testBatch(t *testing.T) *sim.Batch {
	t.Helper()
	runner := sim.NewRunner(model.DefaultEconomics())
	batch, err := runner.Run(context.Background(), model.DefaultParameters(), sim.Config{
		Trials:     25,
		Seed:       11,
		Volatility: sim.DefaultVolatility(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return batch
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	return rows
}

func TestWriter_WriteProjection(t *testing.T) {
	w := NewWriter(t.TempDir())
	proj := testProjection(t)

	if err := w.WriteProjection(proj); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, filepath.Join(w.OutputDir(), "monthly.csv"))
	if len(rows) != model.DefaultHorizon+1 {
		t.Errorf("monthly.csv has %d rows, want %d", len(rows), model.DefaultHorizon+1)
	}
	if len(rows[0]) != 15 {
		t.Errorf("monthly.csv has %d columns, want 15", len(rows[0]))
	}
	if rows[1][0] != "1" || rows[1][1] != "1000" {
		t.Errorf("first data row = %v, want month 1 at 1000 bbl", rows[1][:2])
	}

	data, err := os.ReadFile(filepath.Join(w.OutputDir(), "summary.json"))
	if err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		Params  model.Parameters `json:"params"`
		Summary model.Summary    `json:"summary"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("summary.json does not parse: %v", err)
	}
	if decoded.Summary.NPV != proj.Summary.NPV {
		t.Errorf("summary.json NPV = %v, want %v", decoded.Summary.NPV, proj.Summary.NPV)
	}
}

func TestWriter_WriteBatch(t *testing.T) {
	w := NewWriter(t.TempDir())
	batch := testBatch(t)

	if err := w.WriteBatch(batch); err != nil {
		t.Fatal(err)
	}

	rows := readCSV(t, filepath.Join(w.OutputDir(), "trials.csv"))
	if len(rows) != batch.Completed+1 {
		t.Errorf("trials.csv has %d rows, want %d", len(rows), batch.Completed+1)
	}

	data, err := os.ReadFile(filepath.Join(w.OutputDir(), "batch.json"))
	if err != nil {
		t.Fatal(err)
	}
	var meta sim.Batch
	if err := json.Unmarshal(data, &meta); err != nil {
		t.Fatalf("batch.json does not parse: %v", err)
	}
	if meta.ID != batch.ID || meta.Completed != batch.Completed {
		t.Errorf("batch.json metadata mismatch: %+v", meta)
	}
	if len(meta.Runs) != 0 {
		t.Error("batch.json must not embed the per-trial runs")
	}
	// The source batch keeps its runs.
	if len(batch.Runs) != batch.Completed {
		t.Error("writing must not mutate the batch")
	}
}

func TestWriter_WriteRiskReport(t *testing.T) {
	w := NewWriter(t.TempDir())

	report, err := risk.Assess(testBatch(t))
	if err != nil {
		t.Fatal(err)
	}
	if err := w.WriteRiskReport(report); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(w.OutputDir(), "risk.json"))
	if err != nil {
		t.Fatal(err)
	}
	var decoded risk.Report
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("risk.json does not parse: %v", err)
	}
	if decoded.Trials != report.Trials {
		t.Errorf("risk.json trials = %d, want %d", decoded.Trials, report.Trials)
	}
}
