package risk

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/wellrun/internal/model"
	"github.com/sawpanic/wellrun/internal/sim"
)

func batchOf(npvs ...float64) *sim.Batch {
	runs := make([]sim.Run, len(npvs))
	for i, v := range npvs {
		runs[i] = sim.Run{Trial: i, Summary: model.Summary{NPV: v, IRR: v / 10}}
	}
	return &sim.Batch{Requested: len(npvs), Completed: len(npvs), Runs: runs}
}

func TestAssess_EmptyBatch(t *testing.T) {
	_, err := Assess(nil)
	assert.ErrorIs(t, err, ErrEmptyBatch)

	_, err = Assess(&sim.Batch{})
	assert.ErrorIs(t, err, ErrEmptyBatch)
}

func TestAssess_KnownSample(t *testing.T) {
	report, err := Assess(batchOf(10, 20, 30, 40))
	require.NoError(t, err)

	assert.Equal(t, 4, report.Trials)
	assert.InDelta(t, 25.0, report.ExpectedNPV, 1e-9)
	assert.InDelta(t, math.Sqrt(500.0/3.0), report.StdDevNPV, 1e-9)
	assert.InDelta(t, math.Sqrt(500.0/3.0)/25.0, report.CoefficientOfVariation, 1e-9)
	assert.InDelta(t, 25.0/math.Sqrt(500.0/3.0), report.RiskAdjustedReturn, 1e-9)

	// Below-mean runs are {10, 20}: their own sample deviation is sqrt(50).
	assert.InDelta(t, math.Sqrt(50.0), report.DownsideDeviation, 1e-9)

	assert.InDelta(t, 25.0, report.NPV.P50, 1e-9)
	assert.InDelta(t, 32.5, report.NPV.P75, 1e-9)
	// rank 0.15 between 10 and 20
	assert.InDelta(t, 11.5, report.NPV.P5, 1e-9)
	assert.Equal(t, report.NPV.P5, report.ValueAtRisk5)

	assert.InDelta(t, 100.0, report.ProbabilityPositive, 1e-9)
	// Only 40 sits strictly above its own P75 of 32.5.
	assert.InDelta(t, 25.0, report.ProbabilityExcellent, 1e-9)
}

func TestAssess_ConstantBatch(t *testing.T) {
	report, err := Assess(batchOf(100, 100, 100, 100, 100))
	require.NoError(t, err)

	assert.Zero(t, report.StdDevNPV)
	assert.Zero(t, report.RiskAdjustedReturn, "zero deviation must not divide")
	assert.Zero(t, report.CoefficientOfVariation)
	assert.Zero(t, report.DownsideDeviation)
	assert.InDelta(t, 100.0, report.NPV.P5, 1e-9)
	assert.InDelta(t, 100.0, report.NPV.P90, 1e-9)
	assert.Zero(t, report.ProbabilityExcellent, "no run exceeds a flat P75")
}

func TestAssess_ZeroMeanBatch(t *testing.T) {
	report, err := Assess(batchOf(-50, 50))
	require.NoError(t, err)

	assert.Zero(t, report.ExpectedNPV)
	assert.Zero(t, report.CoefficientOfVariation, "zero mean must not divide")
	assert.InDelta(t, 50.0, report.ProbabilityPositive, 1e-9)
}

func TestAssess_ProbabilityPositive(t *testing.T) {
	report, err := Assess(batchOf(-10, -5, 0, 5, 10))
	require.NoError(t, err)

	// Zero is not a positive outcome.
	assert.InDelta(t, 40.0, report.ProbabilityPositive, 1e-9)
}

func TestAssess_SingleRun(t *testing.T) {
	report, err := Assess(batchOf(42))
	require.NoError(t, err)

	assert.Equal(t, 1, report.Trials)
	assert.InDelta(t, 42.0, report.ExpectedNPV, 1e-9)
	assert.Zero(t, report.StdDevNPV)
	assert.InDelta(t, 42.0, report.NPV.P5, 1e-9)
	assert.InDelta(t, 42.0, report.NPV.P90, 1e-9)
}

func TestPercentile_LinearInterpolation(t *testing.T) {
	sorted := []float64{1, 2, 3, 4, 5}

	assert.InDelta(t, 3.0, percentile(sorted, 50), 1e-9)
	assert.InDelta(t, 1.0, percentile(sorted, 0), 1e-9)
	assert.InDelta(t, 5.0, percentile(sorted, 100), 1e-9)
	// rank 0.1*4 = 0.4 between 1 and 2
	assert.InDelta(t, 1.4, percentile(sorted, 10), 1e-9)
	// rank 0.9*4 = 3.6 between 4 and 5
	assert.InDelta(t, 4.6, percentile(sorted, 90), 1e-9)
}
