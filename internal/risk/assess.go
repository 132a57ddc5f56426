package risk

import (
	"errors"
	"math"
	"sort"

	"github.com/sawpanic/wellrun/internal/sim"
)

// ErrEmptyBatch is returned when statistics are requested over zero runs.
var ErrEmptyBatch = errors.New("empty simulation batch")

// Percentiles holds the named percentile points of a sample.
type Percentiles struct {
	P5  float64 `json:"p5"`
	P10 float64 `json:"p10"`
	P25 float64 `json:"p25"`
	P50 float64 `json:"p50"`
	P75 float64 `json:"p75"`
	P90 float64 `json:"p90"`
}

// Report is the distributional risk summary over a simulation batch. It is
// derived data: recompute it whenever the batch changes.
type Report struct {
	Trials                 int     `json:"trials"`
	ExpectedNPV            float64 `json:"expected_npv"`              // $k
	StdDevNPV              float64 `json:"std_dev_npv"`               // $k
	CoefficientOfVariation float64 `json:"coefficient_of_variation"`
	DownsideDeviation      float64 `json:"downside_deviation"` // $k, below-mean runs only
	RiskAdjustedReturn     float64 `json:"risk_adjusted_return"`
	ValueAtRisk5           float64 `json:"value_at_risk_5"`       // $k, 5th percentile NPV
	ProbabilityPositive    float64 `json:"probability_positive"`  // percent of runs with NPV > 0
	ProbabilityExcellent   float64 `json:"probability_excellent"` // percent of runs above own P75
	NPV                    Percentiles `json:"npv_percentiles"`
	IRR                    Percentiles `json:"irr_percentiles"`
}

// Assess computes the risk report over the batch's NPV and IRR samples.
// Run order in the batch carries no meaning; the batch is treated as an
// unordered sample set.
func Assess(batch *sim.Batch) (*Report, error) {
	if batch == nil || len(batch.Runs) == 0 {
		return nil, ErrEmptyBatch
	}

	n := len(batch.Runs)
	npvs := make([]float64, n)
	irrs := make([]float64, n)
	for i, run := range batch.Runs {
		npvs[i] = run.Summary.NPV
		irrs[i] = run.Summary.IRR
	}

	meanNPV := mean(npvs)
	stdNPV := stdDev(npvs, meanNPV)

	sortedNPV := sortedCopy(npvs)
	sortedIRR := sortedCopy(irrs)
	npvPct := namedPercentiles(sortedNPV)
	irrPct := namedPercentiles(sortedIRR)

	var positive, excellent int
	for _, v := range npvs {
		if v > 0 {
			positive++
		}
		if v > npvPct.P75 {
			excellent++
		}
	}

	report := &Report{
		Trials:               n,
		ExpectedNPV:          meanNPV,
		StdDevNPV:            stdNPV,
		DownsideDeviation:    downsideDeviation(npvs, meanNPV),
		ValueAtRisk5:         npvPct.P5,
		ProbabilityPositive:  float64(positive) / float64(n) * 100,
		ProbabilityExcellent: float64(excellent) / float64(n) * 100,
		NPV:                  npvPct,
		IRR:                  irrPct,
	}
	if meanNPV != 0 {
		report.CoefficientOfVariation = stdNPV / math.Abs(meanNPV)
	}
	if stdNPV > 0 {
		report.RiskAdjustedReturn = meanNPV / stdNPV
	}
	return report, nil
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the sample (n-1) standard deviation; 0 for fewer than two values.
func stdDev(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// downsideDeviation measures dispersion over below-mean outcomes only,
// capturing loss-side risk separately from symmetric variance. Zero when
// fewer than two runs fall below the mean.
func downsideDeviation(npvs []float64, batchMean float64) float64 {
	var below []float64
	for _, v := range npvs {
		if v < batchMean {
			below = append(below, v)
		}
	}
	if len(below) < 2 {
		return 0
	}
	return stdDev(below, mean(below))
}

func namedPercentiles(sorted []float64) Percentiles {
	return Percentiles{
		P5:  percentile(sorted, 5),
		P10: percentile(sorted, 10),
		P25: percentile(sorted, 25),
		P50: percentile(sorted, 50),
		P75: percentile(sorted, 75),
		P90: percentile(sorted, 90),
	}
}

// percentile linearly interpolates the p-th percentile of a sorted sample.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(n-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func sortedCopy(values []float64) []float64 {
	out := append([]float64(nil), values...)
	sort.Float64s(out)
	return out
}
