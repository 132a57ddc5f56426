package model

import "math"

const (
	irrInitialGuess  = 0.10 // 10% annualized
	irrMaxIterations = 100
	irrStepTolerance = 1e-9

	// Clamp bounds in percent. Degenerate cash-flow shapes (all-positive,
	// all-negative) can drive the root to explosive values; results outside
	// this band are not economically meaningful.
	irrMinPercent = -100.0
	irrMaxPercent = 1000.0
)

// SolveIRR finds the annualized rate, compounded monthly, at which the
// stream's net present value is zero:
//
//	npv(rate) = Σ cashFlows[i] / (1 + rate/12)^(i+1)
//
// Newton iteration starts at 10% and the result is clamped to
// [-100%, 1000%]. The returned rate is in percent. IRR is advisory, not
// safety-critical: a solve that fails to converge (no reachable root,
// overflow, derivative collapse) reports (0, false) instead of an error so
// callers can still use the rest of an otherwise valid projection.
// The solve is deterministic: the same stream always yields the same result.
func SolveIRR(cashFlows []float64) (float64, bool) {
	if len(cashFlows) == 0 {
		return 0, false
	}

	rate := irrInitialGuess
	for i := 0; i < irrMaxIterations; i++ {
		npv := npvAt(cashFlows, rate)
		deriv := npvDerivAt(cashFlows, rate)
		if !isFinite(npv) || !isFinite(deriv) || deriv == 0 {
			return 0, false
		}

		step := npv / deriv
		rate -= step
		if 1+rate/12 <= 0 {
			// Left the domain of the discount base; no meaningful root.
			return 0, false
		}
		if math.Abs(step) < irrStepTolerance {
			return clampIRR(rate * 100), true
		}
	}
	return 0, false
}

func npvAt(cashFlows []float64, rate float64) float64 {
	base := 1 + rate/12
	var npv float64
	for i, cf := range cashFlows {
		npv += cf / math.Pow(base, float64(i+1))
	}
	return npv
}

func npvDerivAt(cashFlows []float64, rate float64) float64 {
	base := 1 + rate/12
	var deriv float64
	for i, cf := range cashFlows {
		deriv -= cf * float64(i+1) / 12 / math.Pow(base, float64(i+2))
	}
	return deriv
}

func clampIRR(pct float64) float64 {
	return math.Max(irrMinPercent, math.Min(irrMaxPercent, pct))
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
