package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// annuityStream builds a stream with a known IRR: an upfront outlay followed
// by level payments sized so the NPV at annualRate is exactly zero.
func annuityStream(outlay, annualRate float64, n int) []float64 {
	v := 1 / (1 + annualRate/12)
	var factor float64
	for j := 1; j < n; j++ {
		factor += math.Pow(v, float64(j))
	}
	payment := outlay / factor

	cf := make([]float64, n)
	cf[0] = -outlay
	for i := 1; i < n; i++ {
		cf[i] = payment
	}
	return cf
}

func TestSolveIRR_RoundTrip(t *testing.T) {
	for _, rate := range []float64{0.05, 0.12, 0.30} {
		cf := annuityStream(1000, rate, 36)
		irr, ok := SolveIRR(cf)
		require.True(t, ok, "solver must converge at %.0f%%", rate*100)
		assert.InDelta(t, rate*100, irr, 1e-6)
	}
}

func TestSolveIRR_ExactAtInitialGuess(t *testing.T) {
	// Root sits exactly at the 10% starting point.
	cf := []float64{-100, 100 * (1 + 0.10/12)}
	irr, ok := SolveIRR(cf)
	require.True(t, ok)
	assert.InDelta(t, 10.0, irr, 1e-6)
}

func TestSolveIRR_EmptyStream(t *testing.T) {
	irr, ok := SolveIRR(nil)
	assert.False(t, ok)
	assert.Zero(t, irr)
}

func TestSolveIRR_NoSignChange(t *testing.T) {
	cases := []struct {
		name string
		cf   []float64
	}{
		{"all positive", []float64{100, 100, 100, 100}},
		{"all negative", []float64{-100, -100, -100, -100}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			irr, ok := SolveIRR(tc.cf)
			assert.False(t, ok, "no root exists for %s streams", tc.name)
			assert.Zero(t, irr)
		})
	}
}

func TestSolveIRR_ClampsExplosiveRates(t *testing.T) {
	// Doubling money in one month: the true root is 1200% annualized,
	// which lands on the upper clamp.
	irr, ok := SolveIRR([]float64{-1, 2})
	require.True(t, ok)
	assert.InDelta(t, 1000.0, irr, 1e-9)
}

func TestSolveIRR_Deterministic(t *testing.T) {
	cf := annuityStream(500, 0.08, 24)

	irr1, ok1 := SolveIRR(cf)
	irr2, ok2 := SolveIRR(cf)
	assert.Equal(t, ok1, ok2)
	assert.Equal(t, irr1, irr2)
}
