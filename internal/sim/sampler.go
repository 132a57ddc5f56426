package sim

import (
	"math"
	"math/rand"

	"github.com/sawpanic/wellrun/internal/model"
)

// Floors and caps keep sampled parameters economically sensible: a normal
// draw can land anywhere, so tail mass below the floor collapses onto the
// floor rather than producing negative prices or runaway decline.
var (
	oilPriceBounds   = bounds{floor: 20, cap: math.Inf(1)}  // $/bbl
	gasPriceBounds   = bounds{floor: 1, cap: math.Inf(1)}   // $/MCF
	productionBounds = bounds{floor: 100, cap: math.Inf(1)} // bbl/month
	declineBounds    = bounds{floor: 0.5, cap: 10}          // %/month
)

type bounds struct {
	floor, cap float64
}

// sampleParameter draws from a normal distribution centered at base with
// standard deviation base*volatility, then clamps into [floor, cap].
// Clamping happens after the draw so the distribution shape is untouched
// except at the bounds.
func sampleParameter(rng *rand.Rand, base, volatility, floor, cap float64) float64 {
	v := base + rng.NormFloat64()*base*volatility
	if v < floor {
		return floor
	}
	if v > cap {
		return cap
	}
	return v
}

// sampleParameters perturbs the four stochastic parameters in a fixed order
// so a trial's draws depend only on its RNG state. The discount rate is
// carried through unchanged.
func sampleParameters(rng *rand.Rand, base model.Parameters, vol Volatility) model.Parameters {
	sampled := base
	sampled.OilPrice = sampleParameter(rng, base.OilPrice, vol.OilPrice, oilPriceBounds.floor, oilPriceBounds.cap)
	sampled.GasPrice = sampleParameter(rng, base.GasPrice, vol.GasPrice, gasPriceBounds.floor, gasPriceBounds.cap)
	sampled.InitialProduction = sampleParameter(rng, base.InitialProduction, vol.InitialProduction, productionBounds.floor, productionBounds.cap)
	sampled.DeclineRate = sampleParameter(rng, base.DeclineRate, vol.DeclineRate, declineBounds.floor, declineBounds.cap)
	return sampled
}
