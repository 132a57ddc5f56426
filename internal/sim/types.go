package sim

import (
	"time"

	"github.com/sawpanic/wellrun/internal/model"
)

// Run is a single Monte Carlo trial: the sampled parameter set paired with
// the summary metrics it produced.
type Run struct {
	Trial   int              `json:"trial"`
	Params  model.Parameters `json:"params"`
	Summary model.Summary    `json:"summary"`
}

// Batch is the outcome of one simulation: the completed runs in trial-index
// order plus metadata. A partial batch produced by cancellation is still a
// valid input to risk assessment as long as it holds at least one run.
type Batch struct {
	ID        string        `json:"id"`
	Seed      int64         `json:"seed"`
	Requested int           `json:"requested"`
	Completed int           `json:"completed"`
	Skipped   int           `json:"skipped"`
	Cancelled bool          `json:"cancelled"`
	Elapsed   time.Duration `json:"elapsed"`
	Runs      []Run         `json:"runs"`
}

// Volatility maps each perturbed parameter to its relative standard
// deviation. The discount rate is never perturbed.
type Volatility struct {
	OilPrice          float64 `yaml:"oil_price" json:"oil_price"`
	GasPrice          float64 `yaml:"gas_price" json:"gas_price"`
	InitialProduction float64 `yaml:"initial_production" json:"initial_production"`
	DeclineRate       float64 `yaml:"decline_rate" json:"decline_rate"`
}

// DefaultVolatility returns the standard uncertainty assumptions: gas prices
// swing harder than oil, production estimates are the most reliable input.
func DefaultVolatility() Volatility {
	return Volatility{
		OilPrice:          0.15,
		GasPrice:          0.25,
		InitialProduction: 0.10,
		DeclineRate:       0.20,
	}
}

// Config controls one simulation. Results are a pure function of the base
// parameters, Trials, Seed, Volatility and Horizon; Workers and OnProgress
// never change what is computed.
type Config struct {
	Trials     int
	Seed       int64
	Workers    int // 0 means GOMAXPROCS
	Horizon    int // 0 means model.DefaultHorizon
	Volatility Volatility

	// OnProgress, when set, is invoked periodically from a dedicated
	// reporter goroutine with the number of finished trials. It must not
	// assume any ordering and is guaranteed a final (total, total) call
	// only when the run completes uncancelled.
	OnProgress func(done, total int)
}
