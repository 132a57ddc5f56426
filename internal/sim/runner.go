package sim

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/sawpanic/wellrun/internal/model"
)

const progressInterval = 100 * time.Millisecond

// Runner drives Monte Carlo evaluation of the cash-flow model. It holds no
// mutable state across runs and is safe for concurrent use.
type Runner struct {
	econ model.Economics
}

// NewRunner creates a runner evaluating trials against the given cost model.
func NewRunner(econ model.Economics) *Runner {
	return &Runner{econ: econ}
}

// Run executes cfg.Trials independent trials of the projector with sampled
// parameters. Each trial owns an RNG seeded cfg.Seed+trialIndex, so results
// are bit-identical for a fixed seed regardless of worker count. Workers
// write into per-trial slots; no slot has more than one writer.
//
// Cancellation is cooperative: workers check ctx between trials and the
// returned batch holds only the trials that finished. Trials whose sampled
// parameters still fail projection or produce a non-finite NPV are skipped
// and counted, never aborting the batch.
func (r *Runner) Run(ctx context.Context, base model.Parameters, cfg Config) (*Batch, error) {
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("%w: trial count %d must be positive", model.ErrInvalidParameter, cfg.Trials)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}

	horizon := cfg.Horizon
	if horizon == 0 {
		horizon = model.DefaultHorizon
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > cfg.Trials {
		workers = cfg.Trials
	}

	log.Info().
		Int("trials", cfg.Trials).
		Int("workers", workers).
		Int64("seed", cfg.Seed).
		Msg("Starting Monte Carlo simulation")

	start := time.Now()

	type slot struct {
		run     Run
		done    bool
		skipped bool
	}
	slots := make([]slot, cfg.Trials)

	var finished atomic.Int64
	var nextTrial atomic.Int64
	stopProgress := startProgressReporter(cfg.OnProgress, &finished, cfg.Trials)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(nextTrial.Add(1) - 1)
				if i >= cfg.Trials {
					return
				}
				select {
				case <-ctx.Done():
					return
				default:
				}

				rng := rand.New(rand.NewSource(cfg.Seed + int64(i)))
				params := sampleParameters(rng, base, cfg.Volatility)

				proj, err := model.Project(params, r.econ, horizon)
				switch {
				case err != nil:
					log.Warn().Err(err).Int("trial", i).Msg("Trial skipped")
					slots[i].skipped = true
				case !finiteSummary(proj.Summary):
					log.Warn().Int("trial", i).Msg("Trial produced non-finite metrics, skipped")
					slots[i].skipped = true
				default:
					slots[i].run = Run{Trial: i, Params: params, Summary: proj.Summary}
					slots[i].done = true
				}
				finished.Add(1)
			}
		}()
	}
	wg.Wait()

	cancelled := ctx.Err() != nil
	stopProgress(!cancelled)

	batch := &Batch{
		ID:        uuid.NewString(),
		Seed:      cfg.Seed,
		Requested: cfg.Trials,
		Cancelled: cancelled,
		Elapsed:   time.Since(start),
		Runs:      make([]Run, 0, cfg.Trials),
	}
	for i := range slots {
		if slots[i].done {
			batch.Runs = append(batch.Runs, slots[i].run)
		} else if slots[i].skipped {
			batch.Skipped++
		}
	}
	batch.Completed = len(batch.Runs)

	log.Info().
		Str("batch_id", batch.ID).
		Int("completed", batch.Completed).
		Int("skipped", batch.Skipped).
		Bool("cancelled", batch.Cancelled).
		Dur("elapsed", batch.Elapsed).
		Msg("Monte Carlo simulation finished")

	return batch, nil
}

// startProgressReporter feeds onProgress from a dedicated goroutine so
// workers are never serialized behind a progress update. The returned stop
// function halts reporting; pass final=true to emit one last up-to-date
// count.
func startProgressReporter(onProgress func(done, total int), finished *atomic.Int64, total int) func(final bool) {
	if onProgress == nil {
		return func(bool) {}
	}

	quit := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		ticker := time.NewTicker(progressInterval)
		defer ticker.Stop()
		for {
			select {
			case <-quit:
				return
			case <-ticker.C:
				onProgress(int(finished.Load()), total)
			}
		}
	}()

	var once sync.Once
	return func(final bool) {
		once.Do(func() {
			close(quit)
			<-stopped
			if final {
				onProgress(int(finished.Load()), total)
			}
		})
	}
}

func finiteSummary(s model.Summary) bool {
	for _, v := range []float64{s.NPV, s.IRR, s.FinalCumulativeCF, s.TotalRevenue} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
