package sim

import (
	"context"
	"sync"

	"github.com/rmarien/botsim/internal/scene"
	"github.com/rmarien/botsim/internal/trace"
)

// EnsembleResult is the outcome of one seeded run of an ensemble.
type EnsembleResult struct {
	Seed             int64
	Records          []trace.Record
	ControllerErrors map[string]error
}

// Ensemble runs the same scenario across a range of seeds, one simulator
// per seed. Simulators share nothing, so the runs execute concurrently.
type Ensemble struct {
	scenario  *scene.Scenario
	opts      LoadOptions
	numRuns   int
	seedStart int64
}

func NewEnsemble(sc *scene.Scenario, opts LoadOptions, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{scenario: sc, opts: opts, numRuns: numRuns, seedStart: seedStart}
}

// Run executes every seeded variant for the given number of steps and
// returns results in seed order. Cancelling the context aborts all runs.
func (e *Ensemble) Run(ctx context.Context, steps int) ([]EnsembleResult, error) {
	results := make([]EnsembleResult, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			scCopy := *e.scenario
			scCopy.World.Seed = e.seedStart + int64(idx)

			s := New(nil, nil)
			if err := s.Load(&scCopy, e.opts); err != nil {
				errs[idx] = err
				return
			}
			rec := trace.NewRecorder()
			s.EnableTrace(rec)

			for step := 0; step < steps; step++ {
				select {
				case <-ctx.Done():
					errs[idx] = ctx.Err()
					return
				default:
				}
				if err := s.Step(); err != nil {
					errs[idx] = err
					return
				}
			}
			results[idx] = EnsembleResult{
				Seed:             scCopy.World.Seed,
				Records:          rec.Records(),
				ControllerErrors: s.ControllerErrors(),
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}
