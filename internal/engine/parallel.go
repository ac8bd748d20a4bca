package engine

import (
	"context"
	"sync"
)

// Ensemble runs independent engine instances concurrently. Each engine
// remains single-threaded; only whole runs are parallelized, so the core's
// no-locks contract is untouched.
type Ensemble struct {
	build func(run int) (*Engine, error)
	runs  int
}

func NewEnsemble(runs int, build func(run int) (*Engine, error)) *Ensemble {
	return &Ensemble{build: build, runs: runs}
}

// Run executes every member for duration at dt and returns the final stats
// of each, indexed by run.
func (en *Ensemble) Run(ctx context.Context, duration, dt float64) ([]Stats, error) {
	stats := make([]Stats, en.runs)
	errs := make([]error, en.runs)

	var wg sync.WaitGroup
	for i := 0; i < en.runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			e, err := en.build(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			if err := e.Run(ctx, duration, dt, nil); err != nil {
				errs[idx] = err
				return
			}
			stats[idx] = e.Stats()
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return stats, nil
}
