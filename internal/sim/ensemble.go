package sim

import (
	"context"
	"sync"
)

// SystemFactory builds an independent system for one ensemble member.
type SystemFactory func(seed int64) (System, error)

// Ensemble runs numRuns copies of a scenario with consecutive seeds, one
// goroutine per copy. Each copy gets its own system and its own metrics.
type Ensemble struct {
	factory   SystemFactory
	metrics   func() []Metric
	numRuns   int
	seedStart int64
}

func NewEnsemble(factory SystemFactory, metrics func() []Metric, numRuns int, seedStart int64) *Ensemble {
	return &Ensemble{factory: factory, metrics: metrics, numRuns: numRuns, seedStart: seedStart}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			cfgCopy := cfg
			cfgCopy.Seed = e.seedStart + int64(idx)

			sys, err := e.factory(cfgCopy.Seed)
			if err != nil {
				errs[idx] = err
				return
			}

			sim := New()
			if e.metrics != nil {
				for _, m := range e.metrics() {
					sim.AddMetric(m)
				}
			}

			results[idx], errs[idx] = sim.Run(ctx, sys, cfgCopy)
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
