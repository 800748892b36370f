// Package experiment runs a batch of Configurations concurrently and
// collects one Result per run, using errgroup for structured fan-out.
package experiment

import (
	"context"

	"github.com/codefan-byte/caminos-tfg-sub000/internal/config"
	"github.com/codefan-byte/caminos-tfg-sub000/internal/result"
	"github.com/codefan-byte/caminos-tfg-sub000/simulation"
	"golang.org/x/sync/errgroup"
)

// Run executes every Configuration in cfgs concurrently (bounded by
// maxConcurrency; 0 means unbounded) and returns one Result per entry, in
// the same order, as a Batch. The first run error aborts the remaining
// runs and is returned; a simulation run itself never errors (an invalid
// Configuration must be caught by config.Validate before reaching here),
// so this only ever surfaces ctx cancellation.
func Run(ctx context.Context, cfgs []*config.Configuration, names []string, maxConcurrency int) (*result.Batch, error) {
	results := make([]*result.Result, len(cfgs))

	g, gctx := errgroup.WithContext(ctx)
	if maxConcurrency > 0 {
		g.SetLimit(maxConcurrency)
	}

	for i, c := range cfgs {
		i, c := i, c
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = simulation.New(c).Run()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &result.Batch{Names: names, Results: results}, nil
}
