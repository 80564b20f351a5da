package experiment

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/orbitsim/internal/config"
)

// Ensemble runs independent copies of a base config concurrently. Each
// variant gets its own Config copy; the scene and thresholds are shared
// read-only.
type Ensemble struct {
	base     *config.Config
	registry *Registry
	logger   *slog.Logger
	workers  int
}

func NewEnsemble(base *config.Config, registry *Registry, logger *slog.Logger) *Ensemble {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Ensemble{base: base, registry: registry, logger: logger, workers: runtime.GOMAXPROCS(0)}
}

// SetWorkers bounds the number of runs in flight. n < 1 means one.
func (e *Ensemble) SetWorkers(n int) {
	e.workers = max(1, n)
}

// Run executes one run per variant and returns the results in variant
// order. The first failure cancels the remaining runs.
func (e *Ensemble) Run(ctx context.Context, variants []func(*config.Config)) ([]*Result, error) {
	results := make([]*Result, len(variants))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, mutate := range variants {
		i, mutate := i, mutate
		g.Go(func() error {
			cfg := *e.base
			if mutate != nil {
				mutate(&cfg)
			}

			exp := New(&cfg, e.registry, e.logger)
			if err := exp.Setup(); err != nil {
				return err
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// CompareIntegrators runs the base config once per integrator.
func (e *Ensemble) CompareIntegrators(ctx context.Context, names []string) ([]*Result, error) {
	variants := make([]func(*config.Config), len(names))
	for i, name := range names {
		name := name
		variants[i] = func(c *config.Config) { c.Simulation.Integrator = name }
	}
	return e.Run(ctx, variants)
}

// Seeds runs n copies with consecutive seeds starting at start. Only
// generated scenes and collision debris depend on the seed.
func (e *Ensemble) Seeds(ctx context.Context, n int, start int64) ([]*Result, error) {
	variants := make([]func(*config.Config), n)
	for i := range variants {
		seed := start + int64(i)
		variants[i] = func(c *config.Config) { c.Simulation.Seed = seed }
	}
	return e.Run(ctx, variants)
}
