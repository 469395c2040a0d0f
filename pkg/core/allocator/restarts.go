package allocator

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// RestartResult is the outcome of one restart. Outcome.Seed is the derived seed it ran with.
type RestartResult struct {
	Restart int
	Outcome *AllocationOutcome
}

// AllocateRestarts runs independent allocations in parallel and returns the best outcome.
//
// Each restart works on its own clone of config.Pool with a seed derived from config.Seed, so
// results do not depend on scheduling. config.Random is ignored. Ties keep the lowest restart
// number. Completed per-restart outcomes are returned in restart order.
// Once ctx is cancelled no further restarts are launched and running restarts stop before
// their next pass.
func AllocateRestarts(ctx context.Context, config AllocationConfig, restarts int) (*AllocationOutcome, []RestartResult, error) {
	if config.Pool == nil {
		return nil, nil, fmt.Errorf("%w: allocation config has no pool", ErrMalformedInput)
	}
	if restarts < 1 {
		restarts = 1
	}

	results := make([]RestartResult, restarts)

	var mu sync.Mutex
	var best *AllocationOutcome
	bestRestart := -1

	g, gctx := errgroup.WithContext(ctx)
	for r := 0; r < restarts; r++ {
		if gctx.Err() != nil {
			break
		}

		restartConfig := config
		restartConfig.Pool = config.Pool.Clone()
		restartConfig.Seed = DeriveSeed(config.Seed, uint64(r))
		restartConfig.Random = nil

		g.Go(func() error {
			outcome, err := AllocateContext(gctx, restartConfig)
			if err != nil {
				return fmt.Errorf("restart %d: %w", r, err)
			}
			results[r] = RestartResult{Restart: r, Outcome: outcome}

			mu.Lock()
			defer mu.Unlock()
			if best == nil || outcome.Objective > best.Objective ||
				(outcome.Objective == best.Objective && r < bestRestart) {
				best = outcome
				bestRestart = r
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if best == nil {
		return nil, nil, fmt.Errorf("no restart completed: %w", ctx.Err())
	}

	completed := make([]RestartResult, 0, restarts)
	for _, result := range results {
		if result.Outcome != nil {
			completed = append(completed, result)
		}
	}

	return best, completed, nil
}
