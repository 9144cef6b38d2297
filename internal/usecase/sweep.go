package usecase

import (
	"context"
	"sync"

	"github.com/vitos/crypto_backtest/internal/domain"
	"go.uber.org/zap"
)

// Sweeper runs many strategy configurations against the same series in
// parallel. Runs share nothing: each worker builds its own Backtester per
// config, so the sweep stays deterministic per config.
type Sweeper struct {
	initialCapital float64
	workers        int
	logger         *zap.Logger
}

func NewSweeper(initialCapital float64, workers int, logger *zap.Logger) *Sweeper {
	if workers <= 0 {
		workers = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sweeper{
		initialCapital: initialCapital,
		workers:        workers,
		logger:         logger,
	}
}

type SweepResult struct {
	Config domain.StrategyConfig
	Result *domain.BacktestResult
	Err    error
}

// Run executes every config and returns results in config order. A cancelled
// context stops dispatching further configs; already-dispatched runs finish
// (a single run has no cancellation point) and the skipped entries carry the
// context error.
func (s *Sweeper) Run(ctx context.Context, series domain.Series, configs []domain.StrategyConfig) []SweepResult {
	results := make([]SweepResult, len(configs))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				bt := NewBacktester(s.initialCapital, s.logger)
				res, err := bt.Run(series, configs[idx])
				results[idx] = SweepResult{Config: configs[idx], Result: res, Err: err}
			}
		}()
	}

	for i := range configs {
		// Checked before the send so a cancelled context never dispatches.
		if ctx.Err() != nil {
			results[i] = SweepResult{Config: configs[i], Err: ctx.Err()}
			continue
		}
		select {
		case <-ctx.Done():
			results[i] = SweepResult{Config: configs[i], Err: ctx.Err()}
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}

// Best returns the successful result with the highest value of the named
// metric. The second return value is false when no run produced that metric.
func Best(results []SweepResult, metric string) (SweepResult, bool) {
	var best SweepResult
	found := false
	for _, r := range results {
		if r.Err != nil || r.Result == nil || r.Result.Metrics == nil {
			continue
		}
		v, ok := r.Result.Metrics[metric]
		if !ok {
			continue
		}
		if !found || v > best.Result.Metrics[metric] {
			best = r
			found = true
		}
	}
	return best, found
}
