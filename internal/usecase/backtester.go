package usecase

import (
	"fmt"

	"github.com/vitos/crypto_backtest/internal/domain"
	"go.uber.org/zap"
)

type runState int

const (
	stateIdle runState = iota
	stateRunning
	stateFinished
)

// Backtester replays a price series through a strategy bar by bar and
// produces the closed-trade log, the equity curve and the derived metrics.
// It is single-threaded and not safe for concurrent use; parameter sweeps
// run one Backtester per goroutine (see Sweeper).
type Backtester struct {
	initialCapital float64
	logger         *zap.Logger
	state          runState
}

func NewBacktester(initialCapital float64, logger *zap.Logger) *Backtester {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Backtester{
		initialCapital: initialCapital,
		logger:         logger,
	}
}

// Run executes one simulation. It either returns one complete result or one
// error; there is no partial success. An empty series is not an error: it
// yields zero trades, an empty curve and nil metrics.
func (b *Backtester) Run(series domain.Series, cfg domain.StrategyConfig) (*domain.BacktestResult, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid strategy config: %w", err)
	}
	if b.initialCapital <= 0 {
		return nil, fmt.Errorf("initial capital must be positive, got %g", b.initialCapital)
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("invalid price series: %w", err)
	}

	strat, err := NewStrategy(&cfg)
	if err != nil {
		return nil, err
	}

	b.state = stateRunning
	b.logger.Info("Backtest started",
		zap.String("strategy", string(cfg.Type)),
		zap.Int("bars", len(series)),
		zap.Float64("initial_capital", b.initialCapital))

	ledger := NewLedger(b.initialCapital)

	for i, bar := range series {
		// The window ends at the current bar; the engine never looks ahead.
		window := series[:i+1]

		ledger.EvaluateExits(bar.Timestamp, bar.Price, strat, window)

		if ledger.OpenCount() < cfg.MaxTrades {
			switch strat.Evaluate(window) {
			case SignalBuy:
				ledger.Open(domain.SideLong, bar.Timestamp, bar.Price, &cfg)
				b.logger.Debug("Opened position", zap.Int("bar", i), zap.String("side", "long"), zap.Float64("price", bar.Price))
			case SignalSell:
				ledger.Open(domain.SideShort, bar.Timestamp, bar.Price, &cfg)
				b.logger.Debug("Opened position", zap.Int("bar", i), zap.String("side", "short"), zap.Float64("price", bar.Price))
			}
		}

		ledger.MarkEquity(bar.Timestamp, bar.Price)
	}

	if len(series) > 0 {
		last := series[len(series)-1]
		ledger.CloseAll(last.Timestamp, last.Price)
	}

	b.state = stateFinished

	trades := ledger.Trades()
	curve := ledger.EquityCurve()
	result := &domain.BacktestResult{
		Trades:      trades,
		EquityCurve: curve,
		Metrics:     CalculateMetrics(trades, curve),
	}

	b.logger.Info("Backtest finished",
		zap.Int("trades", len(trades)),
		zap.Float64("final_capital", ledger.Capital()))

	return result, nil
}
