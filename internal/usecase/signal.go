package usecase

import (
	"fmt"

	"github.com/vitos/crypto_backtest/internal/domain"
	"github.com/vitos/crypto_backtest/internal/indicators"
)

type Signal string

const (
	SignalBuy  Signal = "buy"
	SignalSell Signal = "sell"
	SignalNone Signal = "none"
)

// Strategy proposes an action for the bar window ending at the current bar.
// Implementations are pure: no state survives between calls, so identical
// windows always produce identical signals.
type Strategy interface {
	// Evaluate returns SignalNone until at least the configured lookback of
	// bars is available.
	Evaluate(window []domain.Bar) Signal

	// ShouldExit is the strategy-defined exit hook, checked after stop-loss
	// and take-profit. None of the shipped strategies implement one; the
	// hook exists so a custom strategy can close positions on its own rules.
	ShouldExit(window []domain.Bar, pos *domain.Position) bool
}

// NewStrategy selects the strategy implementation for the config. Selection
// happens once per run, not per bar.
func NewStrategy(cfg *domain.StrategyConfig) (Strategy, error) {
	switch cfg.Type {
	case domain.TrendFollowing:
		return &trendFollowing{
			lookback: cfg.Lookback,
			short:    cfg.SMAShort,
			long:     cfg.SMALong,
		}, nil
	case domain.MeanReversion:
		return &meanReversion{
			lookback:   cfg.Lookback,
			period:     cfg.RSIPeriod,
			oversold:   cfg.Oversold,
			overbought: cfg.Overbought,
		}, nil
	case domain.Breakout:
		return &breakout{lookback: cfg.Lookback}, nil
	default:
		return nil, fmt.Errorf("unknown strategy type %q", cfg.Type)
	}
}

// noExit disables the strategy-exit tier.
type noExit struct{}

func (noExit) ShouldExit([]domain.Bar, *domain.Position) bool { return false }

func closes(window []domain.Bar) []float64 {
	prices := make([]float64, len(window))
	for i, bar := range window {
		prices[i] = bar.Price
	}
	return prices
}

// trendFollowing signals on SMA crossovers: buy when the short average
// crosses above the long one between the previous and current bar, sell on
// the symmetric downward crossover.
type trendFollowing struct {
	noExit
	lookback int
	short    int
	long     int
}

func (s *trendFollowing) Evaluate(window []domain.Bar) Signal {
	if len(window) < s.lookback || len(window) < 2 {
		return SignalNone
	}

	prices := closes(window)
	shortSMA := indicators.SMA(prices, s.short)
	longSMA := indicators.SMA(prices, s.long)

	cur := len(prices) - 1
	prev := cur - 1

	// A crossover means the short average is above (below) the long one now
	// and was not on the previous bar. NaN warm-up values fail every
	// comparison: the current bar needs both averages formed, and a NaN
	// previous bar counts as "not above", so the first formed bar can open
	// the initial crossover.
	switch {
	case shortSMA[cur] > longSMA[cur] && !(shortSMA[prev] > longSMA[prev]):
		return SignalBuy
	case shortSMA[cur] < longSMA[cur] && !(shortSMA[prev] < longSMA[prev]):
		return SignalSell
	}
	return SignalNone
}

// meanReversion signals on RSI extremes: buy when oversold, sell when
// overbought.
type meanReversion struct {
	noExit
	lookback   int
	period     int
	oversold   float64
	overbought float64
}

func (s *meanReversion) Evaluate(window []domain.Bar) Signal {
	if len(window) < s.lookback {
		return SignalNone
	}

	rsi := indicators.RSI(closes(window), s.period)
	cur := rsi[len(rsi)-1]

	switch {
	case cur < s.oversold:
		return SignalBuy
	case cur > s.overbought:
		return SignalSell
	}
	return SignalNone
}

// breakout signals when the current price escapes the rolling max/min of the
// prior lookback bars. The current bar is excluded from the channel, so a
// breakout needs lookback+1 bars of history.
type breakout struct {
	noExit
	lookback int
}

func (s *breakout) Evaluate(window []domain.Bar) Signal {
	if len(window) < s.lookback+1 {
		return SignalNone
	}

	prices := closes(window)
	high := indicators.RollingMax(prices, s.lookback)
	low := indicators.RollingMin(prices, s.lookback)

	cur := len(prices) - 1
	prior := cur - 1

	switch {
	case prices[cur] > high[prior]:
		return SignalBuy
	case prices[cur] < low[prior]:
		return SignalSell
	}
	return SignalNone
}
