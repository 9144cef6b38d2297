package usecase

import (
	"time"

	"github.com/vitos/crypto_backtest/internal/domain"
)

// Ledger owns all mutable state of one simulation: cash capital, the open
// positions, the closed-trade log and the equity curve. A Backtester creates
// one per run and nothing else touches it.
type Ledger struct {
	capital float64
	open    []domain.Position
	trades  []domain.ClosedTrade
	equity  []domain.EquityPoint
}

func NewLedger(initialCapital float64) *Ledger {
	return &Ledger{capital: initialCapital}
}

func (l *Ledger) Capital() float64 { return l.capital }

func (l *Ledger) OpenCount() int { return len(l.open) }

func (l *Ledger) Trades() []domain.ClosedTrade { return l.trades }

func (l *Ledger) EquityCurve() []domain.EquityPoint { return l.equity }

// Open creates a position sized from the current (compounded) capital:
// capital * position_size% worth of the asset at the bar price. Stop and
// take levels are derived from the config percentages relative to entry,
// inverted for shorts.
func (l *Ledger) Open(side domain.Side, ts time.Time, price float64, cfg *domain.StrategyConfig) {
	pos := domain.Position{
		EntryPrice: price,
		EntryTime:  ts,
		Size:       l.capital * cfg.PositionSizePct / 100 / price,
		Side:       side,
	}

	if side == domain.SideLong {
		if cfg.StopLossPct > 0 {
			pos.StopLoss = price * (1 - cfg.StopLossPct/100)
		}
		if cfg.TakeProfitPct > 0 {
			pos.TakeProfit = price * (1 + cfg.TakeProfitPct/100)
		}
	} else {
		if cfg.StopLossPct > 0 {
			pos.StopLoss = price * (1 + cfg.StopLossPct/100)
		}
		if cfg.TakeProfitPct > 0 {
			pos.TakeProfit = price * (1 - cfg.TakeProfitPct/100)
		}
	}

	l.open = append(l.open, pos)
}

// EvaluateExits closes every open position whose exit condition the current
// bar triggers. Precedence per position: stop-loss, then take-profit, then
// the strategy exit hook. A bar that hits several conditions at once records
// only the highest-precedence reason.
func (l *Ledger) EvaluateExits(ts time.Time, price float64, strat Strategy, window []domain.Bar) {
	remaining := l.open[:0]
	for i := range l.open {
		pos := l.open[i]
		if reason, hit := exitReason(&pos, price, strat, window); hit {
			l.close(&pos, ts, price, reason)
		} else {
			remaining = append(remaining, pos)
		}
	}
	l.open = remaining
}

func exitReason(pos *domain.Position, price float64, strat Strategy, window []domain.Bar) (domain.ExitReason, bool) {
	if pos.Side == domain.SideLong {
		switch {
		case pos.StopLoss > 0 && price <= pos.StopLoss:
			return domain.ExitStopLoss, true
		case pos.TakeProfit > 0 && price >= pos.TakeProfit:
			return domain.ExitTakeProfit, true
		}
	} else {
		switch {
		case pos.StopLoss > 0 && price >= pos.StopLoss:
			return domain.ExitStopLoss, true
		case pos.TakeProfit > 0 && price <= pos.TakeProfit:
			return domain.ExitTakeProfit, true
		}
	}
	if strat != nil && strat.ShouldExit(window, pos) {
		return domain.ExitStrategy, true
	}
	return "", false
}

// CloseAll liquidates every remaining position at the given price, used for
// the forced end-of-series close.
func (l *Ledger) CloseAll(ts time.Time, price float64) {
	for i := range l.open {
		l.close(&l.open[i], ts, price, domain.ExitEndOfSeries)
	}
	l.open = nil
}

func (l *Ledger) close(pos *domain.Position, ts time.Time, price float64, reason domain.ExitReason) {
	var returnPct float64
	if pos.Side == domain.SideLong {
		returnPct = (price - pos.EntryPrice) / pos.EntryPrice
	} else {
		returnPct = (pos.EntryPrice - price) / pos.EntryPrice
	}

	pnl := pos.Size * pos.EntryPrice * returnPct
	l.capital += pnl

	l.trades = append(l.trades, domain.ClosedTrade{
		EntryTime:  pos.EntryTime,
		ExitTime:   ts,
		EntryPrice: pos.EntryPrice,
		ExitPrice:  price,
		Side:       pos.Side,
		Size:       pos.Size,
		ReturnPct:  returnPct,
		PnL:        pnl,
		StopLoss:   pos.StopLoss,
		TakeProfit: pos.TakeProfit,
		ExitReason: reason,
	})
}

// MarkEquity appends one equity point: cash plus the unrealized P&L of every
// open position at the bar price.
func (l *Ledger) MarkEquity(ts time.Time, price float64) {
	l.equity = append(l.equity, domain.EquityPoint{Timestamp: ts, Equity: l.EquityAt(price)})
}

func (l *Ledger) EquityAt(price float64) float64 {
	equity := l.capital
	for _, pos := range l.open {
		if pos.Side == domain.SideLong {
			equity += pos.Size * (price - pos.EntryPrice)
		} else {
			equity += pos.Size * (pos.EntryPrice - price)
		}
	}
	return equity
}
