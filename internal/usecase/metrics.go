package usecase

import (
	"math"

	"github.com/vitos/crypto_backtest/internal/domain"
)

const (
	tradingDaysPerYear = 252
	annualRiskFreeRate = 0.02
)

// CalculateMetrics derives the performance statistics from a closed-trade
// log and its equity curve. A run with no trades has no metrics: the result
// is nil, not an error.
func CalculateMetrics(trades []domain.ClosedTrade, equity []domain.EquityPoint) map[string]float64 {
	if len(trades) == 0 {
		return nil
	}

	returns := make([]float64, len(trades))
	winning, losing := 0, 0
	for i, t := range trades {
		returns[i] = t.ReturnPct
		if t.ReturnPct > 0 {
			winning++
		} else if t.ReturnPct < 0 {
			losing++
		}
	}

	avgReturn := mean(returns)
	maxDD := maxDrawdown(equity)

	riskAdjusted := 0.0
	if maxDD != 0 {
		riskAdjusted = avgReturn / maxDD
	}

	return map[string]float64{
		"total_trades":           float64(len(trades)),
		"winning_trades":         float64(winning),
		"losing_trades":          float64(losing),
		"win_rate":               float64(winning) / float64(len(trades)),
		"avg_return":             avgReturn,
		"max_drawdown":           maxDD,
		"sharpe_ratio":           sharpeRatio(returns),
		"profit_factor":          profitFactor(returns),
		"avg_risk_reward_ratio":  avgRiskReward(trades),
		"max_consecutive_losses": float64(maxConsecutiveLosses(returns)),
		"avg_time_in_trade":      avgTimeInTradeHours(trades),
		"risk_adjusted_return":   riskAdjusted,
	}
}

// maxDrawdown is the deepest percentage decline of equity from its running
// peak, as a positive fraction. Curves shorter than two points have none.
func maxDrawdown(equity []domain.EquityPoint) float64 {
	if len(equity) < 2 {
		return 0
	}

	runningMax := equity[0].Equity
	worst := 0.0
	for _, p := range equity {
		if p.Equity > runningMax {
			runningMax = p.Equity
		}
		dd := p.Equity/runningMax - 1
		if dd < worst {
			worst = dd
		}
	}
	return math.Abs(worst)
}

// sharpeRatio annualizes the mean excess return over its volatility,
// treating each trade return as one daily observation. Fewer than two trades
// or zero variance yield 0.
func sharpeRatio(returns []float64) float64 {
	if len(returns) < 2 {
		return 0
	}

	excess := make([]float64, len(returns))
	for i, r := range returns {
		excess[i] = r - annualRiskFreeRate/tradingDaysPerYear
	}

	sd := stddev(excess)
	if sd == 0 {
		return 0
	}
	return math.Sqrt(tradingDaysPerYear) * mean(excess) / sd
}

// profitFactor is gross winning return over gross losing return; 0 when
// there are no losing trades.
func profitFactor(returns []float64) float64 {
	grossProfit, grossLoss := 0.0, 0.0
	for _, r := range returns {
		if r > 0 {
			grossProfit += r
		} else if r < 0 {
			grossLoss += -r
		}
	}
	if grossLoss == 0 {
		return 0
	}
	return grossProfit / grossLoss
}

// avgRiskReward averages |take - entry| / |entry - stop| over the trades
// that carried both levels.
func avgRiskReward(trades []domain.ClosedTrade) float64 {
	sum, n := 0.0, 0
	for _, t := range trades {
		if t.StopLoss == 0 || t.TakeProfit == 0 {
			continue
		}
		risk := math.Abs(t.EntryPrice - t.StopLoss)
		if risk == 0 {
			continue
		}
		sum += math.Abs(t.TakeProfit-t.EntryPrice) / risk
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func maxConsecutiveLosses(returns []float64) int {
	longest, run := 0, 0
	for _, r := range returns {
		if r < 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}

func avgTimeInTradeHours(trades []domain.ClosedTrade) float64 {
	sum := 0.0
	for _, t := range trades {
		sum += t.ExitTime.Sub(t.EntryTime).Hours()
	}
	return sum / float64(len(trades))
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation (n-1 denominator).
func stddev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	m := mean(xs)
	sum := 0.0
	for _, x := range xs {
		d := x - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(xs)-1))
}
