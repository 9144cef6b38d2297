package domain

import "time"

// EquityPoint is one sample of total account value: cash capital plus the
// unrealized P&L of every open position at that bar's price.
type EquityPoint struct {
	Timestamp time.Time `json:"timestamp"`
	Equity    float64   `json:"equity"`
}

// BacktestResult is the complete payload of one run. Metrics is nil when the
// run produced no closed trades.
type BacktestResult struct {
	Trades      []ClosedTrade      `json:"trades"`
	EquityCurve []EquityPoint      `json:"equity_curve"`
	Metrics     map[string]float64 `json:"metrics"`
}

// FinalCapital returns the cash capital implied by the trade log: the sum of
// realized P&L on top of the starting capital.
func (r *BacktestResult) FinalCapital(initial float64) float64 {
	capital := initial
	for _, t := range r.Trades {
		capital += t.PnL
	}
	return capital
}
