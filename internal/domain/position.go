package domain

import "time"

type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

type ExitReason string

const (
	ExitStopLoss    ExitReason = "stop_loss"
	ExitTakeProfit  ExitReason = "take_profit"
	ExitStrategy    ExitReason = "strategy"
	ExitEndOfSeries ExitReason = "end_of_series"
)

// Position is one open trade. Size is in asset units. StopLoss and
// TakeProfit are absolute price levels derived from the config percentages
// at entry; zero means the level is not set.
type Position struct {
	EntryPrice float64   `json:"entry_price"`
	EntryTime  time.Time `json:"entry_time"`
	Size       float64   `json:"size"`
	Side       Side      `json:"side"`
	StopLoss   float64   `json:"stop_loss,omitempty"`
	TakeProfit float64   `json:"take_profit,omitempty"`
}

// ClosedTrade is one entry in the append-only trade log. ReturnPct is signed
// and direction-adjusted: positive when the trade made money regardless of
// side. Immutable once recorded.
type ClosedTrade struct {
	EntryTime  time.Time  `json:"entry_time"`
	ExitTime   time.Time  `json:"exit_time"`
	EntryPrice float64    `json:"entry_price"`
	ExitPrice  float64    `json:"exit_price"`
	Side       Side       `json:"side"`
	Size       float64    `json:"size"`
	ReturnPct  float64    `json:"return_pct"`
	PnL        float64    `json:"pnl"`
	StopLoss   float64    `json:"stop_loss,omitempty"`
	TakeProfit float64    `json:"take_profit,omitempty"`
	ExitReason ExitReason `json:"exit_reason"`
}
