package domain

import (
	"fmt"
	"time"
)

// Bar is one timestamped price/volume observation.
type Bar struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
	Volume    float64   `json:"volume"`
}

// Series is an ordered sequence of bars. The backtester requires strictly
// increasing timestamps and positive prices; callers validate before a run.
type Series []Bar

func (s Series) Validate() error {
	for i, bar := range s {
		if bar.Price <= 0 {
			return fmt.Errorf("bar %d: price must be positive, got %f", i, bar.Price)
		}
		if bar.Volume < 0 {
			return fmt.Errorf("bar %d: volume must be non-negative, got %f", i, bar.Volume)
		}
		if i > 0 && !bar.Timestamp.After(s[i-1].Timestamp) {
			return fmt.Errorf("bar %d: timestamp %s not after previous %s",
				i, bar.Timestamp.Format(time.RFC3339), s[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// Candle is a raw OHLCV kline as returned by an exchange. Time is unix
// milliseconds, matching the Bybit V5 wire format.
type Candle struct {
	Time   int64   `json:"time"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

// Bar converts a candle to a backtest bar using the close price.
func (c Candle) Bar() Bar {
	return Bar{
		Timestamp: time.UnixMilli(c.Time).UTC(),
		Price:     c.Close,
		Volume:    c.Volume,
	}
}
