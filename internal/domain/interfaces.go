package domain

import "context"

// MarketData defines the interface for retrieving price data from an
// exchange. Retrieval is fully decoupled from the backtester: a run never
// blocks on any of these calls.
type MarketData interface {
	GetCurrentPrice(ctx context.Context, symbol string) (float64, error)
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
	OnPriceUpdate(callback func(symbol string, price float64))
	Subscribe(symbols []string) error
	Close() error
}

// CandleRepository defines storage operations for the local candle cache.
type CandleRepository interface {
	SaveCandles(ctx context.Context, symbol, interval string, candles []Candle) error
	GetCandles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error)
	CountCandles(ctx context.Context, symbol, interval string) (int, error)
}
