package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/vitos/crypto_backtest/internal/domain"
	"go.uber.org/zap"
)

// HistoryService produces validated price series for the backtester. It
// serves from the local candle cache when the cache already holds enough
// bars and falls back to the exchange otherwise, caching what it fetched.
// All retrieval completes before a backtest run starts.
type HistoryService struct {
	exchange domain.MarketData
	repo     domain.CandleRepository
	logger   *zap.Logger
}

func NewHistoryService(exchange domain.MarketData, repo domain.CandleRepository, logger *zap.Logger) *HistoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryService{
		exchange: exchange,
		repo:     repo,
		logger:   logger,
	}
}

// GetSeries returns the most recent `limit` bars for symbol/interval in
// ascending timestamp order.
func (s *HistoryService) GetSeries(ctx context.Context, symbol, interval string, limit int) (domain.Series, error) {
	candles, err := s.load(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}

	sort.Slice(candles, func(i, j int) bool { return candles[i].Time < candles[j].Time })

	series := make(domain.Series, 0, len(candles))
	for i, c := range candles {
		// Exchanges occasionally repeat the in-progress candle; drop dupes.
		if i > 0 && c.Time == candles[i-1].Time {
			continue
		}
		series = append(series, c.Bar())
	}

	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("malformed series for %s %s: %w", symbol, interval, err)
	}
	return series, nil
}

func (s *HistoryService) load(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
	count, err := s.repo.CountCandles(ctx, symbol, interval)
	if err != nil {
		s.logger.Warn("Candle cache unavailable", zap.Error(err))
		count = 0
	}

	if count >= limit {
		candles, err := s.repo.GetCandles(ctx, symbol, interval, limit)
		if err == nil {
			s.logger.Debug("Serving candles from cache",
				zap.String("symbol", symbol), zap.Int("count", len(candles)))
			return candles, nil
		}
		s.logger.Warn("Candle cache read failed, falling back to exchange", zap.Error(err))
	}

	candles, err := s.exchange.GetCandles(ctx, symbol, interval, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch candles for %s %s: %w", symbol, interval, err)
	}

	if err := s.repo.SaveCandles(ctx, symbol, interval, candles); err != nil {
		// Cache write failure is not fatal; the fetched data is still good.
		s.logger.Warn("Failed to cache candles", zap.Error(err))
	}

	return candles, nil
}
