package web

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/vitos/crypto_backtest/internal/domain"
	"github.com/vitos/crypto_backtest/internal/usecase"
	"go.uber.org/zap"
)

// BacktestRequest carries one run. Either Bars is supplied inline, or
// Symbol/Interval/Limit select market data fetched through the history
// service.
type BacktestRequest struct {
	Symbol         string                `json:"symbol,omitempty"`
	Interval       string                `json:"interval,omitempty"`
	Limit          int                   `json:"limit,omitempty"`
	Bars           domain.Series         `json:"bars,omitempty"`
	InitialCapital float64               `json:"initial_capital"`
	Strategy       domain.StrategyConfig `json:"strategy"`
}

type BacktestResponse struct {
	ID     string                 `json:"id"`
	Result *domain.BacktestResult `json:"result"`
}

func (s *Server) handleRunBacktest(w http.ResponseWriter, r *http.Request) {
	var req BacktestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	series := req.Bars
	if len(series) == 0 && req.Symbol != "" {
		if s.history == nil {
			http.Error(w, "No market data source configured", http.StatusServiceUnavailable)
			return
		}
		limit := req.Limit
		if limit == 0 {
			limit = 200
		}
		fetched, err := s.history.GetSeries(r.Context(), req.Symbol, req.Interval, limit)
		if err != nil {
			s.logger.Error("Failed to fetch series", zap.Error(err), zap.String("symbol", req.Symbol))
			http.Error(w, "Failed to fetch series: "+err.Error(), http.StatusBadGateway)
			return
		}
		series = fetched
	}

	if req.InitialCapital == 0 {
		req.InitialCapital = 10000
	}

	bt := usecase.NewBacktester(req.InitialCapital, s.logger)
	result, err := bt.Run(series, req.Strategy)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	id := s.storeRun(result)
	s.logger.Info("Backtest run completed",
		zap.String("id", id.String()),
		zap.Int("trades", len(result.Trades)))

	writeJSON(w, s.logger, BacktestResponse{ID: id.String(), Result: result})
}

func (s *Server) handleGetBacktest(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid run id", http.StatusBadRequest)
		return
	}

	result, ok := s.getRun(id)
	if !ok {
		http.Error(w, "Run not found", http.StatusNotFound)
		return
	}

	writeJSON(w, s.logger, BacktestResponse{ID: id.String(), Result: result})
}

func (s *Server) handleListStrategies(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, []domain.StrategyType{
		domain.TrendFollowing,
		domain.MeanReversion,
		domain.Breakout,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}
