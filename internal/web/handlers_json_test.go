package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitos/crypto_backtest/internal/domain"
	"go.uber.org/zap"
)

func testServer() *Server {
	return NewServer(0, nil, zap.NewNop())
}

func doJSON(t *testing.T, s *Server, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func testBars(prices ...float64) domain.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(domain.Series, len(prices))
	for i, p := range prices {
		series[i] = domain.Bar{Timestamp: base.Add(time.Duration(i) * 24 * time.Hour), Price: p, Volume: 100}
	}
	return series
}

func TestRunBacktestWithInlineBars(t *testing.T) {
	s := testServer()

	prices := make([]float64, 0, 12)
	for i := 0; i < 12; i++ {
		prices = append(prices, 100+float64(i))
	}
	req := BacktestRequest{
		Bars:           testBars(prices...),
		InitialCapital: 10000,
		Strategy: domain.StrategyConfig{
			Type:            domain.Breakout,
			PositionSizePct: 10,
			MaxTrades:       1,
			Lookback:        3,
		},
	}

	rec := doJSON(t, s, http.MethodPost, "/backtests", req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp BacktestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotEmpty(t, resp.ID)
	require.NotNil(t, resp.Result)
	assert.Len(t, resp.Result.EquityCurve, 12)
	assert.NotEmpty(t, resp.Result.Trades)

	// The stored run is retrievable by id.
	rec = doJSON(t, s, http.MethodGet, "/backtests/"+resp.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched BacktestResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&fetched))
	assert.Equal(t, resp.ID, fetched.ID)
	assert.Equal(t, len(resp.Result.Trades), len(fetched.Result.Trades))
}

func TestRunBacktestInvalidConfig(t *testing.T) {
	s := testServer()

	req := BacktestRequest{
		Bars:           testBars(100, 101, 102),
		InitialCapital: 10000,
		Strategy: domain.StrategyConfig{
			Type:            domain.TrendFollowing,
			PositionSizePct: 10,
			MaxTrades:       1,
			StopLossPct:     5,
			TakeProfitPct:   5,
		},
	}

	rec := doJSON(t, s, http.MethodPost, "/backtests", req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "take_profit")
}

func TestGetBacktestNotFound(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodGet, "/backtests/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, s, http.MethodGet, "/backtests/0d1a8a2e-58a6-41c8-b03d-9f1fb8f8c001", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListStrategies(t *testing.T) {
	s := testServer()

	rec := doJSON(t, s, http.MethodGet, "/strategies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var strategies []domain.StrategyType
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&strategies))
	assert.Contains(t, strategies, domain.TrendFollowing)
	assert.Contains(t, strategies, domain.MeanReversion)
	assert.Contains(t, strategies, domain.Breakout)
}
