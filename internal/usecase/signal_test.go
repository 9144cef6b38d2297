package usecase_test

import (
	"testing"
	"time"

	"github.com/vitos/crypto_backtest/internal/domain"
	"github.com/vitos/crypto_backtest/internal/usecase"
)

func makeSeries(prices ...float64) domain.Series {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := make(domain.Series, len(prices))
	for i, p := range prices {
		series[i] = domain.Bar{
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
			Price:     p,
			Volume:    1000,
		}
	}
	return series
}

func TestNewStrategyUnknownType(t *testing.T) {
	cfg := &domain.StrategyConfig{Type: "momentum"}
	if _, err := usecase.NewStrategy(cfg); err == nil {
		t.Fatal("expected error for unknown strategy type")
	}
}

func TestTrendFollowingSignals(t *testing.T) {
	cfg := &domain.StrategyConfig{
		Type:     domain.TrendFollowing,
		Lookback: 3,
		SMAShort: 2,
		SMALong:  3,
	}
	strat, err := usecase.NewStrategy(cfg)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		prices []float64
		want   usecase.Signal
	}{
		{"upward crossover", []float64{10, 9, 8, 9, 12}, usecase.SignalBuy},
		{"downward crossover", []float64{10, 11, 12, 11, 8}, usecase.SignalSell},
		{"short already above long", []float64{10, 9, 8, 12, 13}, usecase.SignalNone},
		{"initial crossover on first formed bar", []float64{8, 9, 12}, usecase.SignalBuy},
		{"flat market", []float64{10, 10, 10, 10, 10}, usecase.SignalNone},
		{"refuses below lookback", []float64{10, 9}, usecase.SignalNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strat.Evaluate(makeSeries(tt.prices...)); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMeanReversionSignals(t *testing.T) {
	cfg := &domain.StrategyConfig{
		Type:       domain.MeanReversion,
		Lookback:   3,
		RSIPeriod:  2,
		Oversold:   30,
		Overbought: 70,
	}
	strat, err := usecase.NewStrategy(cfg)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		prices []float64
		want   usecase.Signal
	}{
		{"oversold after steady decline", []float64{10, 9, 8, 7}, usecase.SignalBuy},
		{"overbought after steady rise", []float64{7, 8, 9, 10}, usecase.SignalSell},
		{"neutral when gains equal losses", []float64{10, 11, 10, 11}, usecase.SignalNone},
		{"refuses below lookback", []float64{10, 9}, usecase.SignalNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strat.Evaluate(makeSeries(tt.prices...)); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBreakoutSignals(t *testing.T) {
	cfg := &domain.StrategyConfig{
		Type:     domain.Breakout,
		Lookback: 3,
	}
	strat, err := usecase.NewStrategy(cfg)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		prices []float64
		want   usecase.Signal
	}{
		{"breaks prior high", []float64{10, 11, 12, 13}, usecase.SignalBuy},
		{"breaks prior low", []float64{10, 9, 8, 7}, usecase.SignalSell},
		{"inside the channel", []float64{10, 11, 12, 11}, usecase.SignalNone},
		{"needs lookback plus current bar", []float64{10, 11, 12}, usecase.SignalNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := strat.Evaluate(makeSeries(tt.prices...)); got != tt.want {
				t.Errorf("Evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStrategiesArePure(t *testing.T) {
	cfg := &domain.StrategyConfig{
		Type:     domain.Breakout,
		Lookback: 3,
	}
	strat, err := usecase.NewStrategy(cfg)
	if err != nil {
		t.Fatal(err)
	}

	window := makeSeries(10, 11, 12, 13)
	first := strat.Evaluate(window)
	for i := 0; i < 5; i++ {
		if got := strat.Evaluate(window); got != first {
			t.Fatalf("call %d returned %v, first call returned %v", i, got, first)
		}
	}
}

func TestStrategyExitHookIsNoOp(t *testing.T) {
	for _, typ := range []domain.StrategyType{domain.TrendFollowing, domain.MeanReversion, domain.Breakout} {
		cfg := &domain.StrategyConfig{Type: typ, Lookback: 3, SMAShort: 2, SMALong: 3, RSIPeriod: 2, Oversold: 30, Overbought: 70}
		strat, err := usecase.NewStrategy(cfg)
		if err != nil {
			t.Fatal(err)
		}
		pos := &domain.Position{EntryPrice: 100, Side: domain.SideLong, Size: 1}
		if strat.ShouldExit(makeSeries(10, 9, 8, 7), pos) {
			t.Errorf("%s: ShouldExit = true, want false", typ)
		}
	}
}
