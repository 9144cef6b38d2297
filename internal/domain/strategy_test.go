package domain_test

import (
	"strings"
	"testing"
	"time"

	"github.com/vitos/crypto_backtest/internal/domain"
)

func TestStrategyConfigValidate(t *testing.T) {
	valid := domain.StrategyConfig{
		Type:            domain.TrendFollowing,
		PositionSizePct: 10,
		StopLossPct:     5,
		TakeProfitPct:   15,
		MaxTrades:       3,
		Lookback:        20,
	}

	tests := []struct {
		name    string
		mutate  func(c *domain.StrategyConfig)
		wantErr string
	}{
		{"valid", func(c *domain.StrategyConfig) {}, ""},
		{"valid without levels", func(c *domain.StrategyConfig) { c.StopLossPct = 0; c.TakeProfitPct = 0 }, ""},
		{"unknown type", func(c *domain.StrategyConfig) { c.Type = "arbitrage" }, "strategy_type"},
		{"position size too large", func(c *domain.StrategyConfig) { c.PositionSizePct = 101 }, "position_size"},
		{"position size zero", func(c *domain.StrategyConfig) { c.PositionSizePct = 0 }, "position_size"},
		{"stop loss out of range", func(c *domain.StrategyConfig) { c.StopLossPct = 100; c.TakeProfitPct = 0 }, "stop_loss"},
		{"take profit not above stop", func(c *domain.StrategyConfig) { c.TakeProfitPct = 5 }, "must exceed"},
		{"max trades zero", func(c *domain.StrategyConfig) { c.MaxTrades = 0 }, "max_trades"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Validate() = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateReportsAllViolations(t *testing.T) {
	cfg := domain.StrategyConfig{Type: "arbitrage", PositionSizePct: 0, MaxTrades: -1}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"strategy_type", "position_size", "max_trades"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error missing %q: %v", want, err)
		}
	}
}

func TestApplyDefaultsKeepsRiskFieldsAbsent(t *testing.T) {
	cfg := domain.StrategyConfig{Type: domain.MeanReversion, PositionSizePct: 10, MaxTrades: 1}
	cfg.ApplyDefaults()

	if cfg.Lookback != domain.DefaultLookback || cfg.RSIPeriod != domain.DefaultRSIPeriod {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.StopLossPct != 0 || cfg.TakeProfitPct != 0 {
		t.Errorf("risk fields must stay absent: %+v", cfg)
	}
}

func TestSeriesValidate(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bar := func(offsetHours int, price float64) domain.Bar {
		return domain.Bar{Timestamp: base.Add(time.Duration(offsetHours) * time.Hour), Price: price, Volume: 1}
	}

	tests := []struct {
		name    string
		series  domain.Series
		wantErr bool
	}{
		{"empty", domain.Series{}, false},
		{"ascending", domain.Series{bar(0, 100), bar(1, 101)}, false},
		{"duplicate timestamp", domain.Series{bar(0, 100), bar(0, 101)}, true},
		{"decreasing timestamp", domain.Series{bar(1, 100), bar(0, 101)}, true},
		{"non-positive price", domain.Series{bar(0, 0)}, true},
		{"negative volume", domain.Series{{Timestamp: base, Price: 100, Volume: -1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.series.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
