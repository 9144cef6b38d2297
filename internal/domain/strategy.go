package domain

import (
	"errors"
	"fmt"
)

type StrategyType string

const (
	TrendFollowing StrategyType = "trend_following"
	MeanReversion  StrategyType = "mean_reversion"
	Breakout       StrategyType = "breakout"
)

// Default parameter values applied when the config leaves a field at zero.
// They match the original strategy-builder form defaults.
const (
	DefaultLookback   = 20
	DefaultSMAShort   = 20
	DefaultSMALong    = 50
	DefaultRSIPeriod  = 14
	DefaultOversold   = 30.0
	DefaultOverbought = 70.0
)

// StrategyConfig describes one strategy run. Percent fields are expressed in
// whole percent (10 == 10%). StopLossPct and TakeProfitPct are optional; zero
// means the level is not set.
type StrategyConfig struct {
	Type            StrategyType `yaml:"strategy_type" json:"strategy_type"`
	PositionSizePct float64      `yaml:"position_size" json:"position_size"`
	StopLossPct     float64      `yaml:"stop_loss" json:"stop_loss,omitempty"`
	TakeProfitPct   float64      `yaml:"take_profit" json:"take_profit,omitempty"`
	MaxTrades       int          `yaml:"max_trades" json:"max_trades"`
	Lookback        int          `yaml:"lookback" json:"lookback"`

	// Strategy-specific parameters.
	SMAShort   int     `yaml:"sma_short" json:"sma_short,omitempty"`
	SMALong    int     `yaml:"sma_long" json:"sma_long,omitempty"`
	RSIPeriod  int     `yaml:"rsi_period" json:"rsi_period,omitempty"`
	Oversold   float64 `yaml:"oversold" json:"oversold,omitempty"`
	Overbought float64 `yaml:"overbought" json:"overbought,omitempty"`
}

// ApplyDefaults fills zero-valued tunables. It never touches the risk fields:
// an absent stop or take level stays absent.
func (c *StrategyConfig) ApplyDefaults() {
	if c.Lookback == 0 {
		c.Lookback = DefaultLookback
	}
	if c.SMAShort == 0 {
		c.SMAShort = DefaultSMAShort
	}
	if c.SMALong == 0 {
		c.SMALong = DefaultSMALong
	}
	if c.RSIPeriod == 0 {
		c.RSIPeriod = DefaultRSIPeriod
	}
	if c.Oversold == 0 {
		c.Oversold = DefaultOversold
	}
	if c.Overbought == 0 {
		c.Overbought = DefaultOverbought
	}
}

// Validate checks every constraint and reports all violations together, so a
// caller can fix its configuration in one pass.
func (c *StrategyConfig) Validate() error {
	var errs []error

	switch c.Type {
	case TrendFollowing, MeanReversion, Breakout:
	default:
		errs = append(errs, fmt.Errorf("unknown strategy_type %q", c.Type))
	}
	if c.PositionSizePct <= 0 || c.PositionSizePct > 100 {
		errs = append(errs, fmt.Errorf("position_size must be in (0, 100], got %g", c.PositionSizePct))
	}
	if c.StopLossPct != 0 && (c.StopLossPct <= 0 || c.StopLossPct >= 100) {
		errs = append(errs, fmt.Errorf("stop_loss must be in (0, 100), got %g", c.StopLossPct))
	}
	if c.TakeProfitPct != 0 && (c.TakeProfitPct <= 0 || c.TakeProfitPct >= 100) {
		errs = append(errs, fmt.Errorf("take_profit must be in (0, 100), got %g", c.TakeProfitPct))
	}
	if c.StopLossPct > 0 && c.TakeProfitPct > 0 && c.TakeProfitPct <= c.StopLossPct {
		errs = append(errs, fmt.Errorf("take_profit (%g) must exceed stop_loss (%g)", c.TakeProfitPct, c.StopLossPct))
	}
	if c.MaxTrades <= 0 {
		errs = append(errs, fmt.Errorf("max_trades must be positive, got %d", c.MaxTrades))
	}
	if c.Lookback < 0 {
		errs = append(errs, fmt.Errorf("lookback must be at least 1, got %d", c.Lookback))
	}

	return errors.Join(errs...)
}
