package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/vitos/crypto_backtest/internal/domain"
	"github.com/vitos/crypto_backtest/internal/infrastructure/exchange"
	"github.com/vitos/crypto_backtest/internal/infrastructure/logger"
	"github.com/vitos/crypto_backtest/internal/infrastructure/storage"
	"github.com/vitos/crypto_backtest/internal/usecase"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Exchange struct {
		RESTEndpoint string `yaml:"rest_endpoint"`
		WSEndpoint   string `yaml:"ws_endpoint"`
	} `yaml:"exchange"`
	Storage struct {
		Path string `yaml:"path"`
	} `yaml:"storage"`
	Logging struct {
		Level string `yaml:"level"`
	} `yaml:"logging"`
	Backtest struct {
		Symbol         string                `yaml:"symbol"`
		Interval       string                `yaml:"interval"`
		Limit          int                   `yaml:"limit"`
		InitialCapital float64               `yaml:"initial_capital"`
		Strategy       domain.StrategyConfig `yaml:"strategy"`
	} `yaml:"backtest"`
}

func loadConfig(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func main() {
	path := "config/config.yaml"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	cfg, err := loadConfig(path)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(cfg.Logging.Level)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	dbPath := cfg.Storage.Path
	if dbPath == "" {
		dbPath = "candles.db"
	}
	store, err := storage.NewSQLiteStore(dbPath)
	if err != nil {
		log.Fatal("Failed to init sqlite", zap.Error(err))
	}
	defer store.Close()

	adapter := exchange.NewBybitAdapter(cfg.Exchange.RESTEndpoint, cfg.Exchange.WSEndpoint)
	history := usecase.NewHistoryService(adapter, store, log)

	ctx := context.Background()
	series, err := history.GetSeries(ctx, cfg.Backtest.Symbol, cfg.Backtest.Interval, cfg.Backtest.Limit)
	if err != nil {
		log.Fatal("Failed to fetch series", zap.Error(err))
	}

	bt := usecase.NewBacktester(cfg.Backtest.InitialCapital, log)
	result, err := bt.Run(series, cfg.Backtest.Strategy)
	if err != nil {
		log.Fatal("Backtest failed", zap.Error(err))
	}

	printReport(cfg.Backtest.Symbol, result)
}

func printReport(symbol string, result *domain.BacktestResult) {
	fmt.Printf("\n=== Backtest Report: %s ===\n", symbol)
	fmt.Printf("Closed trades: %d\n", len(result.Trades))
	for _, t := range result.Trades {
		fmt.Printf("  %-5s entry %.2f @ %s -> exit %.2f @ %s  return %+.2f%%  pnl %+.2f  (%s)\n",
			t.Side,
			t.EntryPrice, t.EntryTime.Format("2006-01-02 15:04"),
			t.ExitPrice, t.ExitTime.Format("2006-01-02 15:04"),
			t.ReturnPct*100, t.PnL, t.ExitReason)
	}

	if result.Metrics == nil {
		fmt.Println("No trades, no metrics.")
		return
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("Metrics:")
	for _, name := range names {
		fmt.Printf("  %-24s %.4f\n", name, result.Metrics[name])
	}
}
