package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/vitos/crypto_backtest/internal/infrastructure/exchange"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Exchange struct {
		RESTEndpoint string `yaml:"rest_endpoint"`
		WSEndpoint   string `yaml:"ws_endpoint"`
	} `yaml:"exchange"`
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
	cfg, err := loadConfig("config/config.yaml")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	symbol := "BTCUSDT"
	if len(os.Args) > 1 {
		symbol = os.Args[1]
	}

	adapter := exchange.NewBybitAdapter(cfg.Exchange.RESTEndpoint, cfg.Exchange.WSEndpoint)
	defer adapter.Close()
	ctx := context.Background()

	fmt.Printf("Testing Bybit market data for %s...\n", symbol)

	price, err := adapter.GetCurrentPrice(ctx, symbol)
	if err != nil {
		fmt.Printf("GetCurrentPrice failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Current price: %.2f\n", price)

	candles, err := adapter.GetCandles(ctx, symbol, "60", 5)
	if err != nil {
		fmt.Printf("GetCandles failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Last %d hourly candles:\n", len(candles))
	for _, c := range candles {
		fmt.Printf("  %s close=%.2f volume=%.2f\n",
			time.UnixMilli(c.Time).UTC().Format(time.RFC3339), c.Close, c.Volume)
	}

	fmt.Println("Streaming ticker updates for 10s...")
	adapter.OnPriceUpdate(func(symbol string, price float64) {
		fmt.Printf("  %s %s -> %.2f\n", time.Now().Format("15:04:05"), symbol, price)
	})
	if err := adapter.Subscribe([]string{symbol}); err != nil {
		fmt.Printf("Subscribe failed: %v\n", err)
		os.Exit(1)
	}
	time.Sleep(10 * time.Second)
}
