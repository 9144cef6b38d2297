package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/vitos/crypto_backtest/internal/domain"
)

const (
	BybitBaseURL = "https://api.bybit.com"
	BybitWSURL   = "wss://stream.bybit.com/v5/public/linear"
)

// BybitAdapter retrieves public market data from Bybit V5: klines and
// tickers over REST, live ticker updates over the public websocket stream.
// It is read-only; no trading endpoints are used.
type BybitAdapter struct {
	baseURL   string
	wsURL     string
	client    *http.Client
	wsConn    *websocket.Conn
	wsDone    chan struct{}
	callbacks []func(symbol string, price float64)
	mu        sync.Mutex
}

func NewBybitAdapter(baseURL, wsURL string) *BybitAdapter {
	if baseURL == "" {
		baseURL = BybitBaseURL
	}
	if wsURL == "" {
		wsURL = BybitWSURL
	}
	return &BybitAdapter{
		baseURL: baseURL,
		wsURL:   wsURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		wsDone:  make(chan struct{}),
	}
}

// --- REST API ---

func (b *BybitAdapter) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("bybit returned status %d: %s", resp.StatusCode, string(body))
	}

	return json.Unmarshal(body, out)
}

// GetCandles fetches up to `limit` klines. Bybit returns them newest first;
// the result is reversed into ascending order.
func (b *BybitAdapter) GetCandles(ctx context.Context, symbol, interval string, limit int) ([]domain.Candle, error) {
	path := fmt.Sprintf("/v5/market/kline?category=linear&symbol=%s&interval=%s&limit=%d", symbol, interval, limit)

	var result struct {
		RetCode int    `json:"retCode"`
		RetMsg  string `json:"retMsg"`
		Result  struct {
			List [][]string `json:"list"`
		} `json:"result"`
	}
	if err := b.get(ctx, path, &result); err != nil {
		return nil, err
	}
	if result.RetCode != 0 {
		return nil, fmt.Errorf("bybit kline error %d: %s", result.RetCode, result.RetMsg)
	}

	candles := make([]domain.Candle, 0, len(result.Result.List))
	for i := len(result.Result.List) - 1; i >= 0; i-- {
		// Format: [startTime, open, high, low, close, volume, turnover]
		raw := result.Result.List[i]
		if len(raw) < 6 {
			continue
		}

		ts, _ := strconv.ParseInt(raw[0], 10, 64)
		open, _ := strconv.ParseFloat(raw[1], 64)
		high, _ := strconv.ParseFloat(raw[2], 64)
		low, _ := strconv.ParseFloat(raw[3], 64)
		closePrice, _ := strconv.ParseFloat(raw[4], 64)
		volume, _ := strconv.ParseFloat(raw[5], 64)

		candles = append(candles, domain.Candle{
			Time:   ts,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}
	return candles, nil
}

func (b *BybitAdapter) GetCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	path := fmt.Sprintf("/v5/market/tickers?category=linear&symbol=%s", symbol)

	var result struct {
		RetCode int    `json:"retCode"`
		RetMsg  string `json:"retMsg"`
		Result  struct {
			List []struct {
				LastPrice string `json:"lastPrice"`
			} `json:"list"`
		} `json:"result"`
	}
	if err := b.get(ctx, path, &result); err != nil {
		return 0, err
	}
	if result.RetCode != 0 {
		return 0, fmt.Errorf("bybit ticker error %d: %s", result.RetCode, result.RetMsg)
	}
	if len(result.Result.List) == 0 {
		return 0, fmt.Errorf("no ticker for symbol %s", symbol)
	}

	return strconv.ParseFloat(result.Result.List[0].LastPrice, 64)
}

// --- WebSocket ---

func (b *BybitAdapter) OnPriceUpdate(callback func(symbol string, price float64)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.callbacks = append(b.callbacks, callback)
}

// Subscribe opens the public stream on first use and subscribes to ticker
// topics for the given symbols.
func (b *BybitAdapter) Subscribe(symbols []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.wsConn == nil {
		c, _, err := websocket.DefaultDialer.Dial(b.wsURL, nil)
		if err != nil {
			return fmt.Errorf("failed to dial %s: %w", b.wsURL, err)
		}
		b.wsConn = c
		go b.readLoop(c)
	}

	args := make([]string, 0, len(symbols))
	for _, s := range symbols {
		args = append(args, "tickers."+s)
	}
	return b.wsConn.WriteJSON(map[string]interface{}{
		"op":   "subscribe",
		"args": args,
	})
}

func (b *BybitAdapter) readLoop(c *websocket.Conn) {
	for {
		select {
		case <-b.wsDone:
			return
		default:
		}

		_, msg, err := c.ReadMessage()
		if err != nil {
			log.Printf("bybit ws read error: %v", err)
			return
		}

		var update struct {
			Topic string `json:"topic"`
			Data  struct {
				Symbol    string `json:"symbol"`
				LastPrice string `json:"lastPrice"`
			} `json:"data"`
		}
		if err := json.Unmarshal(msg, &update); err != nil {
			continue
		}
		if update.Data.Symbol == "" || update.Data.LastPrice == "" {
			continue
		}

		price, err := strconv.ParseFloat(update.Data.LastPrice, 64)
		if err != nil {
			continue
		}

		b.mu.Lock()
		callbacks := append([]func(string, float64){}, b.callbacks...)
		b.mu.Unlock()
		for _, cb := range callbacks {
			cb(update.Data.Symbol, price)
		}
	}
}

func (b *BybitAdapter) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	close(b.wsDone)
	if b.wsConn != nil {
		return b.wsConn.Close()
	}
	return nil
}
