// Package indicators provides rolling technical indicators over a price
// slice. Every function is pure: the output is aligned index-for-index with
// the input and warm-up positions are NaN, so comparisons against them are
// always false.
package indicators

import "math"

// SMA returns the simple moving average over the given period.
func SMA(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	if period <= 0 || len(prices) < period {
		return out
	}

	var sum float64
	for i, p := range prices {
		sum += p
		if i >= period {
			sum -= prices[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average with span-style smoothing
// (alpha = 2/(span+1)), seeded with the first price.
func EMA(prices []float64, span int) []float64 {
	out := nanSlice(len(prices))
	if span <= 0 || len(prices) == 0 {
		return out
	}

	alpha := 2.0 / float64(span+1)
	out[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		out[i] = alpha*prices[i] + (1-alpha)*out[i-1]
	}
	return out
}

// RSI returns the relative strength index using simple moving averages of
// gains and losses. When the average loss over the window is zero the index
// saturates at 100; a fully flat window yields NaN.
func RSI(prices []float64, period int) []float64 {
	out := nanSlice(len(prices))
	if period <= 0 || len(prices) <= period {
		return out
	}

	gains := make([]float64, len(prices))
	losses := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		delta := prices[i] - prices[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(prices); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i >= period {
			avgGain := gainSum / float64(period)
			avgLoss := lossSum / float64(period)
			switch {
			case avgLoss > 0:
				rs := avgGain / avgLoss
				out[i] = 100 - 100/(1+rs)
			case avgGain > 0:
				out[i] = 100
			}
		}
	}
	return out
}

// MACD returns the MACD line (EMA12 - EMA26) and its 9-period signal line.
func MACD(prices []float64) (macd, signal []float64) {
	fast := EMA(prices, 12)
	slow := EMA(prices, 26)
	macd = make([]float64, len(prices))
	for i := range prices {
		macd[i] = fast[i] - slow[i]
	}
	signal = EMA(macd, 9)
	return macd, signal
}

// RollingMax returns the maximum over a trailing window ending at each index.
func RollingMax(prices []float64, window int) []float64 {
	return rolling(prices, window, func(a, b float64) bool { return a > b })
}

// RollingMin returns the minimum over a trailing window ending at each index.
func RollingMin(prices []float64, window int) []float64 {
	return rolling(prices, window, func(a, b float64) bool { return a < b })
}

func rolling(prices []float64, window int, better func(a, b float64) bool) []float64 {
	out := nanSlice(len(prices))
	if window <= 0 || len(prices) < window {
		return out
	}

	for i := window - 1; i < len(prices); i++ {
		best := prices[i-window+1]
		for _, p := range prices[i-window+2 : i+1] {
			if better(p, best) {
				best = p
			}
		}
		out[i] = best
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
