package indicator

import talib "github.com/markcheno/go-talib"

// MACD — линия, сигнальная линия и гистограмма.
func MACD(closes []float64, fast, slow, signal int) (line, sig, hist []float64) {
	n := len(closes)
	if fast < 1 || slow <= fast || signal < 1 {
		return nanSeries(n), nanSeries(n), nanSeries(n)
	}
	lookback := (slow - 1) + (signal - 1)
	if !enough(n, lookback) {
		return nanSeries(n), nanSeries(n), nanSeries(n)
	}
	line, sig, hist = talib.Macd(closes, fast, slow, signal)
	return mask(line, lookback), mask(sig, lookback), mask(hist, lookback)
}
