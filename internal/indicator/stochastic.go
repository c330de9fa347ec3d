package indicator

import talib "github.com/markcheno/go-talib"

const (
	StochOversold   = 20.0
	StochOverbought = 80.0
)

// Stochastic — медленные %K и %D (SMA сглаживание).
func Stochastic(highs, lows, closes []float64, kPeriod, kSmooth, dPeriod int) (k, d []float64) {
	n := len(closes)
	if kPeriod < 1 || kSmooth < 1 || dPeriod < 1 || len(highs) != n || len(lows) != n {
		return nanSeries(n), nanSeries(n)
	}
	lookback := (kPeriod - 1) + (kSmooth - 1) + (dPeriod - 1)
	if !enough(n, lookback) {
		return nanSeries(n), nanSeries(n)
	}
	k, d = talib.Stoch(highs, lows, closes, kPeriod, kSmooth, talib.SMA, dPeriod, talib.SMA)
	return mask(k, lookback), mask(d, lookback)
}
