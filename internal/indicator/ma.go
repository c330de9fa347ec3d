package indicator

import talib "github.com/markcheno/go-talib"

// EMA — экспоненциальная средняя.
func EMA(closes []float64, period int) []float64 {
	if period < 1 || !enough(len(closes), period-1) {
		return nanSeries(len(closes))
	}
	return mask(talib.Ema(closes, period), period-1)
}

// SMA — простая средняя.
func SMA(xs []float64, period int) []float64 {
	if period < 1 || !enough(len(xs), period-1) {
		return nanSeries(len(xs))
	}
	return mask(talib.Sma(xs, period), period-1)
}
