package indicator

import talib "github.com/markcheno/go-talib"

// ATR — средний истинный диапазон. Нужен только для риска.
func ATR(highs, lows, closes []float64, period int) []float64 {
	n := len(closes)
	if period < 1 || len(highs) != n || len(lows) != n || !enough(n, period) {
		return nanSeries(n)
	}
	return mask(talib.Atr(highs, lows, closes, period), period)
}
