package indicator

import talib "github.com/markcheno/go-talib"

// ADXStrongTrend — выше этого ADX считаем тренд сильным.
const ADXStrongTrend = 25.0

// ADX — сила тренда и пара +DI/-DI для направления.
func ADX(highs, lows, closes []float64, period int) (adx, plusDI, minusDI []float64) {
	n := len(closes)
	if period < 2 || len(highs) != n || len(lows) != n || !enough(n, 2*period-1) {
		return nanSeries(n), nanSeries(n), nanSeries(n)
	}
	adx = mask(talib.Adx(highs, lows, closes, period), 2*period-1)
	plusDI = mask(talib.PlusDI(highs, lows, closes, period), period)
	minusDI = mask(talib.MinusDI(highs, lows, closes, period), period)
	return adx, plusDI, minusDI
}
