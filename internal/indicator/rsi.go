package indicator

import (
	"math"

	talib "github.com/markcheno/go-talib"
)

// RSI по Уайлдеру. Если за последние period баров цена не двигалась — NaN:
// talib в этом случае отдаёт 0, а это читалось бы как "перепродан".
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	if period < 2 || !enough(n, period) {
		return nanSeries(n)
	}
	out := mask(talib.Rsi(closes, period), period)
	if flat(closes[n-period-1:]) {
		out[n-1] = math.NaN()
	}
	return out
}

func flat(xs []float64) bool {
	for _, v := range xs[1:] {
		if v != xs[0] {
			return false
		}
	}
	return true
}
