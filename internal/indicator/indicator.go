// Package indicator — чистые функции индикаторов поверх окна свечей.
//
// Все функции возвращают серию той же длины, что и вход. Позиции, для которых
// не хватает истории, заполнены NaN: для вызывающего это "нет мнения".
package indicator

import "math"

// Cross — пересечение двух линий на последних двух барах.
type Cross int

const (
	CrossNone Cross = iota
	CrossUp
	CrossDown
)

func (c Cross) String() string {
	switch c {
	case CrossUp:
		return "up"
	case CrossDown:
		return "down"
	}
	return "none"
}

// Direction — кто выше: fast или slow.
type Direction int

const (
	Flat Direction = iota
	Up
	Down
)

// Last — последнее значение серии. ok=false на пустой серии и NaN.
func Last(xs []float64) (float64, bool) {
	return At(xs, len(xs)-1)
}

// Prev — предпоследнее значение.
func Prev(xs []float64) (float64, bool) {
	return At(xs, len(xs)-2)
}

func At(xs []float64, i int) (float64, bool) {
	if i < 0 || i >= len(xs) {
		return math.NaN(), false
	}
	v := xs[i]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v, false
	}
	return v, true
}

// Crossover сравнивает порядок a и b на двух последних барах.
func Crossover(a, b []float64) Cross {
	a0, ok1 := Prev(a)
	a1, ok2 := Last(a)
	b0, ok3 := Prev(b)
	b1, ok4 := Last(b)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return CrossNone
	}
	switch {
	case a0 <= b0 && a1 > b1:
		return CrossUp
	case a0 >= b0 && a1 < b1:
		return CrossDown
	}
	return CrossNone
}

// Trend — направление по последнему бару: fast выше slow => Up.
func Trend(fast, slow []float64) Direction {
	f, ok1 := Last(fast)
	s, ok2 := Last(slow)
	if !ok1 || !ok2 {
		return Flat
	}
	switch {
	case f > s:
		return Up
	case f < s:
		return Down
	}
	return Flat
}

func nanSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// mask затирает первые lookback значений: talib кладёт туда нули.
func mask(xs []float64, lookback int) []float64 {
	if lookback > len(xs) {
		lookback = len(xs)
	}
	for i := 0; i < lookback; i++ {
		xs[i] = math.NaN()
	}
	return xs
}

func enough(n, lookback int) bool { return lookback >= 0 && n > lookback }
