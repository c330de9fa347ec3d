package indicator

import (
	"math"
	"testing"
)

func rising(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func constant(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

func offset(xs []float64, d float64) []float64 {
	out := make([]float64, len(xs))
	for i, v := range xs {
		out[i] = v + d
	}
	return out
}

func approx(a, b, eps float64) bool { return math.Abs(a-b) <= eps }

func TestEMAConstantSeries(t *testing.T) {
	out := EMA(constant(40, 10), 9)
	if len(out) != 40 {
		t.Fatalf("len=%d", len(out))
	}
	for i := 0; i < 8; i++ {
		if !math.IsNaN(out[i]) {
			t.Fatalf("expected NaN at %d, got %v", i, out[i])
		}
	}
	v, ok := Last(out)
	if !ok || !approx(v, 10, 1e-9) {
		t.Fatalf("expected 10, got %v ok=%v", v, ok)
	}
}

func TestSMA(t *testing.T) {
	out := SMA(rising(10, 1, 1), 4)
	v, ok := Last(out)
	if !ok || !approx(v, 8.5, 1e-9) {
		t.Fatalf("expected 8.5, got %v", v)
	}
	if !math.IsNaN(out[2]) {
		t.Fatalf("expected NaN inside lookback, got %v", out[2])
	}
}

func TestRSIExtremes(t *testing.T) {
	up, ok := Last(RSI(rising(60, 100, 1), 14))
	if !ok || !approx(up, 100, 1e-6) {
		t.Fatalf("rising RSI=%v ok=%v", up, ok)
	}
	down, ok := Last(RSI(rising(60, 200, -1), 14))
	if !ok || !approx(down, 0, 1e-6) {
		t.Fatalf("falling RSI=%v ok=%v", down, ok)
	}
}

func TestRSIFlatIsNoOpinion(t *testing.T) {
	if _, ok := Last(RSI(constant(60, 5), 14)); ok {
		t.Fatalf("flat series must not produce RSI")
	}
}

func TestShortHistoryIsNaN(t *testing.T) {
	short := rising(5, 1, 1)
	cases := map[string][]float64{
		"ema": EMA(short, 9),
		"rsi": RSI(short, 14),
		"atr": ATR(offset(short, 1), offset(short, -1), short, 14),
	}
	line, sig, _ := MACD(short, 12, 26, 9)
	cases["macd"] = line
	cases["macd_signal"] = sig
	k, d := Stochastic(short, short, short, 14, 3, 3)
	cases["stoch_k"] = k
	cases["stoch_d"] = d
	adx, _, _ := ADX(short, short, short, 14)
	cases["adx"] = adx

	for name, xs := range cases {
		if len(xs) != len(short) {
			t.Fatalf("%s: len=%d", name, len(xs))
		}
		if _, ok := Last(xs); ok {
			t.Fatalf("%s: expected no value on short history", name)
		}
	}
}

func TestMACDConstantSeries(t *testing.T) {
	line, sig, hist := MACD(constant(80, 42), 12, 26, 9)
	for _, xs := range [][]float64{line, sig, hist} {
		v, ok := Last(xs)
		if !ok || !approx(v, 0, 1e-9) {
			t.Fatalf("expected 0, got %v ok=%v", v, ok)
		}
		if !math.IsNaN(xs[0]) {
			t.Fatalf("expected NaN at the head")
		}
	}
}

func TestATRConstantRange(t *testing.T) {
	c := constant(50, 100)
	v, ok := Last(ATR(offset(c, 1), offset(c, -1), c, 14))
	if !ok || !approx(v, 2, 1e-9) {
		t.Fatalf("ATR=%v ok=%v", v, ok)
	}
}

func TestStochasticAtHigh(t *testing.T) {
	c := rising(60, 100, 1)
	k, d := Stochastic(c, offset(c, -1), c, 14, 3, 3)
	kv, ok := Last(k)
	if !ok || !approx(kv, 100, 1e-6) {
		t.Fatalf("%%K=%v ok=%v", kv, ok)
	}
	if dv, ok := Last(d); !ok || dv < StochOverbought {
		t.Fatalf("%%D=%v ok=%v", dv, ok)
	}
}

func TestADXStrongUptrend(t *testing.T) {
	c := rising(80, 100, 1)
	adx, plus, minus := ADX(offset(c, 0.5), offset(c, -0.5), c, 14)
	a, ok := Last(adx)
	if !ok || a <= ADXStrongTrend {
		t.Fatalf("ADX=%v ok=%v", a, ok)
	}
	p, _ := Last(plus)
	m, _ := Last(minus)
	if p <= m {
		t.Fatalf("+DI=%v must exceed -DI=%v", p, m)
	}
}

func TestCrossover(t *testing.T) {
	cases := []struct {
		name string
		a, b []float64
		want Cross
	}{
		{"up", []float64{1, 3}, []float64{2, 2}, CrossUp},
		{"down", []float64{3, 1}, []float64{2, 2}, CrossDown},
		{"touch then up", []float64{2, 3}, []float64{2, 2}, CrossUp},
		{"stays above", []float64{3, 4}, []float64{2, 2}, CrossNone},
		{"nan", []float64{math.NaN(), 4}, []float64{2, 2}, CrossNone},
		{"too short", []float64{4}, []float64{2}, CrossNone},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Crossover(tc.a, tc.b); got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestTrend(t *testing.T) {
	if Trend([]float64{2}, []float64{1}) != Up {
		t.Fatal("expected Up")
	}
	if Trend([]float64{1}, []float64{2}) != Down {
		t.Fatal("expected Down")
	}
	if Trend([]float64{math.NaN()}, []float64{2}) != Flat {
		t.Fatal("expected Flat on NaN")
	}
}
