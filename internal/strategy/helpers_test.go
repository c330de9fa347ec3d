package strategy

import (
	"math"
	"math/rand"
	"time"

	"signal_bot/internal/models"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// windowFrom строит окно: high/low = close ± spread, open = предыдущий close.
func windowFrom(closes []float64, spread float64) models.CandleWindow {
	candles := make([]models.Candle, len(closes))
	for i, c := range closes {
		open := c
		if i > 0 {
			open = closes[i-1]
		}
		candles[i] = models.Candle{
			Start:  t0.Add(time.Duration(i) * time.Minute),
			Open:   open,
			High:   math.Max(open, c) + spread,
			Low:    math.Min(open, c) - spread,
			Close:  c,
			Volume: 1000,
		}
	}
	return models.NewCandleWindow(candles)
}

func linear(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

func geometric(n int, start, ratio float64) []float64 {
	out := make([]float64, n)
	v := start
	for i := range out {
		out[i] = v
		v *= ratio
	}
	return out
}

func randomWalk(seed int64, n int) []float64 {
	rnd := rand.New(rand.NewSource(seed))
	out := make([]float64, n)
	v := 100.0
	for i := range out {
		v *= 1 + (rnd.Float64()-0.5)*0.02
		out[i] = v
	}
	return out
}

func fixedRule(name string, side models.Action) Rule {
	return Rule{Name: name, Eval: func(*Snapshot) Vote { return Vote{Side: side, Note: name} }}
}

func repeatRules(prefix string, side models.Action, n int) []Rule {
	out := make([]Rule, n)
	for i := range out {
		out[i] = fixedRule(prefix+string(rune('a'+i)), side)
	}
	return out
}
