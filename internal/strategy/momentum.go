package strategy

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

const (
	momentumShort = 10
	momentumLong  = 30
)

// Momentum — одно правило: скорость (средний лог-доход) на коротком окне
// против длинного. confidence = tanh(|z|), z нормирован волатильностью.
type Momentum struct {
	Base
	short, long int
	atrPeriod   int
}

func NewMomentum(d models.StrategyDescriptor) *Momentum {
	d = models.StrategyDescriptor{
		Name:           "momentum",
		Variant:        models.VariantMomentum,
		MinConfidence:  DefaultMinConfidence,
		StopMultiplier: DefaultStopMultiplier,
		TakeMultiplier: DefaultTakeMultiplier,
	}.Merge(d)
	return &Momentum{Base: newBase(d), short: momentumShort, long: momentumLong, atrPeriod: 14}
}

// MomentumMeasure — скорости и z-оценка. ok=false, если мерить нечего.
type MomentumMeasure struct {
	Short, Long, Sigma, Z float64
}

// Measure считает импульс по последним long+1 закрытиям.
func (m *Momentum) Measure(closes []float64) (MomentumMeasure, bool) {
	if len(closes) < m.long+1 {
		return MomentumMeasure{}, false
	}
	tail := closes[len(closes)-m.long-1:]
	rets := make([]float64, 0, m.long)
	for i := 1; i < len(tail); i++ {
		if tail[i-1] <= 0 || tail[i] <= 0 {
			return MomentumMeasure{}, false
		}
		rets = append(rets, math.Log(tail[i]/tail[i-1]))
	}

	mm := MomentumMeasure{
		Short: stat.Mean(rets[len(rets)-m.short:], nil),
		Long:  stat.Mean(rets, nil),
		Sigma: stat.StdDev(rets, nil),
	}
	diff := mm.Short - mm.Long
	switch {
	case mm.Sigma > 0:
		mm.Z = diff / (mm.Sigma / math.Sqrt(float64(m.short)))
	case diff != 0:
		// нулевая волатильность при ненулевой разнице — максимальная уверенность
		mm.Z = math.Copysign(math.Inf(1), diff)
	}
	return mm, true
}

func (m *Momentum) Analyze(ctx context.Context, w models.CandleWindow, symbol string) models.Signal {
	span, _ := m.span(ctx, symbol)
	defer span.Finish()

	if sig, ok := m.precheck(w, symbol); !ok {
		return sig
	}
	closes := w.Closes()
	price := w.LastClose()
	atr, _ := indicator.Last(indicator.ATR(w.Highs(), w.Lows(), closes, m.atrPeriod))

	v := verdict{action: models.ActionWait, atr: atr, indicators: map[string]float64{"close": price}}
	if !math.IsNaN(atr) {
		v.indicators["atr"] = atr
	}

	mm, ok := m.Measure(closes)
	if !ok {
		v.reason = "momentum not measurable"
		return m.finish(symbol, price, v)
	}
	v.indicators["momentum_short"] = mm.Short
	v.indicators["momentum_long"] = mm.Long
	v.indicators["momentum_sigma"] = mm.Sigma
	if !math.IsInf(mm.Z, 0) {
		v.indicators["momentum_z"] = mm.Z
	}

	switch {
	case mm.Short > mm.Long && mm.Short > 0:
		v.action = models.ActionBuy
		v.reason = fmt.Sprintf("momentum accelerating up (z=%.2f)", mm.Z)
	case mm.Short < mm.Long && mm.Short < 0:
		v.action = models.ActionSell
		v.reason = fmt.Sprintf("momentum accelerating down (z=%.2f)", mm.Z)
	default:
		v.reason = "no momentum"
		return m.finish(symbol, price, v)
	}
	v.confidence = math.Tanh(math.Abs(mm.Z))
	return m.finish(symbol, price, v)
}
