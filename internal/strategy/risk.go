package strategy

import (
	"math"

	"github.com/shopspring/decimal"

	"signal_bot/internal/models"
)

const (
	DefaultStopMultiplier = 2.0
	DefaultTakeMultiplier = 3.0
)

// RiskLevels — стоп, тейк и RR для входа.
type RiskLevels struct {
	StopLoss        float64
	TakeProfit      float64
	RiskRewardRatio float64
}

// Levels считает стоп/тейк от ATR:
//
//	BUY:  sl = entry - atr*stopMul, tp = entry + atr*takeMul
//	SELL: sl = entry + atr*stopMul, tp = entry - atr*takeMul
//
// NaN в atr означает "ATR нет" и возвращает ErrATRUnavailable.
func Levels(entry float64, side models.Action, atr, stopMul, takeMul float64) (RiskLevels, error) {
	if math.IsNaN(atr) {
		return RiskLevels{}, ErrATRUnavailable
	}
	if math.IsInf(atr, 0) || atr <= 0 {
		return RiskLevels{}, &InvalidRiskParametersError{Cause: "atr must be positive"}
	}
	if !positive(stopMul) || !positive(takeMul) {
		return RiskLevels{}, &InvalidRiskParametersError{Cause: "multipliers must be positive"}
	}
	a := decimal.NewFromFloat(atr)
	return levels(entry, side, a.Mul(decimal.NewFromFloat(stopMul)), a.Mul(decimal.NewFromFloat(takeMul)))
}

// PercentLevels — запасной вариант без ATR, проценты от цены (2.0 => 2%).
func PercentLevels(entry float64, side models.Action, stopPct, takePct float64) (RiskLevels, error) {
	if !positive(stopPct) || !positive(takePct) {
		return RiskLevels{}, &InvalidRiskParametersError{Cause: "fallback percentages must be positive"}
	}
	if !positive(entry) {
		return RiskLevels{}, errEntry
	}
	e := decimal.NewFromFloat(entry)
	hundred := decimal.NewFromInt(100)
	stopDist := e.Mul(decimal.NewFromFloat(stopPct)).Div(hundred)
	takeDist := e.Mul(decimal.NewFromFloat(takePct)).Div(hundred)
	return levels(entry, side, stopDist, takeDist)
}

var errEntry = &InvalidRiskParametersError{Cause: "entry must be positive"}

// positive — конечное число больше нуля.
func positive(x float64) bool { return x > 0 && !math.IsInf(x, 1) }

func levels(entry float64, side models.Action, stopDist, takeDist decimal.Decimal) (RiskLevels, error) {
	if !positive(entry) {
		return RiskLevels{}, errEntry
	}
	e := decimal.NewFromFloat(entry)

	var sl, tp decimal.Decimal
	switch side {
	case models.ActionBuy:
		sl, tp = e.Sub(stopDist), e.Add(takeDist)
	case models.ActionSell:
		sl, tp = e.Add(stopDist), e.Sub(takeDist)
	default:
		return RiskLevels{}, &InvalidRiskParametersError{Cause: "side must be BUY or SELL"}
	}

	risk := e.Sub(sl).Abs()
	if risk.IsZero() {
		return RiskLevels{}, &InvalidRiskParametersError{Cause: "stop loss equals entry"}
	}
	if side == models.ActionBuy && !sl.IsPositive() || side == models.ActionSell && !tp.IsPositive() {
		return RiskLevels{}, &InvalidRiskParametersError{Cause: "levels cross zero"}
	}

	slF, _ := sl.Float64()
	tpF, _ := tp.Float64()
	// в float64 уровень может схлопнуться в цену входа
	if slF == entry || tpF == entry {
		return RiskLevels{}, &InvalidRiskParametersError{Cause: "levels indistinguishable from entry"}
	}
	rr, _ := tp.Sub(e).Abs().Div(risk).Float64()
	return RiskLevels{StopLoss: slF, TakeProfit: tpF, RiskRewardRatio: rr}, nil
}
