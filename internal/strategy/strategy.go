package strategy

import (
	"context"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

// Strategy — то, что дёргает BatchEvaluator.
type Strategy interface {
	Name() string
	Descriptor() models.StrategyDescriptor
	// Analyze не делает I/O и не возвращает ошибок: любые проблемы с данными — WAIT.
	Analyze(ctx context.Context, w models.CandleWindow, symbol string) models.Signal
}

// Base — общие куски стратегий: дескриптор, валидация, расчёт риска.
type Base struct {
	desc models.StrategyDescriptor
}

func newBase(d models.StrategyDescriptor) Base { return Base{desc: d} }

func (b Base) Name() string                          { return b.desc.Name }
func (b Base) Descriptor() models.StrategyDescriptor { return b.desc }

func (b Base) span(ctx context.Context, symbol string) (opentracing.Span, context.Context) {
	span, ctx := opentracing.StartSpanFromContext(ctx, "strategy.analyze")
	span.SetTag("strategy", b.desc.Name)
	span.SetTag("symbol", symbol)
	return span, ctx
}

// precheck — WAIT "insufficient data", если окно не годится.
func (b Base) precheck(w models.CandleWindow, symbol string) (models.Signal, bool) {
	if Validate(w) {
		return models.Signal{}, true
	}
	return models.NewWaitSignal(symbol, b.desc.Name, w.LastClose(), ReasonInsufficientData), false
}

// verdict — что насчитала стратегия до расчёта риска.
type verdict struct {
	action     models.Action
	confidence float64
	reason     string
	atr        float64
	indicators map[string]float64
}

// finish применяет порог уверенности и риск. Итоговый сигнал всегда
// удовлетворяет инвариантам models.Signal.Validate.
func (b Base) finish(symbol string, price float64, v verdict) models.Signal {
	sig := models.Signal{
		Symbol:     symbol,
		Strategy:   b.desc.Name,
		Action:     models.ActionWait,
		Confidence: v.confidence,
		Price:      price,
		Reason:     v.reason,
		Indicators: v.indicators,
		CreatedAt:  time.Now().UTC(),
	}
	if v.action != models.ActionBuy && v.action != models.ActionSell {
		return sig
	}
	// порог: действие схлопывается в WAIT, reason остаётся
	if v.confidence < b.desc.MinConfidence {
		return sig
	}

	lv, err := Levels(price, v.action, v.atr, b.desc.StopMultiplier, b.desc.TakeMultiplier)
	if errors.Is(err, ErrATRUnavailable) {
		lv, err = PercentLevels(price, v.action, b.desc.FallbackStopPct, b.desc.FallbackTakePct)
	}
	if err != nil {
		sig.Reason = joinReason(v.reason, err.Error())
		return sig
	}

	sl, tp := lv.StopLoss, lv.TakeProfit
	sig.Action = v.action
	sig.StopLoss = &sl
	sig.TakeProfit = &tp
	sig.RiskRewardRatio = lv.RiskRewardRatio
	return sig
}

func joinReason(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += reasonSep
		}
		out += p
	}
	return out
}

const reasonSep = "; "
