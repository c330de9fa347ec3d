package strategy

import (
	"context"

	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

// Скальпинг: только быстрые правила и более жёсткие дефолты.
const (
	scalpMinConfidence  = 0.66
	scalpStopMultiplier = 1.0
	scalpTakeMultiplier = 1.5

	scalpRSIOversold   = 25.0
	scalpRSIOverbought = 75.0
)

func scalpPeriods() Periods {
	return Periods{RSI: 7, StochK: 5, StochSmth: 3, StochD: 3, ATR: 14}
}

func scalpRules() []Rule {
	return []Rule{
		RSIRule(scalpRSIOversold, scalpRSIOverbought),
		StochZoneRule(indicator.StochOversold, indicator.StochOverbought),
		StochCrossRule(),
	}
}

// Scalping — тот же механизм голосования, что у MultiIndicator.
type Scalping struct {
	Base
	periods Periods
	rules   []Rule
}

func NewScalping(d models.StrategyDescriptor) *Scalping {
	d = models.StrategyDescriptor{
		Name:           "scalping",
		Variant:        models.VariantScalping,
		MinConfidence:  scalpMinConfidence,
		StopMultiplier: scalpStopMultiplier,
		TakeMultiplier: scalpTakeMultiplier,
	}.Merge(d)
	return &Scalping{Base: newBase(d), periods: scalpPeriods(), rules: scalpRules()}
}

func (s *Scalping) Analyze(ctx context.Context, w models.CandleWindow, symbol string) models.Signal {
	span, _ := s.span(ctx, symbol)
	defer span.Finish()

	if sig, ok := s.precheck(w, symbol); !ok {
		return sig
	}
	snap := NewSnapshot(w, s.periods)
	t := tally(s.rules, snap)

	return s.finish(symbol, snap.Close, verdict{
		action:     t.Action,
		confidence: t.Confidence,
		reason:     t.Reason,
		atr:        snap.LastATR(),
		indicators: snap.Values(),
	})
}
