package strategy

import (
	"context"

	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

const (
	DefaultMinConfidence = 0.6

	rsiOversold   = 30.0
	rsiOverbought = 70.0
	volumeSpike   = 1.5
)

// DefaultRules — порядок важен: по нему собирается reason.
func DefaultRules() []Rule {
	return []Rule{
		MACDCrossRule(),
		MACDPositionRule(),
		EMATrendRule(),
		PriceVsEMARule(),
		ADXRule(indicator.ADXStrongTrend),
		RSIRule(rsiOversold, rsiOverbought),
		StochZoneRule(indicator.StochOversold, indicator.StochOverbought),
		StochCrossRule(),
		VolumeRule(volumeSpike),
	}
}

// MultiIndicator — голосование набора правил, confidence = k/n по проголосовавшим.
type MultiIndicator struct {
	Base
	periods Periods
	rules   []Rule
}

type MultiOption func(*MultiIndicator)

// WithRules подменяет набор и порядок правил.
func WithRules(rules ...Rule) MultiOption {
	return func(m *MultiIndicator) { m.rules = rules }
}

func WithPeriods(p Periods) MultiOption {
	return func(m *MultiIndicator) { m.periods = p }
}

func NewMultiIndicator(d models.StrategyDescriptor, opts ...MultiOption) *MultiIndicator {
	d = models.StrategyDescriptor{
		Name:           "multi_indicator",
		Variant:        models.VariantMultiIndicator,
		MinConfidence:  DefaultMinConfidence,
		StopMultiplier: DefaultStopMultiplier,
		TakeMultiplier: DefaultTakeMultiplier,
	}.Merge(d)

	m := &MultiIndicator{
		Base:    newBase(d),
		periods: DefaultPeriods(),
		rules:   DefaultRules(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

func (m *MultiIndicator) Analyze(ctx context.Context, w models.CandleWindow, symbol string) models.Signal {
	span, _ := m.span(ctx, symbol)
	defer span.Finish()

	if sig, ok := m.precheck(w, symbol); !ok {
		return sig
	}
	snap := NewSnapshot(w, m.periods)
	t := tally(m.rules, snap)
	span.SetTag("buy_votes", t.Buy)
	span.SetTag("sell_votes", t.Sell)

	return m.finish(symbol, snap.Close, verdict{
		action:     t.Action,
		confidence: t.Confidence,
		reason:     t.Reason,
		atr:        snap.LastATR(),
		indicators: snap.Values(),
	})
}
