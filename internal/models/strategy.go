package models

import "math"

type StrategyVariant string

const (
	VariantMultiIndicator StrategyVariant = "multi_indicator"
	VariantMomentum       StrategyVariant = "momentum"
	VariantScalping       StrategyVariant = "scalping"
)

// StrategyDescriptor — параметры стратегии. Нулевые поля заменяются дефолтами варианта.
type StrategyDescriptor struct {
	Name           string          `mapstructure:"name" json:"name"`
	Variant        StrategyVariant `mapstructure:"variant" json:"variant"`
	MinConfidence  float64         `mapstructure:"min_confidence" json:"min_confidence"`
	StopMultiplier float64         `mapstructure:"stop_multiplier" json:"stop_multiplier"`
	TakeMultiplier float64         `mapstructure:"take_multiplier" json:"take_multiplier"`

	// если ATR посчитать нельзя — стоп/тейк в процентах от цены, 2.0 => 2%
	FallbackStopPct float64 `mapstructure:"fallback_stop_pct" json:"fallback_stop_pct"`
	FallbackTakePct float64 `mapstructure:"fallback_take_pct" json:"fallback_take_pct"`
}

// Merge накладывает ненулевые поля o поверх d.
func (d StrategyDescriptor) Merge(o StrategyDescriptor) StrategyDescriptor {
	if o.Name != "" {
		d.Name = o.Name
	}
	if o.Variant != "" {
		d.Variant = o.Variant
	}
	if usable(o.MinConfidence) {
		d.MinConfidence = o.MinConfidence
	}
	if usable(o.StopMultiplier) {
		d.StopMultiplier = o.StopMultiplier
	}
	if usable(o.TakeMultiplier) {
		d.TakeMultiplier = o.TakeMultiplier
	}
	if usable(o.FallbackStopPct) {
		d.FallbackStopPct = o.FallbackStopPct
	}
	if usable(o.FallbackTakePct) {
		d.FallbackTakePct = o.FallbackTakePct
	}
	return d
}

// usable — NaN, ±Inf и неположительные оверрайды игнорируются.
func usable(x float64) bool { return x > 0 && !math.IsInf(x, 1) }

// Assignment — какая стратегия и с какими оверрайдами считается для символа.
type Assignment struct {
	Symbol   string             `mapstructure:"symbol"`
	Strategy string             `mapstructure:"strategy"`
	Params   StrategyDescriptor `mapstructure:",squash"`
}
