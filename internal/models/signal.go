package models

import (
	"fmt"
	"time"
)

// Action — что делать с позицией.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionWait Action = "WAIT"
)

// Signal — результат одной оценки. После создания не меняется.
type Signal struct {
	Symbol          string             `json:"symbol" yaml:"symbol"`
	Strategy        string             `json:"strategy" yaml:"strategy"`
	Action          Action             `json:"action" yaml:"action"`
	Confidence      float64            `json:"confidence" yaml:"confidence"`
	Price           float64            `json:"price" yaml:"price"`
	StopLoss        *float64           `json:"stop_loss,omitempty" yaml:"stop_loss,omitempty"`
	TakeProfit      *float64           `json:"take_profit,omitempty" yaml:"take_profit,omitempty"`
	Reason          string             `json:"reason" yaml:"reason"`
	RiskRewardRatio float64            `json:"risk_reward_ratio" yaml:"risk_reward_ratio"`
	Indicators      map[string]float64 `json:"indicators,omitempty" yaml:"indicators,omitempty"`
	CreatedAt       time.Time          `json:"created_at" yaml:"created_at"`
}

// NewWaitSignal — WAIT без стопов и с нулевым RR.
func NewWaitSignal(symbol, strategy string, price float64, reason string) Signal {
	return Signal{
		Symbol:    symbol,
		Strategy:  strategy,
		Action:    ActionWait,
		Price:     price,
		Reason:    reason,
		CreatedAt: time.Now().UTC(),
	}
}

func (s Signal) IsEntry() bool { return s.Action == ActionBuy || s.Action == ActionSell }

// Validate проверяет инварианты сигнала.
func (s Signal) Validate(minConfidence float64) error {
	if s.Confidence < 0 || s.Confidence > 1 {
		return fmt.Errorf("confidence %.4f out of [0,1]", s.Confidence)
	}
	if s.RiskRewardRatio < 0 {
		return fmt.Errorf("negative risk/reward %.4f", s.RiskRewardRatio)
	}
	switch s.Action {
	case ActionWait:
		if s.StopLoss != nil || s.TakeProfit != nil || s.RiskRewardRatio != 0 {
			return fmt.Errorf("WAIT must not carry stop/take/rr")
		}
		return nil
	case ActionBuy, ActionSell:
	default:
		return fmt.Errorf("unknown action %q", s.Action)
	}

	if s.Confidence < minConfidence {
		return fmt.Errorf("%s with confidence %.4f below %.4f", s.Action, s.Confidence, minConfidence)
	}
	if s.StopLoss == nil || s.TakeProfit == nil {
		return fmt.Errorf("%s without stop/take", s.Action)
	}
	if s.Price <= 0 {
		return fmt.Errorf("%s with non-positive price %.8f", s.Action, s.Price)
	}
	sl, tp := *s.StopLoss, *s.TakeProfit
	if s.Action == ActionBuy && !(sl < s.Price && s.Price < tp) {
		return fmt.Errorf("BUY levels out of order: sl=%.8f price=%.8f tp=%.8f", sl, s.Price, tp)
	}
	if s.Action == ActionSell && !(tp < s.Price && s.Price < sl) {
		return fmt.Errorf("SELL levels out of order: tp=%.8f price=%.8f sl=%.8f", tp, s.Price, sl)
	}
	return nil
}
