package strategy

import (
	"math"
	"testing"

	"github.com/pkg/errors"

	"signal_bot/internal/models"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestLevelsSell(t *testing.T) {
	lv, err := Levels(3502.5, models.ActionSell, 75.9, 2, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !near(lv.StopLoss, 3654.3) {
		t.Fatalf("stop_loss=%v", lv.StopLoss)
	}
	if !near(lv.TakeProfit, 3274.8) {
		t.Fatalf("take_profit=%v", lv.TakeProfit)
	}
	want := math.Abs(lv.TakeProfit-3502.5) / math.Abs(3502.5-lv.StopLoss)
	if !near(lv.RiskRewardRatio, want) || !near(lv.RiskRewardRatio, 1.5) {
		t.Fatalf("rr=%v want %v", lv.RiskRewardRatio, want)
	}
}

func TestLevelsBuy(t *testing.T) {
	lv, err := Levels(100, models.ActionBuy, 2, DefaultStopMultiplier, DefaultTakeMultiplier)
	if err != nil {
		t.Fatal(err)
	}
	if !near(lv.StopLoss, 96) || !near(lv.TakeProfit, 106) || !near(lv.RiskRewardRatio, 1.5) {
		t.Fatalf("unexpected levels %+v", lv)
	}
}

func TestLevelsInvalid(t *testing.T) {
	cases := []struct {
		name              string
		entry, atr, s, tk float64
		side              models.Action
	}{
		{"zero atr", 100, 0, 2, 3, models.ActionBuy},
		{"negative atr", 100, -1, 2, 3, models.ActionBuy},
		{"zero stop multiplier", 100, 1, 0, 3, models.ActionBuy},
		{"zero entry", 0, 1, 2, 3, models.ActionSell},
		{"wait side", 100, 1, 2, 3, models.ActionWait},
		{"stop below zero", 1, 1, 2, 3, models.ActionBuy},
		{"nan stop multiplier", 100, 2, math.NaN(), 3, models.ActionBuy},
		{"inf take multiplier", 100, 2, 2, math.Inf(1), models.ActionBuy},
		{"inf atr", 100, math.Inf(1), 2, 3, models.ActionSell},
		{"nan entry", math.NaN(), 2, 2, 3, models.ActionBuy},
		// 1e8 - 2e-9 в float64 снова 1e8
		{"stop collapses into entry", 1e8, 1e-9, 2, 3, models.ActionBuy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Levels(tc.entry, tc.side, tc.atr, tc.s, tc.tk)
			var target *InvalidRiskParametersError
			if !errors.As(err, &target) {
				t.Fatalf("expected InvalidRiskParametersError, got %v", err)
			}
		})
	}
}

func TestLevelsATRUnavailable(t *testing.T) {
	_, err := Levels(100, models.ActionBuy, math.NaN(), 2, 3)
	if !errors.Is(err, ErrATRUnavailable) {
		t.Fatalf("expected ErrATRUnavailable, got %v", err)
	}
}

func TestPercentLevels(t *testing.T) {
	lv, err := PercentLevels(200, models.ActionSell, 2, 4)
	if err != nil {
		t.Fatal(err)
	}
	if !near(lv.StopLoss, 204) || !near(lv.TakeProfit, 192) || !near(lv.RiskRewardRatio, 2) {
		t.Fatalf("unexpected levels %+v", lv)
	}
	if _, err := PercentLevels(200, models.ActionSell, 0, 4); err == nil {
		t.Fatal("expected error without fallback percentages")
	}
}

func TestPercentLevelsNonFinite(t *testing.T) {
	cases := []struct {
		name             string
		entry, stop, tkp float64
	}{
		{"nan stop", 100, math.NaN(), 4},
		{"inf take", 100, 2, math.Inf(1)},
		{"nan entry", math.NaN(), 2, 4},
		{"inf entry", math.Inf(1), 2, 4},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := PercentLevels(tc.entry, models.ActionBuy, tc.stop, tc.tkp)
			var target *InvalidRiskParametersError
			if !errors.As(err, &target) {
				t.Fatalf("expected InvalidRiskParametersError, got %v", err)
			}
		})
	}
}
