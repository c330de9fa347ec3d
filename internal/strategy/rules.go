package strategy

import (
	"fmt"
	"math"

	"signal_bot/internal/indicator"
	"signal_bot/internal/models"
)

// Vote — голос одного правила. Пустой Side — воздержался.
type Vote struct {
	Side models.Action
	Note string
}

func abstain() Vote { return Vote{} }

func (v Vote) voted() bool { return v.Side == models.ActionBuy || v.Side == models.ActionSell }

// Rule — именованное правило голосования.
type Rule struct {
	Name string
	Eval func(s *Snapshot) Vote
}

// Periods — периоды индикаторов для снапшота.
type Periods struct {
	RSI        int
	MACDFast   int
	MACDSlow   int
	MACDSignal int
	EMAFast    int
	EMASlow    int
	EMALong    int
	ADX        int
	StochK     int
	StochSmth  int
	StochD     int
	ATR        int
	VolumeSMA  int
}

// DefaultPeriods — классические периоды.
func DefaultPeriods() Periods {
	return Periods{
		RSI: 14, MACDFast: 12, MACDSlow: 26, MACDSignal: 9,
		EMAFast: 9, EMASlow: 21, EMALong: 50,
		ADX: 14, StochK: 14, StochSmth: 3, StochD: 3,
		ATR: 14, VolumeSMA: 20,
	}
}

// Snapshot — посчитанные по окну индикаторы, общий вход для правил.
type Snapshot struct {
	P Periods

	Open, Close, Volume float64

	MACD, MACDSignal []float64
	EMAFast, EMASlow []float64
	EMALong          []float64
	ADX, PlusDI      []float64
	MinusDI          []float64
	RSI              []float64
	StochK, StochD   []float64
	VolumeSMA        []float64
	ATR              []float64
}

// NewSnapshot считает все индикаторы один раз. Нулевой период — индикатор не нужен.
func NewSnapshot(w models.CandleWindow, p Periods) *Snapshot {
	o, h, l, c, v := w.Opens(), w.Highs(), w.Lows(), w.Closes(), w.Volumes()
	s := &Snapshot{P: p}
	s.Open, s.Close, s.Volume = lastOr(o), lastOr(c), lastOr(v)
	if p.MACDSlow > 0 {
		s.MACD, s.MACDSignal, _ = indicator.MACD(c, p.MACDFast, p.MACDSlow, p.MACDSignal)
	}
	if p.EMAFast > 0 && p.EMASlow > 0 {
		s.EMAFast = indicator.EMA(c, p.EMAFast)
		s.EMASlow = indicator.EMA(c, p.EMASlow)
	}
	if p.EMALong > 0 {
		s.EMALong = indicator.EMA(c, p.EMALong)
	}
	if p.ADX > 0 {
		s.ADX, s.PlusDI, s.MinusDI = indicator.ADX(h, l, c, p.ADX)
	}
	if p.RSI > 0 {
		s.RSI = indicator.RSI(c, p.RSI)
	}
	if p.StochK > 0 {
		s.StochK, s.StochD = indicator.Stochastic(h, l, c, p.StochK, p.StochSmth, p.StochD)
	}
	if p.VolumeSMA > 0 {
		s.VolumeSMA = indicator.SMA(v, p.VolumeSMA)
	}
	if p.ATR > 0 {
		s.ATR = indicator.ATR(h, l, c, p.ATR)
	}
	return s
}

// LastATR — NaN, если ATR не готов.
func (s *Snapshot) LastATR() float64 {
	v, ok := indicator.Last(s.ATR)
	if !ok {
		return math.NaN()
	}
	return v
}

// Values — последние значения для аудита. NaN не попадают.
func (s *Snapshot) Values() map[string]float64 {
	out := map[string]float64{"close": s.Close, "volume": s.Volume}
	put := func(name string, xs []float64) {
		if v, ok := indicator.Last(xs); ok {
			out[name] = v
		}
	}
	put("macd", s.MACD)
	put("macd_signal", s.MACDSignal)
	put(fmt.Sprintf("ema_%d", s.P.EMAFast), s.EMAFast)
	put(fmt.Sprintf("ema_%d", s.P.EMASlow), s.EMASlow)
	put(fmt.Sprintf("ema_%d", s.P.EMALong), s.EMALong)
	put("adx", s.ADX)
	put("plus_di", s.PlusDI)
	put("minus_di", s.MinusDI)
	put("rsi", s.RSI)
	put("stoch_k", s.StochK)
	put("stoch_d", s.StochD)
	put("volume_sma", s.VolumeSMA)
	put("atr", s.ATR)
	return out
}

// Tally — итог голосования.
type Tally struct {
	Buy, Sell, Voting int
	Action            models.Action
	Confidence        float64
	Reason            string
}

// tally: побеждает сторона со строго большим числом голосов,
// confidence = голоса победителя / число проголосовавших правил.
func tally(rules []Rule, s *Snapshot) Tally {
	var buyNotes, sellNotes []string
	t := Tally{Action: models.ActionWait}
	for _, r := range rules {
		v := r.Eval(s)
		if !v.voted() {
			continue
		}
		t.Voting++
		note := v.Note
		if note == "" {
			note = r.Name
		}
		if v.Side == models.ActionBuy {
			t.Buy++
			buyNotes = append(buyNotes, note)
		} else {
			t.Sell++
			sellNotes = append(sellNotes, note)
		}
	}

	switch {
	case t.Voting == 0:
		t.Reason = "no indicator opinion"
	case t.Buy > t.Sell:
		t.Action = models.ActionBuy
		t.Confidence = float64(t.Buy) / float64(t.Voting)
		t.Reason = joinReason(buyNotes...)
	case t.Sell > t.Buy:
		t.Action = models.ActionSell
		t.Confidence = float64(t.Sell) / float64(t.Voting)
		t.Reason = joinReason(sellNotes...)
	default:
		t.Reason = fmt.Sprintf("no consensus: buy=%d sell=%d", t.Buy, t.Sell)
	}
	return t
}

func lastOr(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return xs[len(xs)-1]
}

func sideOf(d bool) models.Action {
	if d {
		return models.ActionBuy
	}
	return models.ActionSell
}

// MACDCrossRule — пересечение MACD и сигнальной на последних двух барах.
func MACDCrossRule() Rule {
	return Rule{Name: "macd_cross", Eval: func(s *Snapshot) Vote {
		switch indicator.Crossover(s.MACD, s.MACDSignal) {
		case indicator.CrossUp:
			return Vote{models.ActionBuy, "MACD bullish crossover"}
		case indicator.CrossDown:
			return Vote{models.ActionSell, "MACD bearish crossover"}
		}
		return abstain()
	}}
}

// MACDPositionRule — MACD выше/ниже сигнальной.
func MACDPositionRule() Rule {
	return Rule{Name: "macd_position", Eval: func(s *Snapshot) Vote {
		switch indicator.Trend(s.MACD, s.MACDSignal) {
		case indicator.Up:
			return Vote{models.ActionBuy, "MACD above signal"}
		case indicator.Down:
			return Vote{models.ActionSell, "MACD below signal"}
		}
		return abstain()
	}}
}

// EMATrendRule — быстрая EMA выше/ниже медленной.
func EMATrendRule() Rule {
	return Rule{Name: "ema_trend", Eval: func(s *Snapshot) Vote {
		switch indicator.Trend(s.EMAFast, s.EMASlow) {
		case indicator.Up:
			return Vote{models.ActionBuy, fmt.Sprintf("EMA%d above EMA%d", s.P.EMAFast, s.P.EMASlow)}
		case indicator.Down:
			return Vote{models.ActionSell, fmt.Sprintf("EMA%d below EMA%d", s.P.EMAFast, s.P.EMASlow)}
		}
		return abstain()
	}}
}

// PriceVsEMARule — цена выше/ниже длинной EMA.
func PriceVsEMARule() Rule {
	return Rule{Name: "ema_price", Eval: func(s *Snapshot) Vote {
		e, ok := indicator.Last(s.EMALong)
		if !ok || s.Close == e {
			return abstain()
		}
		up := s.Close > e
		word := "below"
		if up {
			word = "above"
		}
		return Vote{sideOf(up), fmt.Sprintf("price %s EMA%d", word, s.P.EMALong)}
	}}
}

// ADXRule голосует только при сильном тренде, направление по +DI/-DI.
func ADXRule(threshold float64) Rule {
	return Rule{Name: "adx", Eval: func(s *Snapshot) Vote {
		a, ok := indicator.Last(s.ADX)
		if !ok || a <= threshold {
			return abstain()
		}
		p, ok1 := indicator.Last(s.PlusDI)
		m, ok2 := indicator.Last(s.MinusDI)
		if !ok1 || !ok2 || p == m {
			return abstain()
		}
		if p > m {
			return Vote{models.ActionBuy, fmt.Sprintf("strong uptrend (ADX %.1f)", a)}
		}
		return Vote{models.ActionSell, fmt.Sprintf("strong downtrend (ADX %.1f)", a)}
	}}
}

// RSIRule — перепроданность/перекупленность.
func RSIRule(oversold, overbought float64) Rule {
	return Rule{Name: "rsi", Eval: func(s *Snapshot) Vote {
		r, ok := indicator.Last(s.RSI)
		switch {
		case !ok:
			return abstain()
		case r < oversold:
			return Vote{models.ActionBuy, fmt.Sprintf("RSI oversold (%.1f)", r)}
		case r > overbought:
			return Vote{models.ActionSell, fmt.Sprintf("RSI overbought (%.1f)", r)}
		}
		return abstain()
	}}
}

// StochZoneRule — %K в зоне перепроданности/перекупленности.
func StochZoneRule(oversold, overbought float64) Rule {
	return Rule{Name: "stoch_zone", Eval: func(s *Snapshot) Vote {
		k, ok := indicator.Last(s.StochK)
		switch {
		case !ok:
			return abstain()
		case k < oversold:
			return Vote{models.ActionBuy, fmt.Sprintf("Stochastic oversold (%.1f)", k)}
		case k > overbought:
			return Vote{models.ActionSell, fmt.Sprintf("Stochastic overbought (%.1f)", k)}
		}
		return abstain()
	}}
}

// StochCrossRule — пересечение %K и %D.
func StochCrossRule() Rule {
	return Rule{Name: "stoch_cross", Eval: func(s *Snapshot) Vote {
		switch indicator.Crossover(s.StochK, s.StochD) {
		case indicator.CrossUp:
			return Vote{models.ActionBuy, "Stochastic bullish crossover"}
		case indicator.CrossDown:
			return Vote{models.ActionSell, "Stochastic bearish crossover"}
		}
		return abstain()
	}}
}

// VolumeRule — всплеск объёма подтверждает направление последней свечи.
func VolumeRule(spike float64) Rule {
	return Rule{Name: "volume", Eval: func(s *Snapshot) Vote {
		avg, ok := indicator.Last(s.VolumeSMA)
		if !ok || avg <= 0 || s.Volume <= avg*spike || s.Close == s.Open {
			return abstain()
		}
		if s.Close > s.Open {
			return Vote{models.ActionBuy, "volume spike on bullish candle"}
		}
		return Vote{models.ActionSell, "volume spike on bearish candle"}
	}}
}
