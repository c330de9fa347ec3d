package models

import (
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Имена колонок окна свечей.
const (
	ColTime   = "ts"
	ColOpen   = "open"
	ColHigh   = "high"
	ColLow    = "low"
	ColClose  = "close"
	ColVolume = "volume"
)

// RequiredColumns — без них окно не считается.
var RequiredColumns = []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}

// Candle — одна OHLCV свеча.
type Candle struct {
	Start  time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// CandleWindow — окно свечей по возрастанию времени. Только для чтения.
type CandleWindow struct {
	frame dataframe.DataFrame
}

// NewCandleWindow собирает окно из свечей. Порядок не меняется.
func NewCandleWindow(candles []Candle) CandleWindow {
	n := len(candles)
	ts := make([]int, n)
	opens := make([]float64, n)
	highs := make([]float64, n)
	lows := make([]float64, n)
	closes := make([]float64, n)
	vols := make([]float64, n)
	for i, c := range candles {
		ts[i] = int(c.Start.UnixMilli())
		opens[i] = c.Open
		highs[i] = c.High
		lows[i] = c.Low
		closes[i] = c.Close
		vols[i] = c.Volume
	}
	return CandleWindow{frame: dataframe.New(
		series.New(ts, series.Int, ColTime),
		series.New(opens, series.Float, ColOpen),
		series.New(highs, series.Float, ColHigh),
		series.New(lows, series.Float, ColLow),
		series.New(closes, series.Float, ColClose),
		series.New(vols, series.Float, ColVolume),
	)}
}

// WindowFromFrame оборачивает произвольный фрейм (например, пришедший без volume).
func WindowFromFrame(df dataframe.DataFrame) CandleWindow {
	return CandleWindow{frame: df}
}

func (w CandleWindow) Frame() dataframe.DataFrame { return w.frame }

func (w CandleWindow) Len() int {
	if w.frame.Err != nil {
		return 0
	}
	return w.frame.Nrow()
}

func (w CandleWindow) HasColumn(name string) bool {
	if w.frame.Err != nil {
		return false
	}
	for _, n := range w.frame.Names() {
		if n == name {
			return true
		}
	}
	return false
}

// Column отдаёт колонку как []float64. ok=false, если колонки нет.
func (w CandleWindow) Column(name string) ([]float64, bool) {
	if !w.HasColumn(name) {
		return nil, false
	}
	s := w.frame.Col(name)
	if s.Err != nil {
		return nil, false
	}
	return s.Float(), true
}

// HasNaN — есть ли пропуски в колонке. Отсутствующая колонка считается пропуском.
func (w CandleWindow) HasNaN(name string) bool {
	if !w.HasColumn(name) {
		return true
	}
	s := w.frame.Col(name)
	if s.Err != nil || s.HasNaN() {
		return true
	}
	for _, v := range s.Float() {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}

func (w CandleWindow) Opens() []float64   { return w.mustColumn(ColOpen) }
func (w CandleWindow) Highs() []float64   { return w.mustColumn(ColHigh) }
func (w CandleWindow) Lows() []float64    { return w.mustColumn(ColLow) }
func (w CandleWindow) Closes() []float64  { return w.mustColumn(ColClose) }
func (w CandleWindow) Volumes() []float64 { return w.mustColumn(ColVolume) }

// LastClose — цена последней свечи или 0 на пустом окне.
func (w CandleWindow) LastClose() float64 {
	c := w.Closes()
	if len(c) == 0 {
		return 0
	}
	return c[len(c)-1]
}

func (w CandleWindow) mustColumn(name string) []float64 {
	v, _ := w.Column(name)
	return v
}
