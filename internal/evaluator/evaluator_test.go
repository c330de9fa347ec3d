package evaluator

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap/zaptest"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/internal/strategy"
)

func walk(seed int64, n int) models.CandleWindow {
	rnd := rand.New(rand.NewSource(seed))
	t0 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	candles := make([]models.Candle, n)
	prev := 100.0
	for i := range candles {
		c := prev * (1 + (rnd.Float64()-0.5)*0.02)
		candles[i] = models.Candle{
			Start:  t0.Add(time.Duration(i) * 15 * time.Minute),
			Open:   prev,
			High:   math.Max(prev, c) + 0.5,
			Low:    math.Min(prev, c) - 0.5,
			Close:  c,
			Volume: 1000 + float64(i%7)*100,
		}
		prev = c
	}
	return models.NewCandleWindow(candles)
}

type fakeProvider struct {
	mu      sync.Mutex
	windows map[string]models.CandleWindow
	errs    map[string]error
	calls   map[string]int
	delay   time.Duration

	inflight, peak atomic.Int32
}

func (p *fakeProvider) FetchWindow(ctx context.Context, symbol, _ string, _ int) (models.CandleWindow, error) {
	n := p.inflight.Add(1)
	defer p.inflight.Add(-1)
	for {
		old := p.peak.Load()
		if n <= old || p.peak.CompareAndSwap(old, n) {
			break
		}
	}

	p.mu.Lock()
	if p.calls == nil {
		p.calls = map[string]int{}
	}
	p.calls[symbol]++
	w, err := p.windows[symbol], p.errs[symbol]
	p.mu.Unlock()

	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return models.CandleWindow{}, ctx.Err()
		}
	}
	return w, err
}

type staticAssign string

func (s staticAssign) Assignment(symbol string) models.Assignment {
	return models.Assignment{Symbol: symbol, Strategy: string(s)}
}

type mapAssign map[string]string

func (m mapAssign) Assignment(symbol string) models.Assignment {
	return models.Assignment{Symbol: symbol, Strategy: m[symbol]}
}

type panicStrategy struct{}

func (panicStrategy) Name() string                          { return "boom" }
func (panicStrategy) Descriptor() models.StrategyDescriptor { return models.StrategyDescriptor{Name: "boom"} }
func (panicStrategy) Analyze(context.Context, models.CandleWindow, string) models.Signal {
	panic("indicator blew up")
}

func TestEvaluateAllFailingSymbolDoesNotAffectOthers(t *testing.T) {
	w := walk(7, 200)
	p := &fakeProvider{
		windows: map[string]models.CandleWindow{"B": w},
		errs:    map[string]error{"A": errors.New("connection reset")},
	}
	reg := strategy.NewDefaultRegistry()
	e := New(Config{}, zaptest.NewLogger(t), p, staticAssign("multi_indicator"), reg, nil)

	got := e.EvaluateAll(context.Background(), []string{"A", "B"})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d: %+v", len(got), got)
	}

	a := got["A"]
	if a.Action != models.ActionWait {
		t.Fatalf("A: expected WAIT, got %s", a.Action)
	}
	if !strings.Contains(a.Reason, "connection reset") || !strings.Contains(a.Reason, "data provider") {
		t.Fatalf("A: reason should carry the failure, got %q", a.Reason)
	}
	if a.Confidence != 0 || a.StopLoss != nil || a.TakeProfit != nil {
		t.Fatalf("A: degraded WAIT must be empty: %+v", a)
	}

	strat, _ := reg.Create("multi_indicator")
	want := strat.Analyze(context.Background(), w, "B")
	b := got["B"]
	if b.Action != want.Action || b.Reason != want.Reason || b.Confidence != want.Confidence {
		t.Fatalf("B: expected direct evaluation %+v, got %+v", want, b)
	}
	if err := b.Validate(strat.Descriptor().MinConfidence); err != nil {
		t.Fatalf("B: %v", err)
	}
}

func TestEvaluateAllUnknownStrategyBecomesWait(t *testing.T) {
	p := &fakeProvider{windows: map[string]models.CandleWindow{"X": walk(1, 200), "Y": walk(2, 200)}}
	e := New(Config{}, zaptest.NewLogger(t), p,
		mapAssign{"X": "does_not_exist", "Y": "momentum"}, strategy.NewDefaultRegistry(), nil)

	got := e.EvaluateAll(context.Background(), []string{"X", "Y"})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got["X"].Action != models.ActionWait || !strings.Contains(got["X"].Reason, "does_not_exist") {
		t.Fatalf("X: %+v", got["X"])
	}
	if got["Y"].Strategy != "momentum" {
		t.Fatalf("Y: expected momentum, got %q", got["Y"].Strategy)
	}
	// окно не запрашивается, если стратегии нет
	if p.calls["X"] != 0 {
		t.Fatalf("X fetched %d times", p.calls["X"])
	}
}

func TestEvaluateAllRecoversPanics(t *testing.T) {
	reg := strategy.NewDefaultRegistry()
	reg.Register("boom", func(models.StrategyDescriptor) strategy.Strategy { return panicStrategy{} })
	p := &fakeProvider{windows: map[string]models.CandleWindow{"A": walk(3, 200), "B": walk(4, 200)}}
	promReg := prometheus.NewRegistry()
	m := metrics.New(promReg)
	e := New(Config{}, zaptest.NewLogger(t), p, mapAssign{"A": "boom", "B": "scalping"}, reg, m)

	got := e.EvaluateAll(context.Background(), []string{"A", "B"})
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got["A"].Action != models.ActionWait || !strings.Contains(got["A"].Reason, "indicator blew up") {
		t.Fatalf("A: %+v", got["A"])
	}
	if v := testutil.ToFloat64(m.FailuresTotal.WithLabelValues(metrics.FailurePanic)); v != 1 {
		t.Fatalf("panic failures = %v", v)
	}
}

func TestEvaluateAllDeduplicates(t *testing.T) {
	p := &fakeProvider{windows: map[string]models.CandleWindow{"A": walk(5, 200)}}
	e := New(Config{}, zaptest.NewLogger(t), p, staticAssign("momentum"), strategy.NewDefaultRegistry(), nil)

	got := e.EvaluateAll(context.Background(), []string{"A", "A", "", "A"})
	if len(got) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(got))
	}
	if p.calls["A"] != 1 {
		t.Fatalf("A fetched %d times", p.calls["A"])
	}
}

func TestEvaluateAllEmpty(t *testing.T) {
	e := New(Config{}, zaptest.NewLogger(t), &fakeProvider{}, staticAssign("momentum"), strategy.NewDefaultRegistry(), nil)
	if got := e.EvaluateAll(context.Background(), nil); len(got) != 0 {
		t.Fatalf("expected empty map, got %+v", got)
	}
}

func TestEvaluateAllRespectsWorkerLimit(t *testing.T) {
	windows := map[string]models.CandleWindow{}
	symbols := make([]string, 0, 12)
	for i := 0; i < 12; i++ {
		s := string(rune('A' + i))
		windows[s] = walk(int64(i), 120)
		symbols = append(symbols, s)
	}
	p := &fakeProvider{windows: windows, delay: 20 * time.Millisecond}
	e := New(Config{Workers: 3}, zaptest.NewLogger(t), p, staticAssign("scalping"), strategy.NewDefaultRegistry(), nil)

	got := e.EvaluateAll(context.Background(), symbols)
	if len(got) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(got))
	}
	if peak := p.peak.Load(); peak > 3 {
		t.Fatalf("peak concurrency %d exceeds 3", peak)
	}
}

func TestEvaluateAllCancelled(t *testing.T) {
	p := &fakeProvider{windows: map[string]models.CandleWindow{"A": walk(1, 200)}}
	e := New(Config{}, zaptest.NewLogger(t), p, staticAssign("momentum"), strategy.NewDefaultRegistry(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if got := e.EvaluateAll(ctx, []string{"A", "B"}); len(got) != 0 {
		t.Fatalf("cancelled batch must not produce signals, got %+v", got)
	}
}

func TestEvaluateAllCancelledMidFetch(t *testing.T) {
	p := &fakeProvider{
		windows: map[string]models.CandleWindow{"A": walk(1, 200), "B": walk(2, 200)},
		delay:   time.Second,
	}
	e := New(Config{}, zaptest.NewLogger(t), p, staticAssign("momentum"), strategy.NewDefaultRegistry(), nil)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	got := e.EvaluateAll(ctx, []string{"A", "B"})
	if len(got) != 0 {
		t.Fatalf("cancelled units must be absent, got %+v", got)
	}
}

func TestEvaluateAllFetchTimeoutIsFailure(t *testing.T) {
	p := &fakeProvider{
		windows: map[string]models.CandleWindow{"A": walk(1, 200)},
		delay:   time.Second,
	}
	e := New(Config{FetchTimeout: 20 * time.Millisecond}, zaptest.NewLogger(t), p,
		staticAssign("momentum"), strategy.NewDefaultRegistry(), nil)

	got := e.EvaluateAll(context.Background(), []string{"A"})
	s, ok := got["A"]
	if !ok {
		t.Fatal("timed out fetch must still produce a WAIT")
	}
	if s.Action != models.ActionWait || !strings.Contains(s.Reason, "deadline exceeded") {
		t.Fatalf("unexpected signal %+v", s)
	}
}

func TestDataProviderErrorUnwraps(t *testing.T) {
	base := errors.New("503")
	err := error(&DataProviderError{Symbol: "BTC-USDT", Err: base})
	if !errors.Is(err, base) {
		t.Fatal("expected errors.Is to find the cause")
	}
	if !strings.Contains(err.Error(), "BTC-USDT") {
		t.Fatalf("symbol missing from %q", err.Error())
	}
}
