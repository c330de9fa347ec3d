// Package runner периодически гоняет батч и раздаёт сигналы синкам.
package runner

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
)

// Sink принимает сигналы. Ошибка одного синка не влияет на остальные.
type Sink interface {
	Name() string
	Accept(ctx context.Context, sig models.Signal) error
}

// Supervisor решает, работает ли бот сейчас.
type Supervisor interface {
	Running() bool
}

// Heartbeat отмечает отработавший тик.
type Heartbeat interface {
	TouchTick(t time.Time)
}

type SymbolSource interface {
	Symbols(ctx context.Context) []string
}

type BatchEvaluator interface {
	EvaluateAll(ctx context.Context, symbols []string) map[string]models.Signal
}

type Runner struct {
	eval     BatchEvaluator
	symbols  SymbolSource
	sup      Supervisor
	beat     Heartbeat
	sinks    []Sink
	interval time.Duration
	log      *zap.Logger
	metrics  *metrics.Metrics
}

type Params struct {
	Eval     BatchEvaluator
	Symbols  SymbolSource
	Sup      Supervisor
	Beat     Heartbeat
	Sinks    []Sink
	Interval time.Duration
	Log      *zap.Logger
	Metrics  *metrics.Metrics
}

func New(p Params) *Runner {
	if p.Log == nil {
		p.Log = zap.NewNop()
	}
	if p.Interval <= 0 {
		p.Interval = time.Minute
	}
	return &Runner{
		eval:     p.Eval,
		symbols:  p.Symbols,
		sup:      p.Sup,
		beat:     p.Beat,
		sinks:    p.Sinks,
		interval: p.Interval,
		log:      p.Log,
		metrics:  p.Metrics,
	}
}

// TickReport — что произошло за один тик.
type TickReport struct {
	Skipped    bool
	Symbols    int
	Signals    int
	Entries    int
	SinkErrors int
}

// Run — тик сразу и далее каждые interval, пока жив ctx.
func (r *Runner) Run(ctx context.Context) {
	r.log.Info("runner started",
		zap.Duration("interval", r.interval),
		zap.Int("sinks", len(r.sinks)),
	)
	t := time.NewTicker(r.interval)
	defer t.Stop()

	for {
		r.Tick(ctx)
		select {
		case <-ctx.Done():
			r.log.Info("runner stopped")
			return
		case <-t.C:
		}
	}
}

// Tick — один батч. Пока супервизор держит бота остановленным, ничего не делает.
func (r *Runner) Tick(ctx context.Context) TickReport {
	if r.sup != nil && !r.sup.Running() {
		r.log.Debug("tick skipped: bot stopped")
		return TickReport{Skipped: true}
	}
	if ctx.Err() != nil {
		return TickReport{Skipped: true}
	}

	symbols := r.symbols.Symbols(ctx)
	if len(symbols) == 0 {
		r.log.Warn("tick skipped: empty watchlist")
		return TickReport{Skipped: true}
	}

	results := r.eval.EvaluateAll(ctx, symbols)
	signals := ordered(results)

	rep := TickReport{Symbols: len(symbols), Signals: len(signals)}
	for _, s := range signals {
		if s.IsEntry() {
			rep.Entries++
		}
	}
	rep.SinkErrors = r.deliver(ctx, signals)

	if r.beat != nil {
		r.beat.TouchTick(time.Now())
	}
	r.log.Info("tick done",
		zap.Int("symbols", rep.Symbols),
		zap.Int("signals", rep.Signals),
		zap.Int("entries", rep.Entries),
		zap.Int("sink_errors", rep.SinkErrors),
	)
	return rep
}

// deliver: каждый синк в своей горутине получает все сигналы по порядку.
func (r *Runner) deliver(ctx context.Context, signals []models.Signal) int {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		failed int
	)
	for _, sink := range r.sinks {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n := r.feed(ctx, sink, signals)
			mu.Lock()
			failed += n
			mu.Unlock()
		}()
	}
	wg.Wait()
	return failed
}

func (r *Runner) feed(ctx context.Context, sink Sink, signals []models.Signal) (failed int) {
	log := r.log.With(zap.String("sink", sink.Name()))
	defer func() {
		if p := recover(); p != nil {
			log.Error("sink panic", zap.Any("panic", p))
			r.metrics.ObserveSinkError(sink.Name())
			failed++
		}
	}()

	for _, s := range signals {
		if ctx.Err() != nil {
			return failed
		}
		if err := sink.Accept(ctx, s); err != nil {
			log.Warn("sink rejected signal", zap.String("symbol", s.Symbol), zap.Error(err))
			r.metrics.ObserveSinkError(sink.Name())
			failed++
		}
	}
	return failed
}

// ordered — сигналы по символу, чтобы синки видели стабильный порядок.
func ordered(m map[string]models.Signal) []models.Signal {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]models.Signal, 0, len(keys))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}
