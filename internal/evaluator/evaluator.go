// Package evaluator гоняет стратегии по набору символов.
//
// Каждый символ — отдельная единица работы: его отказ (ошибка провайдера,
// таймаут, паника, неизвестная стратегия) превращается в WAIT и не мешает
// остальным. Результат собирается после того, как отработали все.
package evaluator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"signal_bot/internal/metrics"
	"signal_bot/internal/models"
	"signal_bot/internal/strategy"
)

// WindowProvider — внешний источник свечей.
type WindowProvider interface {
	FetchWindow(ctx context.Context, symbol, timeframe string, length int) (models.CandleWindow, error)
}

// AssignmentSource — какая стратегия назначена символу.
type AssignmentSource interface {
	Assignment(symbol string) models.Assignment
}

// StrategyFactory — то, что нужно от реестра.
type StrategyFactory interface {
	CreateFor(name string, d models.StrategyDescriptor) (strategy.Strategy, error)
}

// DataProviderError — провайдер не отдал окно.
type DataProviderError struct {
	Symbol string
	Err    error
}

func (e *DataProviderError) Error() string {
	return fmt.Sprintf("data provider: %s: %v", e.Symbol, e.Err)
}

func (e *DataProviderError) Unwrap() error { return e.Err }

type Config struct {
	Timeframe    string
	WindowLength int
	Workers      int
	FetchTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeframe == "" {
		c.Timeframe = "15m"
	}
	if c.WindowLength <= 0 {
		c.WindowLength = 200
	}
	if c.Workers <= 0 {
		c.Workers = 8
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
	return c
}

// Evaluator — BatchEvaluator.
type Evaluator struct {
	cfg      Config
	log      *zap.Logger
	provider WindowProvider
	assign   AssignmentSource
	factory  StrategyFactory
	metrics  *metrics.Metrics
}

func New(cfg Config, log *zap.Logger, provider WindowProvider, assign AssignmentSource, factory StrategyFactory, m *metrics.Metrics) *Evaluator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Evaluator{
		cfg:      cfg.withDefaults(),
		log:      log,
		provider: provider,
		assign:   assign,
		factory:  factory,
		metrics:  m,
	}
}

// EvaluateAll оценивает все символы конкурентно и возвращает карту symbol -> Signal.
// Отменённые через ctx символы в карту не попадают. Ошибок наружу не отдаёт.
func (e *Evaluator) EvaluateAll(ctx context.Context, symbols []string) map[string]models.Signal {
	started := time.Now()
	span, ctx := opentracing.StartSpanFromContext(ctx, "evaluator.batch")
	defer span.Finish()

	uniq := dedupe(symbols)
	span.SetTag("symbols", len(uniq))

	var (
		mu  sync.Mutex
		out = make(map[string]models.Signal, len(uniq))
		g   errgroup.Group
	)
	g.SetLimit(e.cfg.Workers)

	for _, sym := range uniq {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			sig, ok := e.evaluateOne(ctx, sym)
			if !ok {
				return nil
			}
			mu.Lock()
			out[sym] = sig
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	e.metrics.ObserveBatch(len(uniq), time.Since(started))
	e.log.Debug("batch settled",
		zap.Int("symbols", len(uniq)),
		zap.Int("signals", len(out)),
		zap.Duration("took", time.Since(started)),
	)
	return out
}

// evaluateOne: ok=false — символ отменён и ничего не даёт в результат.
func (e *Evaluator) evaluateOne(ctx context.Context, symbol string) (sig models.Signal, ok bool) {
	if ctx.Err() != nil {
		e.metrics.ObserveFailure(metrics.FailureCancel)
		return models.Signal{}, false
	}

	started := time.Now()
	span, ctx := opentracing.StartSpanFromContext(ctx, "evaluator.symbol")
	span.SetTag("symbol", symbol)
	defer span.Finish()

	a := e.assign.Assignment(symbol)
	log := e.log.With(zap.String("symbol", symbol), zap.String("strategy", a.Strategy))

	defer func() {
		if p := recover(); p != nil {
			log.Error("strategy panic", zap.Any("panic", p))
			e.metrics.ObserveFailure(metrics.FailurePanic)
			span.SetTag("error", true)
			sig, ok = models.NewWaitSignal(symbol, a.Strategy, 0, fmt.Sprintf("evaluation panic: %v", p)), true
		}
	}()

	strat, err := e.factory.CreateFor(a.Strategy, a.Params)
	if err != nil {
		// ошибка конфигурации: батч продолжается, но это надо чинить
		log.Error("strategy not registered", zap.Error(err))
		e.metrics.ObserveFailure(metrics.FailureStrategy)
		span.SetTag("error", true)
		return models.NewWaitSignal(symbol, a.Strategy, 0, err.Error()), true
	}

	fctx, cancel := context.WithTimeout(ctx, e.cfg.FetchTimeout)
	w, err := e.provider.FetchWindow(fctx, symbol, e.cfg.Timeframe, e.cfg.WindowLength)
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			e.metrics.ObserveFailure(metrics.FailureCancel)
			return models.Signal{}, false
		}
		dpe := &DataProviderError{Symbol: symbol, Err: errors.Wrapf(err, "fetch %s window", e.cfg.Timeframe)}
		log.Warn("window fetch failed", zap.Error(dpe))
		e.metrics.ObserveFailure(metrics.FailureData)
		span.SetTag("error", true)
		return models.NewWaitSignal(symbol, strat.Name(), 0, dpe.Error()), true
	}
	if ctx.Err() != nil {
		e.metrics.ObserveFailure(metrics.FailureCancel)
		return models.Signal{}, false
	}

	sig = strat.Analyze(ctx, w, symbol)
	e.metrics.ObserveSignal(sig)
	e.metrics.ObserveEval(time.Since(started))
	log.Debug("evaluated",
		zap.String("action", string(sig.Action)),
		zap.Float64("confidence", sig.Confidence),
		zap.String("reason", sig.Reason),
	)
	return sig, true
}

func dedupe(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
