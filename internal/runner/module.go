package runner

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/evaluator"
	"signal_bot/internal/metrics"
	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	marketdata "signal_bot/internal/modules/marketdata/service"
)

// SinkGroup — тег fx-группы, в которую модули кладут свои синки.
const SinkGroup = `group:"sinks"`

type deps struct {
	fx.In

	Cfg     *config.Config
	Eval    *evaluator.Evaluator
	Watch   *marketdata.Watchlist
	State   *health.State
	Sinks   []Sink `group:"sinks"`
	Log     *zap.Logger
	Metrics *metrics.Metrics
}

func NewRunner(d deps) *Runner {
	return New(Params{
		Eval:     d.Eval,
		Symbols:  d.Watch,
		Sup:      d.State,
		Beat:     d.State,
		Sinks:    d.Sinks,
		Interval: d.Cfg.Engine.Interval,
		Log:      d.Log.Named("runner"),
		Metrics:  d.Metrics,
	})
}

// AsSink кладёт конструктор синка в группу.
func AsSink(f any) any {
	return fx.Annotate(f, fx.As(new(Sink)), fx.ResultTags(SinkGroup))
}

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(NewRunner),
		fx.Invoke(func(lc fx.Lifecycle, r *Runner, state *health.State) {
			var (
				cancel context.CancelFunc
				done   = make(chan struct{})
			)
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					var ctx context.Context
					ctx, cancel = context.WithCancel(context.Background())
					state.SetReady(true)
					go func() {
						defer close(done)
						r.Run(ctx)
					}()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					state.SetReady(false)
					cancel()
					select {
					case <-done:
					case <-ctx.Done():
					}
					return nil
				},
			})
		}),
	)
}
