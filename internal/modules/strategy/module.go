package strategy

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/evaluator"
	"signal_bot/internal/metrics"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/strategy"
)

func NewRegistry(log *zap.Logger) *strategy.Registry {
	r := strategy.NewDefaultRegistry()
	log.Info("strategies registered", zap.Strings("names", r.List()))
	return r
}

func NewEvaluatorConfig(cfg *config.Config) evaluator.Config {
	return evaluator.Config{
		Timeframe:    cfg.Engine.Timeframe,
		WindowLength: cfg.Engine.WindowLength,
		Workers:      cfg.Engine.Workers,
		FetchTimeout: cfg.Engine.FetchTimeout,
	}
}

type evalDeps struct {
	fx.In

	Cfg      evaluator.Config
	Log      *zap.Logger
	Provider evaluator.WindowProvider
	Conf     *config.Config
	Registry *strategy.Registry
	Metrics  *metrics.Metrics
}

func NewEvaluator(d evalDeps) *evaluator.Evaluator {
	return evaluator.New(d.Cfg, d.Log.Named("evaluator"), d.Provider, d.Conf, d.Registry, d.Metrics)
}

// Module — реестр стратегий и BatchEvaluator.
func Module() fx.Option {
	return fx.Module("strategy",
		fx.Provide(
			NewRegistry,
			NewEvaluatorConfig,
			NewEvaluator,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config, r *strategy.Registry, log *zap.Logger) {
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					// неизвестная стратегия в конфиге не роняет старт, но видна сразу
					known := map[string]bool{}
					for _, n := range r.List() {
						known[n] = true
					}
					check := append([]string{cfg.Defaults.Strategy}, strategiesOf(cfg)...)
					for _, name := range check {
						if !known[name] {
							log.Error("config references unknown strategy", zap.String("strategy", name))
						}
					}
					return nil
				},
			})
		}),
	)
}

func strategiesOf(cfg *config.Config) []string {
	out := make([]string, 0, len(cfg.Symbols))
	for _, s := range cfg.Symbols {
		if s.Strategy != "" {
			out = append(out, s.Strategy)
		}
	}
	return out
}
