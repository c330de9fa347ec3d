package main

import (
	"context"
	"log"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"signal_bot/internal/metrics"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/marketdata"
	"signal_bot/internal/modules/postgres"
	"signal_bot/internal/modules/strategy"
	"signal_bot/internal/modules/wsfeed"
	"signal_bot/internal/notify"
	"signal_bot/internal/runner"
	"signal_bot/pkg/logger"
	"signal_bot/pkg/tracing"
)

const serviceName = "signal_bot"

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	logger.Init(zl)
	defer func() { _ = zl.Sync() }()

	if cfg.Tracing.Enabled {
		_, closeTracer, err := tracing.InitTracer(tracing.Config{Host: cfg.Tracing.Host, Port: cfg.Tracing.Port})
		if err != nil {
			logger.Fatal("tracer: %v", err)
		}
		defer closeTracer()
	}

	opts := []fx.Option{
		fx.WithLogger(func() fxevent.Logger { return &fxevent.ZapLogger{Logger: zl.Named("fx")} }),
		fx.Supply(zl),
		fx.Provide(func() context.Context { return context.Background() }),
		config.Module(cfg),
		metrics.Module(),
		health.Module(),
		marketdata.Module(),
		strategy.Module(),
		notify.LogModule(),
		runner.Module(),
	}
	if cfg.PostgresEnabled() {
		opts = append(opts, postgres.Module())
	}
	if cfg.TelegramEnabled() {
		opts = append(opts, notify.TelegramModule())
	}
	if cfg.WSFeed.Enabled {
		opts = append(opts, wsfeed.Module())
	}

	zl.Info("starting",
		zap.Bool("postgres", cfg.PostgresEnabled()),
		zap.Bool("telegram", cfg.TelegramEnabled()),
		zap.Bool("wsfeed", cfg.WSFeed.Enabled),
		zap.Int("symbols", len(cfg.Symbols)),
	)
	fx.New(opts...).Run()
}
