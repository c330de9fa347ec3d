package notify

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/modules/config"
	health "signal_bot/internal/modules/health/service"
	"signal_bot/internal/runner"
)

// LogModule — синк в лог, подключается всегда.
func LogModule() fx.Option {
	return fx.Module("log_sink",
		fx.Provide(
			runner.AsSink(func(log *zap.Logger) *LogSink { return NewLogSink(log.Named("signals")) }),
		),
	)
}

func NewTelegramFromConfig(cfg *config.Config, state *health.State, log *zap.Logger) (*Telegram, error) {
	return NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID, cfg.Telegram.EntriesOnly, state, log.Named("telegram"))
}

// TelegramModule — синк в чат и команды управления. Только при заданных token и chat_id.
func TelegramModule() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			NewTelegramFromConfig,
			runner.AsSink(func(t *Telegram) *Telegram { return t }),
		),
		fx.Invoke(func(lc fx.Lifecycle, t *Telegram) {
			var cancel context.CancelFunc
			lc.Append(fx.Hook{
				OnStart: func(context.Context) error {
					var ctx context.Context
					ctx, cancel = context.WithCancel(context.Background())
					t.Start(ctx)
					if err := t.Send("🚀 Signal bot запущен"); err != nil {
						t.log.Warn("startup message failed", zap.Error(err))
					}
					return nil
				},
				OnStop: func(context.Context) error {
					cancel()
					t.Stop()
					return nil
				},
			})
		}),
	)
}
