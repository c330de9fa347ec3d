package postgres

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/fx"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/postgres/service"
	"signal_bot/internal/runner"
	"signal_bot/pkg/db"
)

func NewTxManager(lc fx.Lifecycle, ctx context.Context, cfg *config.Config) (*db.PgTxManager, error) {
	poolMaster, err := db.NewPool(ctx, db.PoolConfig{
		DSN: cfg.DB,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create poolMaster")
	}
	if err = poolMaster.Ping(ctx); err != nil {
		poolMaster.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	m := db.NewPgTxManager(poolMaster)
	lc.Append(fx.StopHook(m.Close))
	return m, nil
}

func NewSignalStore(m *db.PgTxManager) *service.SignalStore {
	return service.NewSignalStore(m)
}

// Module — журнал сигналов в Postgres. Подключается, только если задан db_dsn.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			NewTxManager,
			NewSignalStore,
			runner.AsSink(func(s *service.SignalStore) *service.SignalStore { return s }),
		),
		fx.Invoke(func(lc fx.Lifecycle, s *service.SignalStore) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					return s.EnsureSchema(ctx)
				},
			})
		}),
	)
}
