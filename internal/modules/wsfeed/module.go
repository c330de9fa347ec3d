package wsfeed

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/health"
	"signal_bot/internal/modules/wsfeed/service"
	"signal_bot/internal/runner"
)

func NewHub(lc fx.Lifecycle, log *zap.Logger) *service.Hub {
	h := service.NewHub(log.Named("wsfeed"))
	lc.Append(fx.StopHook(h.Close))
	return h
}

// Module — лента сигналов на админском порту по cfg.WSFeed.Path.
func Module() fx.Option {
	return fx.Module("wsfeed",
		fx.Provide(
			NewHub,
			runner.AsSink(func(h *service.Hub) *service.Hub { return h }),
			fx.Annotate(
				func(cfg *config.Config, h *service.Hub) health.Route {
					return health.Route{Pattern: cfg.WSFeed.Path, Handler: h}
				},
				fx.ResultTags(`group:"admin_routes"`),
			),
		),
	)
}
