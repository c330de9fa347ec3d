package marketdata

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	"signal_bot/internal/evaluator"
	"signal_bot/internal/modules/config"
	"signal_bot/internal/modules/marketdata/service"
)

func NewClient(cfg *config.Config, log *zap.Logger) *service.Client {
	return service.NewClient(cfg.Engine.OKXBaseURL, log.Named("okx"))
}

func NewWatchlist(cfg *config.Config, c *service.Client, log *zap.Logger) *service.Watchlist {
	return service.NewWatchlist(cfg.SymbolList(), cfg.Engine.WatchTopN, c, log.Named("watchlist"))
}

// Module — OKX REST как источник свечей и watchlist.
func Module() fx.Option {
	return fx.Module("marketdata",
		fx.Provide(
			NewClient,
			NewWatchlist,
			func(c *service.Client) evaluator.WindowProvider { return c },
		),
	)
}
