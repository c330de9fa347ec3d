package config

import "go.uber.org/fx"

// Module кладёт уже загруженный конфиг в граф: по нему решается, какие модули подключать.
func Module(cfg *Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
	)
}
