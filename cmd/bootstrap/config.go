package bootstrap

import (
	"advisory-market/internal/pkg/config"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		func(cfg config.Config) config.AccrualConfig { return cfg.Accrual },
		func(cfg config.Config) config.AllocatorConfig { return cfg.Allocator },
	),
)
