package config

import (
	"go.uber.org/fx"

	"contract_calc/pkg/logger"
)

// provideConfig читает конфиг и сразу поднимает глобальный логгер:
// все, кто зависит от *Config, могут логировать.
func provideConfig() (*Config, error) {
	cfg, err := NewConfig()
	if err != nil {
		return nil, err
	}
	logger.SetServiceName("contract_calc")
	if err := logger.Init(cfg.Log.Level, cfg.Log.Development); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Module() fx.Option {
	return fx.Module("config",
		fx.Provide(
			provideConfig,
		),
	)
}
