package telegram

import (
	"context"

	"go.uber.org/fx"

	calculator "contract_calc/internal/modules/calculator/service"
	"contract_calc/internal/modules/config"
	history "contract_calc/internal/modules/history/service"
	"contract_calc/internal/modules/telegram_bot/service"
	"contract_calc/pkg/logger"
)

// newTelegram — nil, если бот выключен или нет токена: сервис работает только по HTTP.
func newTelegram(cfg *config.Config, repo history.Settings, calc *calculator.Service) (*service.Telegram, error) {
	if !cfg.Telegram.Enabled || cfg.Telegram.Token == "" {
		logger.Warn("telegram bot is disabled")
		return nil, nil
	}
	return service.NewTelegram(cfg, repo, calc)
}

func Module() fx.Option {
	return fx.Module("telegram",
		fx.Provide(
			newTelegram,
		),
		// Запуск основного цикла через Lifecycle
		fx.Invoke(
			func(lc fx.Lifecycle, t *service.Telegram) {
				if t == nil {
					return
				}
				runCtx, cancel := context.WithCancel(context.Background())
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						go t.Start(runCtx)
						return nil
					},
					OnStop: func(ctx context.Context) error {
						cancel()
						t.Stop()
						return nil
					},
				})
			},
		),
	)
}
