package main

import (
	"context"

	"go.uber.org/fx"

	"contract_calc/internal/modules/calculator"
	"contract_calc/internal/modules/config"
	"contract_calc/internal/modules/health"
	"contract_calc/internal/modules/history"
	"contract_calc/internal/modules/postgres"
	telegram "contract_calc/internal/modules/telegram_bot"
	"contract_calc/pkg/logger"
)

func main() {
	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		config.Module(),
		postgres.Module(),
		history.Module(),
		calculator.Module(),
		telegram.Module(),
		health.Module(),
	)
	app.Run()
	logger.Sync()
}
