package history

import (
	"context"

	"go.uber.org/fx"

	"contract_calc/internal/modules/config"
	"contract_calc/internal/modules/history/service"
	"contract_calc/internal/modules/history/service/memory"
	"contract_calc/internal/modules/history/service/pg"
	"contract_calc/pkg/db"
	"contract_calc/pkg/logger"
)

type Stores struct {
	fx.Out

	Calculations service.Calculations
	Settings     service.Settings
}

// NewStores выбирает хранилище: postgres, если пул поднят, иначе память.
func NewStores(ctx context.Context, cfg *config.Config, tx *db.PgTxManager) (Stores, error) {
	if tx == nil {
		return Stores{
			Calculations: memory.NewCalculations(cfg.Limits.HistorySize),
			Settings:     memory.NewSettings(),
		}, nil
	}

	if err := pg.Migrate(ctx, tx.Conn()); err != nil {
		return Stores{}, err
	}
	logger.Info("history: postgres migrations applied")

	return Stores{
		Calculations: pg.NewCalculations(tx, cfg.Limits.HistorySize),
		Settings:     pg.NewSettings(tx),
	}, nil
}

func Module() fx.Option {
	return fx.Module("history",
		fx.Provide(NewStores),
	)
}
