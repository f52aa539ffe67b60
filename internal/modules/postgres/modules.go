package postgres

import (
	"context"
	"fmt"

	"go.uber.org/fx"

	"contract_calc/internal/modules/config"
	"contract_calc/pkg/db"
	"contract_calc/pkg/logger"
)

// Module — пул postgres. Без db_dsn отдаёт nil, и история живёт в памяти.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, lc fx.Lifecycle, cfg *config.Config) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					logger.Warn("db_dsn is empty, history is kept in memory")
					return nil, nil
				}

				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN: cfg.DB,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				manager := db.NewPgTxManager(poolMaster)
				lc.Append(fx.Hook{
					OnStop: func(context.Context) error {
						manager.Close()
						return nil
					},
				})
				return manager, nil
			},
		),
	)
}
