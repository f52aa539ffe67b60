package pg

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"contract_calc/internal/models"
	"contract_calc/internal/modules/history/service"
	"contract_calc/pkg/db"
	"contract_calc/pkg/logger"
)

// setupTestDB поднимает postgres в контейнере и применяет миграции.
func setupTestDB(t *testing.T) *db.PgTxManager {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container is skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
	logger.InitNop()

	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := db.NewPool(ctx, db.PoolConfig{DSN: dsn})
	require.NoError(t, err)
	tx := db.NewPgTxManager(pool)

	// дважды: миграции должны быть идемпотентны
	require.NoError(t, Migrate(ctx, tx.Conn()))
	require.NoError(t, Migrate(ctx, tx.Conn()))

	t.Cleanup(func() {
		tx.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})
	return tx
}

func TestPostgres_Stores(t *testing.T) {
	tx := setupTestDB(t)
	ctx := context.Background()

	t.Run("settings roundtrip", func(t *testing.T) {
		s := NewSettings(tx)

		_, err := s.Get(ctx, 10)
		require.ErrorIs(t, err, service.ErrNotFound)

		user := models.NewUserSettings(10, models.StrategyParameters{
			Direction:    models.DirectionShort,
			InitialPrice: 2500,
			Leverage:     5,
			MaxAdds:      4,
		})
		user.Name = "alice"
		require.NoError(t, s.Create(ctx, user))
		assert.NotZero(t, user.ID)

		user.Step = "await:tp_percent"
		user.Settings.FullTable = true
		require.NoError(t, s.Update(ctx, user))

		got, err := s.Get(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, "alice", got.Name)
		assert.Equal(t, "await:tp_percent", got.Step)
		assert.True(t, got.Settings.FullTable)
		assert.Equal(t, models.DirectionShort, got.Settings.Strategy.Direction)
		assert.Equal(t, 4, got.Settings.Strategy.MaxAdds)

		require.NoError(t, s.Delete(ctx, got))
		_, err = s.Get(ctx, 10)
		require.ErrorIs(t, err, service.ErrNotFound)

		err = s.Update(ctx, got)
		require.ErrorIs(t, err, service.ErrNotFound)
	})

	t.Run("calculations keep last n", func(t *testing.T) {
		s := NewCalculations(tx, 2)

		for i, price := range []float64{100, 200, 300} {
			c := &models.Calculation{
				UserID:    20,
				Kind:      models.KindMartingale,
				CreatedAt: time.Date(2025, 1, 1, 0, i, 0, 0, time.UTC),
				Martingale: &models.MartingaleResult{
					Params: models.StrategyParameters{InitialPrice: price},
					Steps:  []models.StepRecord{{Step: 0, AddPrice: price}},
					Status: models.RunCompleted,
				},
			}
			require.NoError(t, s.Save(ctx, c))
			assert.NotZero(t, c.ID)
		}

		list, err := s.List(ctx, 20, 10)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 300.0, list[0].Martingale.Params.InitialPrice)
		assert.Equal(t, 200.0, list[1].Martingale.Params.InitialPrice)
		require.Len(t, list[0].Martingale.Steps, 1)
	})

	t.Run("last by kind", func(t *testing.T) {
		s := NewCalculations(tx, 10)

		_, err := s.Last(ctx, 30, models.KindStandard)
		require.ErrorIs(t, err, service.ErrNotFound)

		require.NoError(t, s.Save(ctx, &models.Calculation{
			UserID: 30,
			Kind:   models.KindStandard,
			Standard: &models.StandardRecord{
				Params: models.StandardTradeParameters{EntryPrice: 10, ExitPrice: 11},
				Result: models.StandardTradeResult{Pnl: 1},
			},
		}))

		got, err := s.Last(ctx, 30, models.KindStandard)
		require.NoError(t, err)
		assert.Equal(t, 1.0, got.Standard.Result.Pnl)
		assert.Nil(t, got.Standard.Result.LiquidationPrice)
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		s := NewCalculations(tx, 10)
		err := s.Save(ctx, &models.Calculation{UserID: 1, Kind: models.KindMartingale})
		require.Error(t, err)
	})
}
