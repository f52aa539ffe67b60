package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"contract_calc/internal/models"
	"contract_calc/internal/modules/history/service"
)

func martingale(userID int64, price float64) *models.Calculation {
	return &models.Calculation{
		UserID: userID,
		Kind:   models.KindMartingale,
		Martingale: &models.MartingaleResult{
			Params: models.StrategyParameters{InitialPrice: price},
			Status: models.RunCompleted,
		},
	}
}

func TestCalculations_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewCalculations(10)

	for _, price := range []float64{100, 200, 300} {
		require.NoError(t, s.Save(ctx, martingale(1, price)))
	}
	require.NoError(t, s.Save(ctx, martingale(2, 999)))

	list, err := s.List(ctx, 1, 0)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, 300.0, list[0].Martingale.Params.InitialPrice)
	assert.Equal(t, 100.0, list[2].Martingale.Params.InitialPrice)
	assert.False(t, list[0].CreatedAt.IsZero())

	limited, err := s.List(ctx, 1, 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestCalculations_KeepsLastN(t *testing.T) {
	ctx := context.Background()
	s := NewCalculations(2)

	for _, price := range []float64{1, 2, 3, 4} {
		require.NoError(t, s.Save(ctx, martingale(7, price)))
	}

	list, err := s.List(ctx, 7, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 4.0, list[0].Martingale.Params.InitialPrice)
	assert.Equal(t, 3.0, list[1].Martingale.Params.InitialPrice)
}

func TestCalculations_TrimReleasesDropped(t *testing.T) {
	ctx := context.Background()
	s := NewCalculations(2)

	for _, price := range []float64{1, 2, 3, 4, 5} {
		require.NoError(t, s.Save(ctx, martingale(7, price)))

		stored := s.data[7]
		require.LessOrEqual(t, len(stored), 2)
		// после обрезки в массиве нет хвоста с вытесненными записями
		assert.Equal(t, len(stored), cap(stored))
	}
}

func TestCalculations_AssignsIncreasingIDs(t *testing.T) {
	ctx := context.Background()
	s := NewCalculations(5)

	a, b := martingale(1, 1), martingale(1, 2)
	require.NoError(t, s.Save(ctx, a))
	require.NoError(t, s.Save(ctx, b))
	assert.Greater(t, b.ID, a.ID)
}

func TestCalculations_LastByKind(t *testing.T) {
	ctx := context.Background()
	s := NewCalculations(10)

	require.NoError(t, s.Save(ctx, martingale(1, 100)))
	require.NoError(t, s.Save(ctx, &models.Calculation{
		UserID:   1,
		Kind:     models.KindStandard,
		Standard: &models.StandardRecord{Params: models.StandardTradeParameters{EntryPrice: 50}},
	}))

	last, err := s.Last(ctx, 1, models.KindMartingale)
	require.NoError(t, err)
	assert.Equal(t, 100.0, last.Martingale.Params.InitialPrice)

	last, err = s.Last(ctx, 1, models.KindStandard)
	require.NoError(t, err)
	assert.Equal(t, 50.0, last.Standard.Params.EntryPrice)

	_, err = s.Last(ctx, 2, models.KindMartingale)
	assert.ErrorIs(t, err, service.ErrNotFound)
}

func TestSettings_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewSettings()

	user := models.NewUserSettings(42, models.StrategyParameters{
		Direction:    models.DirectionLong,
		InitialPrice: 100,
		Leverage:     10,
	})
	require.NoError(t, s.Create(ctx, user))

	got, err := s.Get(ctx, 42)
	require.NoError(t, err)
	got.Step = "editing"

	again, err := s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Empty(t, again.Step)

	require.NoError(t, s.Update(ctx, got))
	again, err = s.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "editing", again.Step)
}

func TestSettings_Delete(t *testing.T) {
	ctx := context.Background()
	s := NewSettings()

	user := &models.UserSettings{UserID: 3}
	require.NoError(t, s.Create(ctx, user))
	require.NoError(t, s.Delete(ctx, user))

	_, err := s.Get(ctx, 3)
	assert.ErrorIs(t, err, service.ErrNotFound)
}
