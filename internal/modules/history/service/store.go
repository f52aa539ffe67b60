package service

import (
	"context"
	"errors"

	"contract_calc/internal/models"
)

// ErrNotFound — записи нет. Репозитории настроек возвращают его вместо sql.ErrNoRows.
var ErrNotFound = errors.New("not found")

// Calculations — история расчётов пользователя, новые первыми.
type Calculations interface {
	Save(ctx context.Context, c *models.Calculation) error
	List(ctx context.Context, userID int64, limit int) ([]*models.Calculation, error)
	// Last — последний расчёт указанного вида.
	Last(ctx context.Context, userID int64, kind models.CalculationKind) (*models.Calculation, error)
}

// Settings — настройки калькулятора по пользователю.
type Settings interface {
	Get(ctx context.Context, userID int64) (*models.UserSettings, error)
	Create(ctx context.Context, user *models.UserSettings) error
	Update(ctx context.Context, user *models.UserSettings) error
	Delete(ctx context.Context, user *models.UserSettings) error
}
