package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"

	"contract_calc/internal/models"
	"contract_calc/internal/modules/history/service"
	"contract_calc/pkg/db"
)

// Settings — настройки пользователей в postgres, сами параметры лежат в jsonb.
type Settings struct {
	db db.TxManager
}

var _ service.Settings = (*Settings)(nil)

func NewSettings(tx db.TxManager) *Settings {
	return &Settings{db: tx}
}

// Create in db
func (u *Settings) Create(
	ctx context.Context,
	user *models.UserSettings,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Settings.Create: %w", err)
		}
	}()

	var data []byte
	data, err = sonic.Marshal(user.Settings)
	if err != nil {
		return err
	}

	return u.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		return tx.QueryRow(ctxTx, `
			INSERT INTO user_settings (chat_id, name, step, settings)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (chat_id) DO UPDATE
			SET name = EXCLUDED.name, step = EXCLUDED.step, settings = EXCLUDED.settings, updated_at = now()
			RETURNING id`,
			user.UserID, user.Name, user.Step, data,
		).Scan(&user.ID)
	})
}

// Update in db
func (u *Settings) Update(
	ctx context.Context,
	user *models.UserSettings,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Settings.Update: %w", err)
		}
	}()

	var data []byte
	data, err = sonic.Marshal(user.Settings)
	if err != nil {
		return err
	}

	return u.db.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		tag, err := tx.Exec(ctxTx, `
			UPDATE user_settings
			SET name = $2, step = $3, settings = $4, updated_at = now()
			WHERE chat_id = $1`,
			user.UserID, user.Name, user.Step, data,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return service.ErrNotFound
		}
		return nil
	})
}

// Get in db
func (u *Settings) Get(
	ctx context.Context,
	userID int64,
) (user *models.UserSettings, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Settings.Get: %w", err)
		}
	}()

	var (
		raw []byte
		out = models.UserSettings{UserID: userID}
	)
	err = u.db.Conn().QueryRow(ctx, `
		SELECT id, name, step, settings FROM user_settings WHERE chat_id = $1`,
		userID,
	).Scan(&out.ID, &out.Name, &out.Step, &raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, service.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err = sonic.Unmarshal(raw, &out.Settings); err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete in db
func (u *Settings) Delete(
	ctx context.Context,
	user *models.UserSettings,
) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("pg.Settings.Delete: %w", err)
		}
	}()

	_, err = u.db.Conn().Exec(ctx, `DELETE FROM user_settings WHERE chat_id = $1`, user.UserID)
	return err
}
