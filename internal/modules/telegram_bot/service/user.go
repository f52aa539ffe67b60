package service

import (
	"context"
	"errors"
	"fmt"

	"contract_calc/internal/models"
	history "contract_calc/internal/modules/history/service"
)

func (t *Telegram) getUser(ctx context.Context, chatID int64) (*models.UserSettings, error) {
	user, err := t.repo.Get(ctx, chatID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, history.ErrNotFound) {
		return nil, fmt.Errorf("get user settings: %w", err)
	}

	user = models.NewUserSettings(chatID, t.defaults)
	if err := t.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user settings: %w", err)
	}
	return user, nil
}
