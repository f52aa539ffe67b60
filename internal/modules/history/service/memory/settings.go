package memory

import (
	"context"
	"sync"

	"contract_calc/internal/models"
	"contract_calc/internal/modules/history/service"
)

type Settings struct {
	mu   sync.RWMutex
	data map[int64]*models.UserSettings
}

var _ service.Settings = (*Settings)(nil)

func NewSettings() *Settings {
	return &Settings{
		data: make(map[int64]*models.UserSettings),
	}
}

func (u *Settings) Create(_ context.Context, user *models.UserSettings) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	cp := *user
	u.data[user.UserID] = &cp
	return nil
}

func (u *Settings) Update(_ context.Context, user *models.UserSettings) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	cp := *user
	u.data[user.UserID] = &cp
	return nil
}

// Get отдаёт копию: правки вызывающего не видны, пока он не вызовет Update.
func (u *Settings) Get(_ context.Context, userID int64) (*models.UserSettings, error) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	user, ok := u.data[userID]
	if !ok {
		return nil, service.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (u *Settings) Delete(_ context.Context, user *models.UserSettings) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.data, user.UserID)
	return nil
}
