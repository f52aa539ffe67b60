package service

import (
	"context"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"contract_calc/internal/models"
)

func (t *Telegram) toggleDirection(ctx context.Context, chatID int64, msg *tgbot.Message) {
	t.updateUser(ctx, chatID, func(user *models.UserSettings) {
		user.Settings.Strategy.Direction = directionFlip(user.Settings.Strategy.Direction)
	})
	t.refreshMenu(ctx, chatID, msg, false)
}

func (t *Telegram) toggleStandardDirection(ctx context.Context, chatID int64, msg *tgbot.Message) {
	t.updateUser(ctx, chatID, func(user *models.UserSettings) {
		user.Settings.Standard.Direction = directionFlip(user.Settings.Standard.Direction)
	})
	t.refreshMenu(ctx, chatID, msg, true)
}

func (t *Telegram) toggleFullTable(ctx context.Context, chatID int64, msg *tgbot.Message) {
	t.updateUser(ctx, chatID, func(user *models.UserSettings) {
		user.Settings.FullTable = !user.Settings.FullTable
	})
	t.refreshMenu(ctx, chatID, msg, false)
}

// resetStrategy — параметры мартингейла обратно к дефолтам сервиса.
func (t *Telegram) resetStrategy(ctx context.Context, chatID int64, msg *tgbot.Message) {
	t.updateUser(ctx, chatID, func(user *models.UserSettings) {
		user.Settings.Strategy = t.defaults
		user.Settings.Preset = ""
	})
	t.refreshMenu(ctx, chatID, msg, false)
}

func (t *Telegram) updateUser(ctx context.Context, chatID int64, fn func(user *models.UserSettings)) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}
	fn(user)
	if err := t.repo.Update(ctx, user); err != nil {
		_, _ = t.Send(ctx, chatID, "⚠️ Не удалось сохранить: "+err.Error())
	}
}
