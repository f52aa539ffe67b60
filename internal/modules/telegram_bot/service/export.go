package service

import (
	"context"
	"errors"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	history "contract_calc/internal/modules/history/service"
	"contract_calc/internal/report"
	"contract_calc/pkg/logger"
)

// handleExport — последний прогон пользователя CSV-документом.
func (t *Telegram) handleExport(ctx context.Context, chatID int64) {
	res, err := t.calc.LastMartingale(ctx, chatID)
	if errors.Is(err, history.ErrNotFound) {
		_, _ = t.Send(ctx, chatID, "📭 Сначала посчитай мартингейл: /calc")
		return
	}
	if err != nil {
		logger.Error("export for %d: %v", chatID, err)
		_, _ = t.Send(ctx, chatID, "⚠️ Не удалось загрузить последний расчёт.")
		return
	}

	doc := tgbot.NewDocument(chatID, tgbot.FileBytes{
		Name:  report.ExportFileName(res.Params, "csv"),
		Bytes: []byte(report.RenderCSV(res)),
	})
	doc.Caption = "Полная таблица шагов"
	if _, err := t.bot.Send(doc); err != nil {
		logger.Error("send export to %d: %v", chatID, err)
		_, _ = t.Send(ctx, chatID, "⚠️ Не удалось отправить файл.")
	}
}
