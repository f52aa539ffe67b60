package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
)

func (t *Telegram) askValue(ctx context.Context, chatID int64, key string) {
	_, field := splitAwait(key)
	if _, ok := fieldInfos[field]; !ok {
		_, _ = t.Send(ctx, chatID, "❗️Неизвестная настройка")
		return
	}
	t.setAwait(chatID, key)
	_, _ = t.Send(ctx, chatID, "✍️ "+fieldHint(field)+"\n\nОтмена: напиши `"+cancelWord+"`")
}

// handleAwaitValue подставляет введённое значение в форму и прогоняет её через
// тот же парсер, что и API. Ошибка по этому полю — просим ввести заново.
func (t *Telegram) handleAwaitValue(ctx context.Context, chatID int64, text, key string) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	kind, field := splitAwait(key)

	var fieldErr string
	switch kind {
	case awaitStrategy:
		values := calc.StrategyForm(user.Settings.Strategy)
		values[field] = text
		p, err := calc.ParseStrategyForm(values)
		fieldErr = fieldReason(err, field)
		if fieldErr == "" && field == calc.FieldMaxAdds && p.MaxAdds > t.calc.MaxAdds() {
			fieldErr = "не больше " + strconv.Itoa(t.calc.MaxAdds())
		}
		if fieldErr == "" {
			user.Settings.Strategy = p
			user.Settings.Preset = ""
		}

	case awaitStandard:
		values := calc.StandardForm(user.Settings.Standard)
		values[field] = text
		p, err := calc.ParseStandardForm(values)
		fieldErr = fieldReason(err, field)
		if fieldErr == "" {
			user.Settings.Standard = p
		}

	default:
		t.clearAwait(chatID)
		_, _ = t.Send(ctx, chatID, "❗️Неизвестная настройка")
		return
	}

	if fieldErr != "" {
		_, _ = t.SendF(ctx, chatID, "❗️%s: %s. Попробуй ещё раз или напиши `%s`", fieldLabel(field), fieldErr, cancelWord)
		return
	}

	if err := t.repo.Update(ctx, user); err != nil {
		_, _ = t.Send(ctx, chatID, "⚠️ Не удалось сохранить настройку: "+err.Error())
		return
	}

	// ✅ успех — чистим await
	t.popAwait(chatID)
	_, _ = t.Send(ctx, chatID, "✅ Сохранено")
	t.backToMenu(ctx, chatID, key)
}

// fieldReason — сообщение об ошибке только по указанному полю.
func fieldReason(err error, field string) string {
	var verr calc.ValidationErrors
	if !errors.As(err, &verr) {
		return ""
	}
	if reason, ok := verr.Fields()[field]; ok {
		return reasonText(reason)
	}
	return ""
}

// применить пресет
func (t *Telegram) applyPreset(ctx context.Context, chatID int64, key string) {
	user, err := t.getUser(ctx, chatID)
	if err != nil {
		_, _ = t.Send(ctx, chatID, "Настройки не найдены, попробуй /start")
		return
	}

	if !user.ApplyPreset(key) {
		_, _ = t.Send(ctx, chatID, "Неизвестный пресет")
		return
	}
	if err := t.repo.Update(ctx, user); err != nil {
		_, _ = t.Send(ctx, chatID, "⚠️ Не удалось сохранить: "+err.Error())
		return
	}

	p := models.Presets[key]
	_, _ = t.Send(ctx, chatID, fmt.Sprintf("✅ Применён пресет: *%s*\n%s", p.Name, p.Description))
	t.handleSettingsMenu(ctx, chatID)
}
