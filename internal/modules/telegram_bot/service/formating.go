package service

import (
	"fmt"
	"strings"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
	"contract_calc/internal/report"
)

type fieldInfo struct {
	label string
	hint  string
}

var fieldInfos = map[string]fieldInfo{
	calc.FieldInitialPrice:          {"Цена входа", "Введи *цену входа*, например: `2500`"},
	calc.FieldAddDiffPercent:        {"Шаг доливки, %", "Введи *шаг первой доливки* в %, например: `2`"},
	calc.FieldDiffMultiplier:        {"Множитель шага", "Введи *множитель шага*, например: `1.2`"},
	calc.FieldTpPercent:             {"TP, %", "Введи *тейк-профит* в % от средней, например: `1.5`"},
	calc.FieldInitialMargin:         {"Маржа входа", "Введи *маржу входа* в USDT, например: `10`"},
	calc.FieldAddMargin:             {"Маржа доливки", "Введи *базовую маржу доливки* в USDT, например: `10`"},
	calc.FieldAmountMultiplier:      {"Множитель маржи", "Введи *множитель маржи доливок*, например: `1.5`"},
	calc.FieldMaxAdds:               {"Доливок", "Введи *число доливок* (целое), например: `6`"},
	calc.FieldLeverage:              {"Плечо", "Введи *плечо*, например: `10`"},
	calc.FieldTakerFee:              {"Taker, %", "Введи *taker-комиссию* в %, например: `0.05`"},
	calc.FieldMakerFee:              {"Maker, %", "Введи *maker-комиссию* в %, например: `0.02`"},
	calc.FieldMaintenanceMarginRate: {"MMR, %", "Введи *поддерживающую маржу* в %, например: `0.5`"},
	calc.FieldFundingRate:           {"Фандинг, %", "Введи *ставку фандинга* в %, можно отрицательную, например: `0.01`"},
	calc.FieldFundingSettlements:    {"Выплат фандинга", "Введи *число выплат фандинга* за прогон (целое), например: `3`"},
	calc.FieldDirection:             {"Направление", "Введи `long` или `short`"},
	calc.FieldEntryPrice:            {"Вход", "Введи *цену входа*, например: `100`"},
	calc.FieldExitPrice:             {"Выход", "Введи *цену выхода*, например: `110`"},
	calc.FieldQuantity:              {"Объём", "Введи *объём* в монетах, например: `0.5`"},
}

// Порядок кнопок в меню.
var strategyFields = []string{
	calc.FieldInitialPrice, calc.FieldAddDiffPercent,
	calc.FieldDiffMultiplier, calc.FieldTpPercent,
	calc.FieldInitialMargin, calc.FieldAddMargin,
	calc.FieldAmountMultiplier, calc.FieldMaxAdds,
	calc.FieldLeverage, calc.FieldMaintenanceMarginRate,
	calc.FieldTakerFee, calc.FieldMakerFee,
	calc.FieldFundingRate, calc.FieldFundingSettlements,
}

var standardFields = []string{
	calc.FieldEntryPrice, calc.FieldExitPrice,
	calc.FieldQuantity, calc.FieldLeverage,
	calc.FieldTakerFee, calc.FieldMaintenanceMarginRate,
}

func fieldLabel(field string) string {
	if fi, ok := fieldInfos[field]; ok {
		return fi.label
	}
	return field
}

func fieldHint(field string) string {
	if fi, ok := fieldInfos[field]; ok {
		return fi.hint
	}
	return "Введи значение"
}

func formatStrategySettings(user *models.UserSettings) string {
	var sb strings.Builder
	sb.WriteString(report.ParamsMarkdown(user.Settings.Strategy))
	if p, ok := models.Presets[user.Settings.Preset]; ok {
		sb.WriteString(fmt.Sprintf("\nПресет: *%s*\n", p.Name))
	}
	sb.WriteString(fmt.Sprintf("Полная таблица: *%s*\n", onOff(user.Settings.FullTable)))
	return sb.String()
}

func formatStandardSettings(p models.StandardTradeParameters) string {
	return fmt.Sprintf(
		"*📐 Калькулятор сделки*\n\n"+
			"Направление: *%s*\n"+
			"Вход: `%s`\n"+
			"Выход: `%s`\n"+
			"Объём: `%s`\n"+
			"Плечо: `%sx`\n"+
			"Taker: `%s%%`\n"+
			"MMR: `%s%%`\n",
		directionName(p.Direction),
		report.Fixed(p.EntryPrice, 6),
		report.Fixed(p.ExitPrice, 6),
		report.Fixed(p.Quantity, 4),
		report.Fixed(p.Leverage, 0),
		report.Fixed(p.TakerFeeRate*100, 3),
		report.Fixed(p.MaintenanceMarginRate*100, 2),
	)
}

func directionName(d models.Direction) string {
	if d == models.DirectionShort {
		return "🔻 Шорт"
	}
	return "🔺 Лонг"
}

func fieldButtons(prefix string, fields []string) [][]tgbot.InlineKeyboardButton {
	var rows [][]tgbot.InlineKeyboardButton
	for i := 0; i < len(fields); i += 2 {
		row := []tgbot.InlineKeyboardButton{
			tgbot.NewInlineKeyboardButtonData(fieldLabel(fields[i]), prefix+fields[i]),
		}
		if i+1 < len(fields) {
			row = append(row, tgbot.NewInlineKeyboardButtonData(fieldLabel(fields[i+1]), prefix+fields[i+1]))
		}
		rows = append(rows, row)
	}
	return rows
}

func buildStrategyKeyboard(user *models.UserSettings) tgbot.InlineKeyboardMarkup {
	rows := [][]tgbot.InlineKeyboardButton{
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData("Направление: "+directionName(user.Settings.Strategy.Direction), cbStrategyDirection),
		),
	}
	rows = append(rows, fieldButtons(cbEditStrategy, strategyFields)...)

	presets := make([]tgbot.InlineKeyboardButton, 0, len(models.PresetOrder))
	for _, key := range models.PresetOrder {
		presets = append(presets, tgbot.NewInlineKeyboardButtonData(models.Presets[key].Name, cbPreset+key))
	}
	rows = append(rows, presets)

	rows = append(rows,
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData("📋 Таблица: "+onOff(user.Settings.FullTable), cbFullTable),
			tgbot.NewInlineKeyboardButtonData("♻️ Сброс", cbReset),
		),
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData("▶️ Рассчитать", cbRunMartingale),
		),
	)
	return tgbot.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func buildStandardKeyboard(p models.StandardTradeParameters) tgbot.InlineKeyboardMarkup {
	rows := [][]tgbot.InlineKeyboardButton{
		tgbot.NewInlineKeyboardRow(
			tgbot.NewInlineKeyboardButtonData("Направление: "+directionName(p.Direction), cbStandardDirection),
		),
	}
	rows = append(rows, fieldButtons(cbEditStandard, standardFields)...)
	rows = append(rows, tgbot.NewInlineKeyboardRow(
		tgbot.NewInlineKeyboardButtonData("▶️ Рассчитать", cbRunStandard),
	))
	return tgbot.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func formatHistory(list []*models.Calculation) string {
	if len(list) == 0 {
		return "📭 Расчётов пока нет."
	}

	var sb strings.Builder
	sb.WriteString("*🗂 Последние расчёты*\n\n")
	for i, c := range list {
		when := c.CreatedAt.UTC().Format("02.01 15:04")
		switch c.Kind {
		case models.KindMartingale:
			r := c.Martingale
			status := ""
			if r.Aborted() {
				status = " ⚠️"
			}
			sb.WriteString(fmt.Sprintf("%d. `%s` мартингейл %s от `%s`: доливок %d/%d, средняя `%s`%s\n",
				i+1, when, directionName(r.Params.Direction), report.Fixed(r.Params.InitialPrice, 6),
				len(r.Steps)-1, r.Params.MaxAdds, report.Fixed(r.Summary.FinalAvgPrice, 6), status))
		case models.KindStandard:
			s := c.Standard
			sb.WriteString(fmt.Sprintf("%d. `%s` сделка %s `%s` → `%s`: PnL `%s %s`\n",
				i+1, when, directionName(s.Params.Direction), report.Fixed(s.Params.EntryPrice, 6),
				report.Fixed(s.Params.ExitPrice, 6), f2(s.Result.Pnl), report.Quote))
		}
	}
	return sb.String()
}
