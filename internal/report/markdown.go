package report

import (
	"fmt"
	"strings"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
)

// compactColumns — колонки, которые влезают в сообщение Telegram.
var compactColumns = []int{0, 1, 3, 6, 8, 9}

func toneMark(tone calc.Tone) string {
	switch tone {
	case calc.ToneSafe:
		return "🟢 "
	case calc.ToneAdverse:
		return "🔴 "
	}
	return ""
}

func directionTitle(d models.Direction) string {
	if d == models.DirectionShort {
		return "Шорт"
	}
	return "Лонг"
}

// ParamsMarkdown — блок параметров прогона.
func ParamsMarkdown(p models.StrategyParameters) string {
	return fmt.Sprintf(
		"*🎯 Мартингейл: %s*\n\n"+
			"Цена входа: `%s`\n"+
			"Шаг доливки: `%s%%` × `%s`\n"+
			"TP: `%s%%`\n"+
			"Маржа: `%s` + `%s` × `%s`\n"+
			"Доливок: `%d`\n"+
			"Плечо: `%sx`\n"+
			"Комиссия taker/maker: `%s%%` / `%s%%`\n"+
			"MMR: `%s%%`\n"+
			"Фандинг: `%s%%` × `%d`\n",
		directionTitle(p.Direction),
		Fixed(p.InitialPrice, 6),
		Fixed(p.AddDiffPercent, 2), Fixed(p.DiffMultiplier, 2),
		Fixed(p.TpPercent, 2),
		Fixed(p.InitialMargin, 2), Fixed(p.AddMarginBase, 2), Fixed(p.AmountMultiplier, 2),
		p.MaxAdds,
		Fixed(p.Leverage, 0),
		Fixed(p.TakerFee, 3), Fixed(p.MakerFee, 3),
		Fixed(p.MaintenanceMarginRate, 2),
		Fixed(p.FundingRate, 4), p.FundingSettlements,
	)
}

// SummaryMarkdown — итог прогона.
func SummaryMarkdown(v SummaryView) string {
	var sb strings.Builder
	sb.WriteString("*📊 Итог*\n\n")
	sb.WriteString(fmt.Sprintf("Средняя цена: `%s`\n", v.FinalAvgPrice))
	sb.WriteString(fmt.Sprintf("Всего маржи: `%s %s`\n", v.TotalMargin, Quote))
	sb.WriteString(fmt.Sprintf("Нереализованный PnL: `%s %s`\n", v.UnrealizedPnl, Quote))
	sb.WriteString(fmt.Sprintf("Отклонение цены: `%s`\n", v.PriceDiff))
	sb.WriteString(fmt.Sprintf("Ликвидация: `%s`\n", v.LiqPrice))
	sb.WriteString(fmt.Sprintf("До ликвидации: %s`%s`\n", toneMark(v.LiqTone), v.LiqDiff))
	sb.WriteString(fmt.Sprintf("Фандинг: %s`%s`\n", toneMark(v.FundingTone), v.FundingTotal))
	sb.WriteString(fmt.Sprintf("Профит на TP: `%s %s`\n", v.FinalTpProfit, Quote))
	if v.Termination != "" {
		sb.WriteString("\n⚠️ " + v.Termination + "\n")
	}
	return sb.String()
}

// MartingaleMarkdown — полный ответ бота: параметры, компактная таблица шагов, итог.
// maxRows ограничивает число строк таблицы, остальное уходит в /export.
func MartingaleMarkdown(res *models.MartingaleResult, maxRows int) string {
	var sb strings.Builder
	sb.WriteString(ParamsMarkdown(res.Params))
	sb.WriteString("\n")

	steps := res.Steps
	cut := 0
	if maxRows > 0 && len(steps) > maxRows {
		cut = len(steps) - maxRows
		steps = steps[:maxRows]
	}

	headers := pick(StepHeaders(), compactColumns)
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, pick(StepRow(s), compactColumns))
	}
	sb.WriteString("```\n")
	sb.WriteString(PlainTable(headers, rows))
	sb.WriteString("\n```\n")
	if cut > 0 {
		sb.WriteString(fmt.Sprintf("_…ещё %d шаг(ов), полная таблица: /export_\n", cut))
	}
	sb.WriteString("\n")

	sb.WriteString(SummaryMarkdown(BuildSummary(res)))
	return sb.String()
}

// StandardMarkdown — результат калькулятора одной сделки.
func StandardMarkdown(p models.StandardTradeParameters, r models.StandardTradeResult) string {
	liq := "не рассчитывается"
	if r.LiquidationPrice != nil {
		liq = LiqPrice(p.Direction, r.LiquidationPrice)
	}
	return fmt.Sprintf(
		"*📐 Сделка: %s*\n\n"+
			"Вход / выход: `%s` → `%s`\n"+
			"Объём: `%s`, плечо `%sx`\n\n"+
			"PnL: `%s %s`\n"+
			"ROE: `%s`\n"+
			"Ликвидация: `%s`\n"+
			"Комиссии: `%s %s`\n"+
			"Маржа: `%s %s`\n",
		directionTitle(p.Direction),
		Fixed(p.EntryPrice, 6), Fixed(p.ExitPrice, 6),
		Fixed(p.Quantity, 4), Fixed(p.Leverage, 0),
		Fixed(r.Pnl, 2), Quote,
		Percent(r.Roe, 2),
		liq,
		Fixed(r.TotalFees, 4), Quote,
		Fixed(r.InitialMargin, 2), Quote,
	)
}

// HelpMarkdown — описание колонок таблицы шагов.
func HelpMarkdown() string {
	var sb strings.Builder
	sb.WriteString("*ℹ️ Колонки таблицы*\n\n")
	for _, c := range StepColumns {
		sb.WriteString(fmt.Sprintf("*%s* — %s\n", c.Title, c.Hint))
	}
	return sb.String()
}

func pick(row []string, idx []int) []string {
	out := make([]string, 0, len(idx))
	for _, i := range idx {
		out = append(out, row[i])
	}
	return out
}
