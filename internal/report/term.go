package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
)

var (
	primaryColor = lipgloss.Color("#0077cc")
	errorColor   = lipgloss.Color("#cc3300")
	successColor = lipgloss.Color("#33cc33")
	mutedColor   = lipgloss.Color("#999999")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(primaryColor).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(mutedColor).Width(22)
	warnStyle   = lipgloss.NewStyle().Foreground(errorColor).Bold(true)
)

// PlainTable — таблица без цветов, для моноширинного блока в Telegram.
func PlainTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderColumn(false).
		Headers(headers...).
		Rows(rows...).
		String()
}

func toneStyle(t calc.Tone) lipgloss.Style {
	switch t {
	case calc.ToneSafe:
		return lipgloss.NewStyle().Foreground(successColor)
	case calc.ToneAdverse:
		return lipgloss.NewStyle().Foreground(errorColor)
	}
	return lipgloss.NewStyle()
}

// TermMartingale — отчёт для терминала: таблица шагов целиком и итог.
func TermMartingale(res *models.MartingaleResult) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(mutedColor)).
		Headers(StepHeaders()...).
		Rows(StepRows(res.Steps)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle.Align(lipgloss.Right)
		})

	v := BuildSummary(res)
	lines := []string{
		line("Средняя цена", v.FinalAvgPrice, calc.ToneNeutral),
		line("Всего маржи", v.TotalMargin+" "+Quote, calc.ToneNeutral),
		line("Нереализованный PnL", v.UnrealizedPnl+" "+Quote, calc.ToneNeutral),
		line("Отклонение цены", v.PriceDiff, calc.ToneNeutral),
		line("Ликвидация", v.LiqPrice, calc.ToneNeutral),
		line("До ликвидации", v.LiqDiff, v.LiqTone),
		line("Фандинг", v.FundingTotal, v.FundingTone),
		line("Профит на TP", v.FinalTpProfit+" "+Quote, calc.ToneNeutral),
	}

	parts := []string{
		titleStyle.Render(fmt.Sprintf("Мартингейл %s", directionTitle(res.Params.Direction))),
		t.String(),
	}
	if v.Termination != "" {
		parts = append(parts, warnStyle.Render(v.Termination))
	}
	parts = append(parts, strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// TermStandard — результат одной сделки для терминала.
func TermStandard(p models.StandardTradeParameters, r models.StandardTradeResult) string {
	pnlTone := calc.ToneSafe
	if r.Pnl < 0 {
		pnlTone = calc.ToneAdverse
	}
	liq := "не рассчитывается"
	if r.LiquidationPrice != nil {
		liq = LiqPrice(p.Direction, r.LiquidationPrice)
	}

	lines := []string{
		line("PnL", Fixed(r.Pnl, 2)+" "+Quote, pnlTone),
		line("ROE", Percent(r.Roe, 2), pnlTone),
		line("Ликвидация", liq, calc.ToneNeutral),
		line("Комиссии", Fixed(r.TotalFees, 4)+" "+Quote, calc.ToneNeutral),
		line("Маржа", Fixed(r.InitialMargin, 2)+" "+Quote, calc.ToneNeutral),
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Сделка %s", directionTitle(p.Direction))),
		strings.Join(lines, "\n"),
	)
}

func line(label, value string, tone calc.Tone) string {
	return labelStyle.Render(label) + toneStyle(tone).Render(value)
}
