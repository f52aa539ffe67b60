package report

import (
	"strconv"

	"contract_calc/internal/models"
)

// Column — колонка таблицы шагов с подсказкой для /help.
type Column struct {
	Key   string
	Title string
	Hint  string
}

var StepColumns = []Column{
	{"step", "Шаг", "0 — первый вход, дальше номер доливки"},
	{"add_price", "Цена", "Цена входа или доливки"},
	{"add_quantity", "Кол-во", "Объём, рассчитанный из маржи и плеча"},
	{"add_margin", "Маржа", "Маржа этого шага, " + Quote},
	{"opening_fee", "Комиссия", "Оценка комиссии за открытие этого шага"},
	{"unrealized_pnl", "PnL", "Нереализованный PnL всей позиции по цене этого шага относительно новой средней"},
	{"avg_price", "Средняя", "Средняя цена всех исполненных входов"},
	{"tp_price", "Цена TP", "Цель тейка от текущей средней"},
	{"tp_profit", "Профит TP", "Прибыль при закрытии всей позиции по цене TP за вычетом всех комиссий открытия, комиссии закрытия и фандинга этого шага"},
	{"percent_to_tp", "До TP", "Сколько процентов цене нужно пройти от этого шага до TP"},
}

// StepRow — одна строка таблицы в порядке StepColumns.
func StepRow(s models.StepRecord) []string {
	return []string{
		strconv.Itoa(s.Step),
		Fixed(s.AddPrice, 6),
		Fixed(s.AddQuantity, 4),
		Fixed(s.AddMargin, 2),
		Fixed(s.OpeningFee, 4),
		Fixed(s.UnrealizedPnl, 2),
		Fixed(s.AvgPrice, 6),
		Fixed(s.TpPrice, 6),
		Fixed(s.TpProfit, 2),
		Percent(s.PercentToTp, 2),
	}
}

func StepHeaders() []string {
	out := make([]string, 0, len(StepColumns))
	for _, c := range StepColumns {
		out = append(out, c.Title)
	}
	return out
}

func StepRows(steps []models.StepRecord) [][]string {
	rows := make([][]string, 0, len(steps))
	for _, s := range steps {
		rows = append(rows, StepRow(s))
	}
	return rows
}
