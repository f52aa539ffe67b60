package calc

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"contract_calc/internal/models"
)

// Сырые значения формы: id поля -> строка, как ввёл пользователь.
// Разделитель дроби может быть и точкой, и запятой.

type formReader struct {
	values map[string]string
	errs   ValidationErrors
}

func (r *formReader) raw(field string) (string, bool) {
	s := strings.TrimSpace(r.values[field])
	if s == "" {
		r.errs.add(field, "is required")
		return "", false
	}
	return strings.ReplaceAll(s, ",", "."), true
}

func (r *formReader) float(field string) float64 {
	s, ok := r.raw(field)
	if !ok {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		r.errs.add(field, "must be a number")
		return 0
	}
	return v
}

func (r *formReader) int(field string) int {
	s, ok := r.raw(field)
	if !ok {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		r.errs.add(field, "must be an integer")
		return 0
	}
	return v
}

func (r *formReader) direction(field string) models.Direction {
	s, ok := r.raw(field)
	if !ok {
		return ""
	}
	d := models.Direction(strings.ToLower(s))
	if !d.Valid() {
		r.errs.add(field, "must be long or short")
		return ""
	}
	return d
}

// merge добавляет ошибки домена по полям, которые не упали ещё на разборе.
func (r *formReader) merge(err error) {
	var verrs ValidationErrors
	if !errors.As(err, &verrs) {
		return
	}
	for _, fe := range verrs {
		if !r.errs.Has(fe.Field) {
			r.errs = append(r.errs, fe)
		}
	}
}

// ParseStrategyForm разбирает форму мартингейла и проверяет домены.
// Возвращает все невалидные поля разом.
func ParseStrategyForm(values map[string]string) (models.StrategyParameters, error) {
	r := &formReader{values: values}

	p := models.StrategyParameters{
		Direction:             r.direction(FieldDirection),
		InitialPrice:          r.float(FieldInitialPrice),
		AddDiffPercent:        r.float(FieldAddDiffPercent),
		TpPercent:             r.float(FieldTpPercent),
		InitialMargin:         r.float(FieldInitialMargin),
		AddMarginBase:         r.float(FieldAddMargin),
		MaxAdds:               r.int(FieldMaxAdds),
		Leverage:              r.float(FieldLeverage),
		TakerFee:              r.float(FieldTakerFee),
		MakerFee:              r.float(FieldMakerFee),
		MaintenanceMarginRate: r.float(FieldMaintenanceMarginRate),
		FundingRate:           r.float(FieldFundingRate),
		FundingSettlements:    r.int(FieldFundingSettlements),
		AmountMultiplier:      r.float(FieldAmountMultiplier),
		DiffMultiplier:        r.float(FieldDiffMultiplier),
	}

	r.merge(ValidateStrategy(p))
	return p, r.errs.errOrNil()
}

// ParseStandardForm разбирает форму одной сделки.
// Комиссия и ММR вводятся в процентах и переводятся в десятичные доли.
func ParseStandardForm(values map[string]string) (models.StandardTradeParameters, error) {
	r := &formReader{values: values}

	p := models.StandardTradeParameters{
		Direction:             r.direction(FieldDirection),
		EntryPrice:            r.float(FieldEntryPrice),
		ExitPrice:             r.float(FieldExitPrice),
		Quantity:              r.float(FieldQuantity),
		Leverage:              r.float(FieldLeverage),
		TakerFeeRate:          r.float(FieldTakerFee) / 100,
		MaintenanceMarginRate: r.float(FieldMaintenanceMarginRate) / 100,
	}

	r.merge(ValidateStandard(p))
	return p, r.errs.errOrNil()
}

// StrategyForm — обратное преобразование: параметры в значения формы.
func StrategyForm(p models.StrategyParameters) map[string]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return map[string]string{
		FieldDirection:             string(p.Direction),
		FieldInitialPrice:          f(p.InitialPrice),
		FieldAddDiffPercent:        f(p.AddDiffPercent),
		FieldTpPercent:             f(p.TpPercent),
		FieldInitialMargin:         f(p.InitialMargin),
		FieldAddMargin:             f(p.AddMarginBase),
		FieldMaxAdds:               strconv.Itoa(p.MaxAdds),
		FieldLeverage:              f(p.Leverage),
		FieldTakerFee:              f(p.TakerFee),
		FieldMakerFee:              f(p.MakerFee),
		FieldMaintenanceMarginRate: f(p.MaintenanceMarginRate),
		FieldFundingRate:           f(p.FundingRate),
		FieldFundingSettlements:    strconv.Itoa(p.FundingSettlements),
		FieldAmountMultiplier:      f(p.AmountMultiplier),
		FieldDiffMultiplier:        f(p.DiffMultiplier),
	}
}

// StandardForm — параметры сделки обратно в форму, ставки снова в процентах.
func StandardForm(p models.StandardTradeParameters) map[string]string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return map[string]string{
		FieldDirection:             string(p.Direction),
		FieldEntryPrice:            f(p.EntryPrice),
		FieldExitPrice:             f(p.ExitPrice),
		FieldQuantity:              f(p.Quantity),
		FieldLeverage:              f(p.Leverage),
		FieldTakerFee:              f(p.TakerFeeRate * 100),
		FieldMaintenanceMarginRate: f(p.MaintenanceMarginRate * 100),
	}
}
