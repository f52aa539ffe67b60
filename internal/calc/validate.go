package calc

import (
	"math"

	"contract_calc/internal/models"
)

// Ключи полей совпадают с id полей формы, по ним бот и API подсвечивают ошибки.
const (
	FieldDirection             = "direction"
	FieldInitialPrice          = "initial-price"
	FieldAddDiffPercent        = "add-diff-percent"
	FieldTpPercent             = "tp-percent"
	FieldInitialMargin         = "initial-margin"
	FieldAddMargin             = "add-margin"
	FieldMaxAdds               = "max-adds"
	FieldLeverage              = "leverage"
	FieldTakerFee              = "taker-fee"
	FieldMakerFee              = "maker-fee"
	FieldMaintenanceMarginRate = "maintenance-margin-rate"
	FieldFundingRate           = "funding-rate"
	FieldFundingSettlements    = "funding-settlements"
	FieldAmountMultiplier      = "amount-multiplier"
	FieldDiffMultiplier        = "diff-multiplier"

	FieldEntryPrice = "entry-price"
	FieldExitPrice  = "exit-price"
	FieldQuantity   = "quantity"
)

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func positive(v float64) bool {
	return finite(v) && v > 0
}

// ValidateStrategy проверяет домены всех полей до начала расчёта.
func ValidateStrategy(p models.StrategyParameters) error {
	var errs ValidationErrors

	if !p.Direction.Valid() {
		errs.add(FieldDirection, "must be long or short")
	}
	if !positive(p.InitialPrice) {
		errs.add(FieldInitialPrice, "must be a number > 0")
	}
	if !positive(p.AddDiffPercent) {
		errs.add(FieldAddDiffPercent, "must be a number > 0")
	}
	if !positive(p.TpPercent) {
		errs.add(FieldTpPercent, "must be a number > 0")
	}
	if !positive(p.InitialMargin) {
		errs.add(FieldInitialMargin, "must be a number > 0")
	}
	if !positive(p.AddMarginBase) {
		errs.add(FieldAddMargin, "must be a number > 0")
	}
	if p.MaxAdds < 0 {
		errs.add(FieldMaxAdds, "must not be negative")
	}
	if !finite(p.Leverage) || p.Leverage < 1 {
		errs.add(FieldLeverage, "must be a number >= 1")
	}
	if !finite(p.TakerFee) || p.TakerFee < 0 {
		errs.add(FieldTakerFee, "must not be negative")
	}
	if !finite(p.MakerFee) || p.MakerFee < 0 {
		errs.add(FieldMakerFee, "must not be negative")
	}
	if !finite(p.MaintenanceMarginRate) || p.MaintenanceMarginRate < 0 || p.MaintenanceMarginRate > 100 {
		errs.add(FieldMaintenanceMarginRate, "must be between 0 and 100")
	}
	if !finite(p.FundingRate) {
		errs.add(FieldFundingRate, "must be a number")
	}
	if p.FundingSettlements < 0 {
		errs.add(FieldFundingSettlements, "must be a non-negative integer")
	}
	if !positive(p.AmountMultiplier) {
		errs.add(FieldAmountMultiplier, "must be a number > 0")
	}
	if !positive(p.DiffMultiplier) {
		errs.add(FieldDiffMultiplier, "must be a number > 0")
	}

	return errs.errOrNil()
}

// ValidateStandard — домены калькулятора одной сделки.
// Ставки здесь десятичные, поэтому ММR ограничена [0, 1).
func ValidateStandard(p models.StandardTradeParameters) error {
	var errs ValidationErrors

	if !p.Direction.Valid() {
		errs.add(FieldDirection, "must be long or short")
	}
	if !positive(p.EntryPrice) {
		errs.add(FieldEntryPrice, "must be a number > 0")
	}
	if !positive(p.ExitPrice) {
		errs.add(FieldExitPrice, "must be a number > 0")
	}
	if !positive(p.Quantity) {
		errs.add(FieldQuantity, "must be a number > 0")
	}
	if !finite(p.Leverage) || p.Leverage < 1 {
		errs.add(FieldLeverage, "must be a number >= 1")
	}
	if !finite(p.TakerFeeRate) || p.TakerFeeRate < 0 {
		errs.add(FieldTakerFee, "must not be negative")
	}
	if !finite(p.MaintenanceMarginRate) || p.MaintenanceMarginRate < 0 || p.MaintenanceMarginRate >= 1 {
		errs.add(FieldMaintenanceMarginRate, "must be between 0 and less than 100 percent")
	}

	return errs.errOrNil()
}
