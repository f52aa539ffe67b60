package report

import (
	"fmt"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
)

// SummaryView — итог прогона, уже отформатированный для вывода.
type SummaryView struct {
	FinalAvgPrice  string    `json:"final_avg_price"`
	TotalMargin    string    `json:"total_margin"`
	UnrealizedPnl  string    `json:"unrealized_pnl"`
	PriceDiff      string    `json:"price_diff"`
	LiqPrice       string    `json:"liq_price"`
	LiqDiff        string    `json:"liq_diff"`
	LiqTone        calc.Tone `json:"liq_tone"`
	FundingTotal   string    `json:"funding_total"`
	FundingTone    calc.Tone `json:"funding_tone"`
	FinalTpProfit  string    `json:"final_tp_profit"`
	Termination    string    `json:"termination,omitempty"`
	StepsAccepted  int       `json:"steps_accepted"`
	StepsRequested int       `json:"steps_requested"`
}

// BuildSummary применяет правила отображения итога.
func BuildSummary(res *models.MartingaleResult) SummaryView {
	sum := res.Summary
	p := res.Params

	v := SummaryView{
		FinalAvgPrice:  Fixed(sum.FinalAvgPrice, 6),
		TotalMargin:    Fixed(sum.TotalMargin, 2),
		UnrealizedPnl:  Fixed(sum.FinalUnrealizedPnl, 2),
		FinalTpProfit:  Fixed(sum.FinalTpProfit, 2),
		StepsAccepted:  len(res.Steps) - 1,
		StepsRequested: p.MaxAdds,
	}

	switch {
	case sum.HasAdds && sum.PriceDiffPercentValue != nil:
		v.PriceDiff = Percent(*sum.PriceDiffPercentValue, 2)
	case p.MaxAdds <= 0:
		v.PriceDiff = "N/A (без доливок)"
	default:
		v.PriceDiff = "0.00% (доливок не было)"
	}

	switch {
	case !sum.HasTrades || sum.EstimatedLiqPrice == nil:
		v.LiqPrice = "не рассчитывается (нет позиции)"
		v.LiqDiff = notApplicable
		v.LiqTone = calc.ToneNeutral
	default:
		v.LiqPrice = LiqPrice(p.Direction, sum.EstimatedLiqPrice) + " " + Quote
		v.LiqDiff = OptPercent(sum.LiqDiffPercentValue, 2)
		v.LiqTone = calc.LiqTone(p.Direction, sum.LiqDiffPercentValue)
	}

	v.FundingTotal = Signed(sum.TotalEstimatedFundingCost, 4) + " " + Quote
	switch {
	case sum.TotalEstimatedFundingCost > 0:
		v.FundingTone = calc.ToneAdverse
	case sum.TotalEstimatedFundingCost < 0:
		v.FundingTone = calc.ToneSafe
	default:
		v.FundingTone = calc.ToneNeutral
	}

	if res.Termination != nil {
		v.Termination = TerminationText(res.Termination)
	}
	return v
}

// LiqPrice — цена ликвидации; зажатый в ноль лонг печатается как "≤0.000000".
func LiqPrice(dir models.Direction, liq *float64) string {
	switch {
	case liq == nil:
		return notApplicable
	case *liq <= 0 && dir == models.DirectionLong:
		return "≤" + Fixed(0, 6)
	default:
		return Fixed(*liq, 6)
	}
}

// TerminationText — строка вместо шага, на котором цена доливки ушла в ноль или ниже.
func TerminationText(t *models.Termination) string {
	return fmt.Sprintf(
		"Ошибка: расчётная цена доливки #%d (%s) невалидна, дальнейшие доливки не считаются.",
		t.Step, Fixed(t.AddPrice, 8),
	)
}
