package calc

import (
	"math"

	"contract_calc/internal/models"
)

// Tone — как подсвечивать дистанцию до ликвидации.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneSafe
	ToneAdverse
)

func (t Tone) String() string {
	switch t {
	case ToneSafe:
		return "safe"
	case ToneAdverse:
		return "adverse"
	}
	return "neutral"
}

// MarshalText — в JSON тон уходит строкой.
func (t Tone) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func ptr(v float64) *float64 { return &v }

// LiquidationPrice — приближённая цена ликвидации по итоговой позиции.
// Лонг зажимается в 0, отрицательный шорт — nil.
func LiquidationPrice(dir models.Direction, avgPrice, totalMargin, totalQuantity, mmrPercent float64) *float64 {
	if totalQuantity <= 0 {
		return nil
	}
	mmr := mmrPercent / 100
	marginPerUnit := totalMargin / totalQuantity

	if dir == models.DirectionShort {
		liq := avgPrice*(1-mmr) + marginPerUnit
		if liq < 0 {
			return nil
		}
		return ptr(liq)
	}

	liq := avgPrice*(1+mmr) - marginPerUnit
	return ptr(math.Max(liq, 0))
}

// LiqTone: для лонга опасно, когда ликвидация ниже среднего, для шорта — выше.
func LiqTone(dir models.Direction, liqDiffPercent *float64) Tone {
	if liqDiffPercent == nil {
		return ToneNeutral
	}
	v := *liqDiffPercent
	if (dir == models.DirectionLong && v < 0) || (dir == models.DirectionShort && v > 0) {
		return ToneAdverse
	}
	return ToneSafe
}

// Summarize сворачивает принятые шаги в итог.
func Summarize(
	p models.StrategyParameters,
	steps []models.StepRecord,
	final models.PositionState,
	priceOfLastTrade float64,
) models.SummaryResult {
	hasTrades := final.TotalQuantity > 0

	var hasAdds bool
	var totalFunding float64
	for _, s := range steps {
		totalFunding += s.StepFundingCost
		if s.Step > 0 {
			hasAdds = true
		}
	}

	finalAvg := p.InitialPrice
	if hasTrades {
		finalAvg = final.AvgPrice
	}

	lastPrice := priceOfLastTrade
	if lastPrice == 0 {
		lastPrice = p.InitialPrice
	}

	var unrealized float64
	if hasTrades {
		if p.Direction == models.DirectionLong {
			unrealized = final.TotalQuantity * (lastPrice - finalAvg)
		} else {
			unrealized = final.TotalQuantity * (finalAvg - lastPrice)
		}
	}

	liq := LiquidationPrice(p.Direction, finalAvg, final.TotalMargin, final.TotalQuantity, p.MaintenanceMarginRate)

	var liqDiff *float64
	if liq != nil && finalAvg != 0 {
		liqDiff = ptr((*liq - finalAvg) / finalAvg * 100)
	}

	var priceDiff *float64
	if hasAdds && p.InitialPrice != 0 {
		priceDiff = ptr((priceOfLastTrade - p.InitialPrice) / p.InitialPrice * 100)
	}

	var finalTp float64
	switch {
	case hasTrades:
		tpPrice := tpPriceFrom(finalAvg, p.TpPercent, p.Direction)
		closingFee := Fee(final.TotalQuantity, tpPrice, p.TakerFee)
		gross := final.TotalQuantity * math.Abs(tpPrice-finalAvg)
		finalTp = gross - final.AccumulatedOpeningFees - closingFee - totalFunding
	case len(steps) > 0:
		finalTp = steps[0].TpProfit
	}

	return models.SummaryResult{
		FinalAvgPrice:             finalAvg,
		TotalMargin:               final.TotalMargin,
		FinalUnrealizedPnl:        unrealized,
		EstimatedLiqPrice:         liq,
		PriceDiffPercentValue:     priceDiff,
		LiqDiffPercentValue:       liqDiff,
		TotalEstimatedFundingCost: totalFunding,
		FinalTpProfit:             finalTp,
		HasTrades:                 hasTrades,
		HasAdds:                   hasAdds,
	}
}
