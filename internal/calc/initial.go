package calc

import (
	"math"

	"contract_calc/internal/models"
)

// tpPriceFrom — цель тейка от цены по направлению.
func tpPriceFrom(price, tpPercent float64, dir models.Direction) float64 {
	return price * (1 + dir.Sign()*tpPercent/100)
}

// InitialPosition считает шаг 0 и сеет накопитель позиции.
func InitialPosition(p models.StrategyParameters, funding FundingEstimator) (models.StepRecord, models.PositionState) {
	quantity := p.InitialMargin * p.Leverage / p.InitialPrice
	tpPrice := tpPriceFrom(p.InitialPrice, p.TpPercent, p.Direction)

	openingFee := Fee(quantity, p.InitialPrice, p.TakerFee)
	closingFeeAtTp := Fee(quantity, tpPrice, p.TakerFee)
	stepFunding := funding.StepCost(quantity, p.InitialPrice)

	tpProfit := quantity*math.Abs(tpPrice-p.InitialPrice) - openingFee - closingFeeAtTp - stepFunding

	var percentToTp float64
	if p.InitialPrice != 0 {
		percentToTp = (tpPrice - p.InitialPrice) / p.InitialPrice * 100
	}

	rec := models.StepRecord{
		Step:                   0,
		AddPrice:               p.InitialPrice,
		AddQuantity:            quantity,
		AddMargin:              p.InitialMargin,
		OpeningFee:             openingFee,
		AccumulatedOpeningFees: openingFee,
		StepFundingCost:        stepFunding,
		UnrealizedPnl:          0,
		AvgPrice:               p.InitialPrice,
		TpPrice:                tpPrice,
		TpProfit:               tpProfit,
		PercentToTp:            percentToTp,
		CumulativeDiffPercent:  0,
		TotalMargin:            p.InitialMargin,
		TotalQuantity:          quantity,
	}

	state := models.PositionState{
		TotalMargin:            p.InitialMargin,
		TotalQuantity:          quantity,
		AvgPrice:               p.InitialPrice,
		AccumulatedOpeningFees: openingFee,
	}
	return rec, state
}
