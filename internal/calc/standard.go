package calc

import (
	"math"

	"contract_calc/internal/models"
)

// CalculateStandard — одна сделка вход/выход. Ставки десятичные (0.0005 = 0.05%).
func CalculateStandard(p models.StandardTradeParameters) (models.StandardTradeResult, error) {
	if err := ValidateStandard(p); err != nil {
		return models.StandardTradeResult{}, err
	}
	return standard(p), nil
}

func standard(p models.StandardTradeParameters) models.StandardTradeResult {
	var initialMargin float64
	if p.Leverage > 0 {
		initialMargin = p.EntryPrice * p.Quantity / p.Leverage
	}

	openingFee := p.EntryPrice * p.Quantity * p.TakerFeeRate
	closingFee := p.ExitPrice * p.Quantity * p.TakerFeeRate
	totalFees := openingFee + closingFee

	var pnl float64
	if p.Direction == models.DirectionShort {
		pnl = (p.EntryPrice-p.ExitPrice)*p.Quantity - totalFees
	} else {
		pnl = (p.ExitPrice-p.EntryPrice)*p.Quantity - totalFees
	}

	var roe float64
	if initialMargin > 0 {
		roe = pnl / initialMargin * 100
	}

	return models.StandardTradeResult{
		Pnl:              pnl,
		Roe:              roe,
		LiquidationPrice: standardLiquidation(p.Direction, p.EntryPrice, p.Leverage, p.MaintenanceMarginRate),
		TotalFees:        totalFees,
		InitialMargin:    initialMargin,
	}
}

func standardLiquidation(dir models.Direction, entry, leverage, mmr float64) *float64 {
	if leverage <= 0 {
		return nil
	}
	if dir == models.DirectionShort {
		if mmr <= -1 {
			return nil
		}
		liq := entry * (1 + 1/leverage) / (1 + mmr)
		if liq < 0 {
			return nil
		}
		return ptr(liq)
	}

	if mmr >= 1 {
		return nil
	}
	liq := entry * (1 - 1/leverage) / (1 - mmr)
	return ptr(math.Max(liq, 0))
}
