package calc

import "contract_calc/internal/models"

// FundingEstimator размазывает ожидаемое число расчётов фандинга
// поровну на maxAdds+1 виртуальных шагов. Дробное число событий на шаг — норма.
type FundingEstimator struct {
	ratePercent   float64
	eventsPerStep float64
}

func NewFundingEstimator(fundingRatePercent float64, settlements, maxAdds int) FundingEstimator {
	var perStep float64
	if maxAdds >= 0 {
		perStep = float64(settlements) / (float64(maxAdds) + 1)
	}
	return FundingEstimator{
		ratePercent:   fundingRatePercent,
		eventsPerStep: perStep,
	}
}

// FundingFor — эстиматор под параметры прогона.
func FundingFor(p models.StrategyParameters) FundingEstimator {
	return NewFundingEstimator(p.FundingRate, p.FundingSettlements, p.MaxAdds)
}

// StepCost — фандинг за шаг для позиции quantity по цене price (после шага).
// Положительное значение — платим, отрицательное — получаем.
func (f FundingEstimator) StepCost(quantity, price float64) float64 {
	positionValue := quantity * price
	return positionValue * (f.ratePercent / 100) * f.eventsPerStep
}
