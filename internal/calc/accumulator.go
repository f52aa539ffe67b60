package calc

import (
	"math"

	"contract_calc/internal/models"
)

// AddMarginAt — маржа доливки step (step >= 1): base * amountMultiplier^(step-1).
func AddMarginAt(p models.StrategyParameters, step int) float64 {
	return p.AddMarginBase * math.Pow(p.AmountMultiplier, float64(step-1))
}

// diffTerm — отступ k-й доливки: addDiffPercent * diffMultiplier^(k-1).
func diffTerm(p models.StrategyParameters, k int) float64 {
	return p.AddDiffPercent * math.Pow(p.DiffMultiplier, float64(k-1))
}

// CumulativeDiffPercent — суммарный отступ от начальной цены для доливки step,
// пересчитанный с нуля только из параметров.
func CumulativeDiffPercent(p models.StrategyParameters, step int) float64 {
	var sum float64
	for k := 1; k <= step; k++ {
		sum += diffTerm(p, k)
	}
	return sum
}

// AddPriceAt — цена доливки при суммарном отступе cumDiffPercent.
func AddPriceAt(p models.StrategyParameters, cumDiffPercent float64) float64 {
	if p.Direction == models.DirectionShort {
		return p.InitialPrice * (1 + cumDiffPercent/100)
	}
	return p.InitialPrice * (1 - cumDiffPercent/100)
}

// AddStep — одна доливка поверх prior.
// При addPrice <= 0 возвращает *InvalidAddPriceError и prior без изменений.
func AddStep(
	p models.StrategyParameters,
	funding FundingEstimator,
	prior models.PositionState,
	step int,
	cumDiffPercent float64,
) (models.StepRecord, models.PositionState, error) {
	addMargin := AddMarginAt(p, step)

	addPrice := AddPriceAt(p, cumDiffPercent)
	if addPrice <= 0 {
		return models.StepRecord{}, prior, &InvalidAddPriceError{Step: step, AddPrice: addPrice}
	}

	addQuantity := addMargin * p.Leverage / addPrice

	newTotalMargin := prior.TotalMargin + addMargin
	newTotalQuantity := prior.TotalQuantity + addQuantity

	newTotalValue := prior.TotalQuantity*prior.AvgPrice + addQuantity*addPrice
	newAvgPrice := newTotalValue / newTotalQuantity

	// вся позиция по цене этой доливки против свежего среднего
	var unrealizedPnl float64
	if p.Direction == models.DirectionLong {
		unrealizedPnl = newTotalQuantity * (addPrice - newAvgPrice)
	} else {
		unrealizedPnl = newTotalQuantity * (newAvgPrice - addPrice)
	}

	tpPrice := tpPriceFrom(newAvgPrice, p.TpPercent, p.Direction)

	openingFee := Fee(addQuantity, addPrice, p.TakerFee)
	accumulatedOpeningFees := prior.AccumulatedOpeningFees + openingFee

	closingFeeAtTp := Fee(newTotalQuantity, tpPrice, p.TakerFee)
	profitBeforeFees := newTotalQuantity * math.Abs(tpPrice-newAvgPrice)

	stepFunding := funding.StepCost(newTotalQuantity, newAvgPrice)

	tpProfit := profitBeforeFees - accumulatedOpeningFees - closingFeeAtTp - stepFunding

	percentToTp := (tpPrice - addPrice) / addPrice * 100

	rec := models.StepRecord{
		Step:                   step,
		AddPrice:               addPrice,
		AddQuantity:            addQuantity,
		AddMargin:              addMargin,
		OpeningFee:             openingFee,
		AccumulatedOpeningFees: accumulatedOpeningFees,
		StepFundingCost:        stepFunding,
		UnrealizedPnl:          unrealizedPnl,
		AvgPrice:               newAvgPrice,
		TpPrice:                tpPrice,
		TpProfit:               tpProfit,
		PercentToTp:            percentToTp,
		CumulativeDiffPercent:  cumDiffPercent,
		TotalMargin:            newTotalMargin,
		TotalQuantity:          newTotalQuantity,
	}

	next := models.PositionState{
		TotalMargin:            newTotalMargin,
		TotalQuantity:          newTotalQuantity,
		AvgPrice:               newAvgPrice,
		AccumulatedOpeningFees: accumulatedOpeningFees,
	}
	return rec, next, nil
}

// Accumulator владеет состоянием позиции на время одного прогона.
// Суммарный отступ ведётся нарастающим итогом, те же слагаемые и тот же
// порядок сложения, что и в CumulativeDiffPercent.
type Accumulator struct {
	params  models.StrategyParameters
	funding FundingEstimator

	state     models.PositionState
	step      int
	cumDiff   float64
	lastPrice float64
	err       error
}

func NewAccumulator(p models.StrategyParameters, funding FundingEstimator, seed models.PositionState) *Accumulator {
	return &Accumulator{
		params:    p,
		funding:   funding,
		state:     seed,
		lastPrice: p.InitialPrice,
	}
}

// Next считает следующую доливку.
// ok=false — все maxAdds доливок уже приняты; err != nil — цикл прерван.
func (a *Accumulator) Next() (rec models.StepRecord, ok bool, err error) {
	if a.err != nil {
		return models.StepRecord{}, false, a.err
	}
	if a.step >= a.params.MaxAdds {
		return models.StepRecord{}, false, nil
	}

	step := a.step + 1
	cumDiff := a.cumDiff + diffTerm(a.params, step)

	rec, next, err := AddStep(a.params, a.funding, a.state, step, cumDiff)
	if err != nil {
		a.err = err
		return models.StepRecord{}, false, err
	}

	a.state = next
	a.step = step
	a.cumDiff = cumDiff
	a.lastPrice = rec.AddPrice
	return rec, true, nil
}

func (a *Accumulator) State() models.PositionState { return a.state }

// LastPrice — цена последней принятой сделки; начальная, если доливок не было.
func (a *Accumulator) LastPrice() float64 { return a.lastPrice }

// Err — причина остановки цикла, nil если все доливки приняты.
func (a *Accumulator) Err() error { return a.err }
