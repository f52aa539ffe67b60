package calc

import (
	"errors"

	"contract_calc/internal/models"
)

// Simulate прогоняет мартингейл целиком: шаг 0, доливки, итог.
// Невалидные параметры — ValidationErrors и nil-результат.
// Невалидная цена доливки — не ошибка: результат со Status=aborted.
func Simulate(p models.StrategyParameters) (*models.MartingaleResult, error) {
	if err := ValidateStrategy(p); err != nil {
		return nil, err
	}
	return run(p, nil), nil
}

// SimulateEach — то же, но отдаёт каждый принятый шаг в onStep по мере расчёта.
// Используется стримингом по websocket.
func SimulateEach(p models.StrategyParameters, onStep func(models.StepRecord)) (*models.MartingaleResult, error) {
	if err := ValidateStrategy(p); err != nil {
		return nil, err
	}
	return run(p, onStep), nil
}

// stepsPrealloc — сколько шагов резервируем заранее; дальше слайс растёт сам.
const stepsPrealloc = 64

func run(p models.StrategyParameters, onStep func(models.StepRecord)) *models.MartingaleResult {
	funding := FundingFor(p)

	first, seed := InitialPosition(p, funding)
	steps := make([]models.StepRecord, 0, min(p.MaxAdds, stepsPrealloc)+1)
	steps = append(steps, first)
	if onStep != nil {
		onStep(first)
	}

	acc := NewAccumulator(p, funding, seed)
	res := &models.MartingaleResult{
		Params: p,
		Status: models.RunCompleted,
	}

	for {
		rec, ok, _ := acc.Next()
		if !ok {
			break
		}
		steps = append(steps, rec)
		if onStep != nil {
			onStep(rec)
		}
	}

	var bad *InvalidAddPriceError
	if errors.As(acc.Err(), &bad) {
		res.Status = models.RunAborted
		res.Termination = &models.Termination{
			Step:     bad.Step,
			AddPrice: bad.AddPrice,
			Reason:   bad.Error(),
		}
	}

	res.Steps = steps
	res.Final = acc.State()
	res.PriceOfLastTrade = acc.LastPrice()
	res.Summary = Summarize(p, steps, res.Final, res.PriceOfLastTrade)
	return res
}
