package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"contract_calc/internal/calc"
	"contract_calc/internal/models"
	history "contract_calc/internal/modules/history/service"
	"contract_calc/pkg/logger"
	"contract_calc/pkg/tracing"
)

// Service — общая точка входа для бота, HTTP и websocket:
// проверка лимитов, расчёт, метрики, запись в историю.
type Service struct {
	history history.Calculations
	metrics *Metrics
	maxAdds int
}

func NewService(calcs history.Calculations, metrics *Metrics, maxAdds int) *Service {
	return &Service{
		history: calcs,
		metrics: metrics,
		maxAdds: maxAdds,
	}
}

func (s *Service) MaxAdds() int { return s.maxAdds }

// checkLimit добавляет к ошибкам валидации превышение лимита доливок.
func (s *Service) checkLimit(p models.StrategyParameters) error {
	var errs calc.ValidationErrors
	if err := calc.ValidateStrategy(p); err != nil {
		if !errors.As(err, &errs) {
			return err
		}
	}
	if s.maxAdds > 0 && p.MaxAdds > s.maxAdds && !errs.Has(calc.FieldMaxAdds) {
		errs = append(errs, calc.FieldError{
			Field:  calc.FieldMaxAdds,
			Reason: fmt.Sprintf("must be <= %d", s.maxAdds),
		})
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// Martingale считает прогон. userID == 0 — анонимный запрос (HTTP API), в историю не пишется.
func (s *Service) Martingale(ctx context.Context, userID int64, p models.StrategyParameters) (*models.MartingaleResult, error) {
	return s.MartingaleStream(ctx, userID, p, nil)
}

// MartingaleStream — то же, что Martingale, но каждый принятый шаг сразу уходит в onStep.
func (s *Service) MartingaleStream(
	ctx context.Context,
	userID int64,
	p models.StrategyParameters,
	onStep func(models.StepRecord),
) (res *models.MartingaleResult, err error) {
	span, ctx := tracing.StartSpan(ctx, "calculator.Martingale")
	defer func() { tracing.Finish(span, err) }()
	span.SetTag("direction", string(p.Direction))
	span.SetTag("max_adds", p.MaxAdds)

	started := time.Now()
	kind := string(models.KindMartingale)

	if err = s.checkLimit(p); err != nil {
		s.metrics.ValidationErrors.WithLabelValues(kind).Inc()
		s.metrics.Calculations.WithLabelValues(kind, "invalid").Inc()
		return nil, err
	}

	res, err = calc.SimulateEach(p, onStep)
	if err != nil {
		return nil, err
	}

	s.metrics.Calculations.WithLabelValues(kind, string(res.Status)).Inc()
	s.metrics.AcceptedSteps.Observe(float64(len(res.Steps)))
	span.SetTag("status", string(res.Status))
	if res.Aborted() {
		s.metrics.Aborts.Inc()
		logger.Info("martingale aborted for user %d: %s", userID, res.Termination.Reason)
	}

	s.save(ctx, &models.Calculation{
		UserID:     userID,
		Kind:       models.KindMartingale,
		Martingale: res,
	})
	s.metrics.Duration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	return res, nil
}

// Standard — одна сделка вход/выход.
func (s *Service) Standard(
	ctx context.Context,
	userID int64,
	p models.StandardTradeParameters,
) (res models.StandardTradeResult, err error) {
	span, ctx := tracing.StartSpan(ctx, "calculator.Standard")
	defer func() { tracing.Finish(span, err) }()
	span.SetTag("direction", string(p.Direction))

	started := time.Now()
	kind := string(models.KindStandard)

	res, err = calc.CalculateStandard(p)
	if err != nil {
		s.metrics.ValidationErrors.WithLabelValues(kind).Inc()
		s.metrics.Calculations.WithLabelValues(kind, "invalid").Inc()
		return res, err
	}
	s.metrics.Calculations.WithLabelValues(kind, "ok").Inc()

	s.save(ctx, &models.Calculation{
		UserID:   userID,
		Kind:     models.KindStandard,
		Standard: &models.StandardRecord{Params: p, Result: res},
	})
	s.metrics.Duration.WithLabelValues(kind).Observe(time.Since(started).Seconds())
	return res, nil
}

// History — последние расчёты пользователя, новые первыми.
func (s *Service) History(ctx context.Context, userID int64, limit int) ([]*models.Calculation, error) {
	list, err := s.history.List(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("calculator.History: %w", err)
	}
	return list, nil
}

// LastMartingale — последний прогон пользователя (для /export).
func (s *Service) LastMartingale(ctx context.Context, userID int64) (*models.MartingaleResult, error) {
	c, err := s.history.Last(ctx, userID, models.KindMartingale)
	if err != nil {
		return nil, err
	}
	return c.Martingale, nil
}

// save не роняет расчёт: история вспомогательная.
func (s *Service) save(ctx context.Context, c *models.Calculation) {
	if c.UserID == 0 {
		return
	}
	if err := s.history.Save(ctx, c); err != nil {
		s.metrics.HistorySaveErrors.Inc()
		logger.Error("save %s calculation for user %d: %v", c.Kind, c.UserID, err)
	}
}
