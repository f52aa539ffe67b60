package calculator

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"contract_calc/internal/modules/calculator/service"
	"contract_calc/internal/modules/config"
	history "contract_calc/internal/modules/history/service"
	"contract_calc/pkg/tracing"
)

func newService(cfg *config.Config, calcs history.Calculations, m *service.Metrics) *service.Service {
	return service.NewService(calcs, m, cfg.Limits.MaxAdds)
}

func Module() fx.Option {
	return fx.Module("calculator",
		fx.Provide(
			func() *service.Metrics { return service.NewMetrics(prometheus.DefaultRegisterer) },
			newService,
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			tracing.SetServiceName("contract_calc")
			_, closer, err := tracing.InitTracer(tracing.Config{
				Enabled: cfg.Tracing.Enabled,
				Host:    cfg.Tracing.Host,
				Port:    cfg.Tracing.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(context.Context) error {
					closer()
					return nil
				},
			})
			return nil
		}),
	)
}
