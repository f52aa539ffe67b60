package health

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"

	calculator "contract_calc/internal/modules/calculator/service"
	"contract_calc/internal/modules/config"
	"contract_calc/internal/modules/health/service"
	"contract_calc/pkg/logger"
)

type Config struct {
	Addr string // например ":8080"
}

func NewConfig(cfg *config.Config) Config {
	return Config{Addr: cfg.PublicAddr()}
}

func NewAPI(cfg *config.Config, calc *calculator.Service, state *service.State) *service.API {
	return service.NewAPI(calc, state, cfg.Defaults.Strategy())
}

func NewMux(state *service.State, api *service.API) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/livez", func(w http.ResponseWriter, r *http.Request) {
		// liveness: процесс жив
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		// readiness: сервис готов обслуживать трафик
		if !state.Ready() {
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		// полезный JSON для отладки
		resp := map[string]any{
			"ready":        state.Ready(),
			"wsClients":    state.WSClients(),
			"calculations": state.Calculations(),
			"uptimeSec":    int64(state.Uptime().Seconds()),
			"lastCalcUnix": func() int64 {
				t := state.LastCalculation()
				if t.IsZero() {
					return 0
				}
				return t.Unix()
			}(),
		}
		data, _ := sonic.Marshal(resp)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	})

	mux.Handle("/metrics", promhttp.Handler())

	mux.HandleFunc("/api/v1/martingale", api.HandleMartingale)
	mux.HandleFunc("/api/v1/contract", api.HandleContract)
	mux.HandleFunc("/ws/martingale", api.HandleStream)

	return mux
}

func RunHTTP(lc fx.Lifecycle, cfg Config, mux *http.ServeMux, state *service.State) {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
					logger.Error("http server: %v", err)
				}
			}()
			state.SetReady(true)
			logger.Info("http listening on %s", cfg.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			state.SetReady(false)
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			NewConfig,
			NewAPI,
			NewMux,
		),
		fx.Invoke(RunHTTP),
	)
}
