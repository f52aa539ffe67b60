package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "contract_calc"

// Metrics — счётчики расчётов. Регистрируются в переданном Registerer,
// в проде это prometheus.DefaultRegisterer (его же отдаёт /metrics).
type Metrics struct {
	Calculations      *prometheus.CounterVec
	ValidationErrors  *prometheus.CounterVec
	Aborts            prometheus.Counter
	AcceptedSteps     prometheus.Histogram
	Duration          *prometheus.HistogramVec
	HistorySaveErrors prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		Calculations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calculator",
			Name:      "calculations_total",
			Help:      "Calculations by kind and outcome",
		}, []string{"kind", "status"}),
		ValidationErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calculator",
			Name:      "validation_errors_total",
			Help:      "Rejected parameter sets by kind",
		}, []string{"kind"}),
		Aborts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "calculator",
			Name:      "martingale_aborts_total",
			Help:      "Martingale runs stopped on a non-positive add price",
		}),
		AcceptedSteps: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "calculator",
			Name:      "martingale_steps",
			Help:      "Accepted steps per martingale run, step 0 included",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21, 34, 51},
		}),
		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "calculator",
			Name:      "duration_seconds",
			Help:      "Calculation latency, persistence included",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"kind"}),
		HistorySaveErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "history",
			Name:      "save_errors_total",
			Help:      "Calculations that could not be written to history",
		}),
	}
}
