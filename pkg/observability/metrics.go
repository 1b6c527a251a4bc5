package observability

import (
	"net/http"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "turing"

// Metrics holds the collectors describing machine activity.
type Metrics struct {
	Steps      prometheus.Counter
	Halts      prometheus.Counter
	Extensions *prometheus.CounterVec
	RunSteps   prometheus.Histogram

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg uses a fresh private registry.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		Steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Total number of transitions applied.",
		}),
		Halts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "halts_total",
			Help:      "Total number of machines that reached a final state.",
		}),
		Extensions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tape_extensions_total",
			Help:      "Total number of blank cells added to tapes, by side.",
		}, []string{"direction"}),
		RunSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_steps",
			Help:      "Transitions applied per run or step request.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
		gatherer: reg,
	}
	reg.MustRegister(m.Steps, m.Halts, m.Extensions, m.RunSteps)
	return m
}

// ObserveRun records how many transitions one run applied.
func (m *Metrics) ObserveRun(steps int) {
	m.RunSteps.Observe(float64(steps))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func Hooks[S, Y comparable](m *Metrics) domain.LifecycleHooks[S, Y] {
	return domain.LifecycleHooks[S, Y]{
		OnStep: func(*domain.StepEvent[S, Y]) {
			m.Steps.Inc()
		},
		OnExtend: func(e *domain.ExtendEvent) {
			m.Extensions.WithLabelValues(e.Direction.String()).Inc()
		},
		OnHalt: func(*domain.HaltEvent[S]) {
			m.Halts.Inc()
		},
	}
}
