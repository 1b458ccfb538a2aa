package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all metric instances for Intervals components.
type Registry struct {
	SlotsExecuted     *prometheus.CounterVec
	SlotsMissed       *prometheus.CounterVec
	ActionFailures    *prometheus.CounterVec
	ExecutionDuration *prometheus.HistogramVec
	JitterDelay       *prometheus.HistogramVec
	RunsActive        *prometheus.GaugeVec
}

// DefaultRegistry is the default metrics registry used by Intervals components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	factory := promauto.With(reg)

	return &Registry{
		SlotsExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "intervals",
				Subsystem: "timer",
				Name:      "slots_executed_total",
				Help:      "Total number of slots whose action was invoked",
			},
			[]string{"timer_name"},
		),

		SlotsMissed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "intervals",
				Subsystem: "timer",
				Name:      "slots_missed_total",
				Help:      "Total number of slots whose jittered start time had already passed",
			},
			[]string{"timer_name"},
		),

		ActionFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "intervals",
				Subsystem: "timer",
				Name:      "action_failures_total",
				Help:      "Total number of action invocations that returned an error",
			},
			[]string{"timer_name"},
		),

		ExecutionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "intervals",
				Subsystem: "timer",
				Name:      "execution_duration_seconds",
				Help:      "Time spent inside the action per slot",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"timer_name"},
		),

		JitterDelay: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "intervals",
				Subsystem: "timer",
				Name:      "jitter_delay_seconds",
				Help:      "Jitter delay drawn per slot",
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
			},
			[]string{"timer_name"},
		),

		RunsActive: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "intervals",
				Subsystem: "timer",
				Name:      "runs_active",
				Help:      "Number of runs currently in progress",
			},
			[]string{"timer_name"},
		),
	}
}
