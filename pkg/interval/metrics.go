package interval

import (
	"time"

	"github.com/dbc60/Intervals/pkg/metrics"
)

// NewWithMetrics creates a Timer whose slot callbacks feed the Prometheus
// registry described by metricsConfig, labeled with the given timer name.
// Caller-supplied callbacks in cfg are chained after the metric updates.
func NewWithMetrics(cfg Config, name string, metricsConfig metrics.Config) (*Timer, error) {
	if !metricsConfig.Enabled {
		return New(cfg)
	}

	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistry(metricsConfig.Registry)
	}

	onSlotExecuted := cfg.OnSlotExecuted
	cfg.OnSlotExecuted = func(jitter, execution time.Duration) {
		registry.SlotsExecuted.WithLabelValues(name).Inc()
		registry.ExecutionDuration.WithLabelValues(name).Observe(execution.Seconds())
		registry.JitterDelay.WithLabelValues(name).Observe(jitter.Seconds())
		if onSlotExecuted != nil {
			onSlotExecuted(jitter, execution)
		}
	}

	onSlotMissed := cfg.OnSlotMissed
	cfg.OnSlotMissed = func() {
		registry.SlotsMissed.WithLabelValues(name).Inc()
		if onSlotMissed != nil {
			onSlotMissed()
		}
	}

	onActionError := cfg.OnActionError
	cfg.OnActionError = func(err error) {
		registry.ActionFailures.WithLabelValues(name).Inc()
		if onActionError != nil {
			onActionError(err)
		}
	}

	t, err := New(cfg)
	if err != nil {
		return nil, err
	}

	t.onRunStart = func() { registry.RunsActive.WithLabelValues(name).Inc() }
	t.onRunEnd = func() { registry.RunsActive.WithLabelValues(name).Dec() }

	return t, nil
}
