// Package metrics provides Prometheus instrumentation for Intervals timers.
//
// # Overview
//
// The metrics package instruments the periodic timer: slots executed and
// missed, action failures, per-slot execution durations, observed jitter
// delays, and the number of currently active runs.
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled timer constructor:
//
//	timer, err := interval.NewWithMetrics(cfg, "heartbeat", metrics.DefaultConfig())
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Available Metrics
//
//   - intervals_timer_slots_executed_total: Total number of slots whose action was invoked
//   - intervals_timer_slots_missed_total: Total number of slots whose jittered start had already passed
//   - intervals_timer_action_failures_total: Total number of action invocations that returned an error
//   - intervals_timer_execution_duration_seconds: Time spent inside the action per slot
//   - intervals_timer_jitter_delay_seconds: Jitter delay drawn per slot
//   - intervals_timer_runs_active: Number of runs currently in progress
//
// All metrics carry a timer_name label identifying the timer instance.
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{Enabled: true, Registry: registry}
//	timer, err := interval.NewWithMetrics(cfg, "heartbeat", config)
package metrics
