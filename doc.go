/*
Package Intervals provides a self-correcting periodic timer with bounded
random jitter, plus the statistics and reporting surfaces needed to validate
its timing behavior.

The timer invokes a caller-supplied action once per scheduled slot. Slots are
spaced by a fixed nominal period; each invocation is delayed by a fresh
uniform random jitter so that fleets of independent timers desynchronize and
do not stampede a shared server. Slots that could not start on time are
counted and reported, never silently absorbed.

Components:

  - pkg/interval: the periodic timer engine (bounded and unbounded runs,
    missed-slot accounting, a jittered cron.Schedule adapter, and a
    Prometheus-instrumented constructor)
  - pkg/stats: append-only duration statistics (smallest, largest, average,
    lower-index median)
  - pkg/report: run summaries rendered as text or JSON, or published to a
    Redis channel for fleet-wide collection
  - pkg/metrics: the Prometheus metric registry shared by instrumented timers
  - cmd/intervals: a CLI harness for running and reporting timing scenarios

Quick start:

	timer, err := interval.New(interval.Config{
		JitterMin: 100 * time.Microsecond,
		JitterMax: 500 * time.Microsecond,
		Period:    time.Millisecond,
	})
	if err != nil {
		log.Fatal(err)
	}

	run, err := timer.RunCount(interval.ActionFunc(func(jitter time.Duration) error {
		// one unit of periodic work
		return nil
	}), 1000)

See the examples directory for runnable demonstrations.
*/
package intervals
