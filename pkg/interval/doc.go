/*
Package interval provides a self-correcting periodic timer with bounded
random jitter.

The timer invokes a caller-supplied action once per scheduled slot. Slots are
spaced by a fixed nominal period, and each invocation is delayed by a fresh
uniform random jitter drawn from a configured inclusive range. Because the
wait is computed against the slot's nominal start rather than the previous
invocation's end, the long-run cadence tracks the period itself instead of
period-plus-execution-time. The jitter desynchronizes fleets of independent
timers so they do not stampede a shared server.

Basic Usage:

	timer, err := interval.New(interval.Config{
		JitterMin: 100 * time.Microsecond,
		JitterMax: 500 * time.Microsecond,
		Period:    time.Millisecond,
	})
	if err != nil {
		log.Fatal(err)
	}

	action := interval.ActionFunc(func(jitter time.Duration) error {
		// one heartbeat, delayed by jitter within its slot
		return nil
	})

	// Bounded run: block for exactly 1000 slots.
	run, err := timer.RunCount(action, 1000)

	// Unbounded run: background schedule until stopped.
	_ = timer.Start(action)
	time.Sleep(time.Second)
	run, err = timer.Stop()

Slot Accounting:

Each slot's action starts at nominal-start + jitter. If the loop reaches a
slot whose jittered start has already passed (the previous slot's jitter wait
plus action ran longer than the period), the slot is counted as missed and
the action runs immediately. Missed slots are a diagnostic, not an error: a
climbing missed-slot count means the jitter budget is misconfigured relative
to the workload.

The nominal slot start always advances by exactly one period, regardless of
overrun. Under sustained overrun the nominal schedule therefore drifts behind
the wall clock; this is a known characteristic of the fixed-slot policy, kept
so the scheduled span of a run is always iterations × period exactly.

Run Records:

Both run modes produce a *Run carrying the iteration count, missed-slot and
action-failure counts, the first and last nominal slot starts, and a
stats.Collector of per-slot execution durations. ScheduledRuntime is the
scheduled span (an exact multiple of the period), deliberately independent of
wall-clock jitter and overruns.

Concurrency:

RunCount is fully synchronous. Start launches exactly one background
goroutine; Stop closes the cancellation channel and blocks until the
goroutine observes it at the top of an iteration and hands the Run back.
Cancellation is cooperative: an in-flight sleep or action is never
interrupted, so Stop's latency is bounded below by the remainder of the
current slot. A timer supports one run at a time; starting a second run
fails with errors.ErrRunActive and stopping an idle timer fails with
errors.ErrNotRunning.

Actions are assumed non-reentrant: slot N+1's action never starts before
slot N's has returned.
*/
package interval
