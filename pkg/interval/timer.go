package interval

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	iverrors "github.com/dbc60/Intervals/pkg/common/errors"
	"github.com/dbc60/Intervals/pkg/common/validation"
	"github.com/dbc60/Intervals/pkg/stats"
)

const module = "interval"

// Clock provides the current time and blocking sleeps.
// It can be mocked for testing.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep blocks for the given duration.
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Action represents the unit of work invoked once per slot.
type Action interface {
	// Execute runs the action. It receives the jitter delay that was
	// applied to the current slot and should complete in well under one
	// nominal period.
	Execute(jitter time.Duration) error
}

// ActionFunc is a function type that implements the Action interface.
type ActionFunc func(jitter time.Duration) error

// Execute implements the Action interface for ActionFunc.
func (f ActionFunc) Execute(jitter time.Duration) error { return f(jitter) }

// Config holds configuration options for creating a Timer.
type Config struct {
	// JitterMin is the inclusive lower bound of the per-slot jitter delay.
	// Must be non-negative.
	JitterMin time.Duration

	// JitterMax is the inclusive upper bound of the per-slot jitter delay.
	// Must not be below JitterMin.
	JitterMax time.Duration

	// Period is the fixed spacing between consecutive slots' nominal
	// start times. Must be positive.
	Period time.Duration

	// Clock provides time and sleeps. If nil, SystemClock is used.
	Clock Clock

	// OnSlotExecuted, if set, is called after each action invocation with
	// the slot's jitter delay and the observed execution duration.
	OnSlotExecuted func(jitter, execution time.Duration)

	// OnSlotMissed, if set, is called whenever a slot's jittered start
	// time had already passed when the loop reached it.
	OnSlotMissed func()

	// OnActionError, if set, is called whenever the action returns an
	// error. The loop continues regardless.
	OnActionError func(err error)
}

func (cfg Config) validate() error {
	if err := validation.ValidateNonNegativeDuration(module, "jitterMin", cfg.JitterMin); err != nil {
		return err
	}
	if err := validation.ValidateOrderedDurations(module, "jitterMax", cfg.JitterMin, cfg.JitterMax); err != nil {
		return err
	}
	return validation.ValidatePositiveDuration(module, "period", cfg.Period)
}

// Run is the record of one bounded or unbounded run. It is populated by the
// run loop and safe to read once the run has ended: after RunCount returns,
// or after Stop hands it back.
type Run struct {
	// Iterations is the number of completed action invocations.
	Iterations int

	// MissedSlots counts slots whose jittered start time had already
	// elapsed when the loop was ready to check it.
	MissedSlots int

	// ActionFailures counts action invocations that returned an error.
	ActionFailures int

	// FirstSlot is the nominal start of the first slot.
	FirstSlot time.Time

	// LastSlot is the nominal slot start reached after the final
	// advancement, not the wall-clock end of the run.
	LastSlot time.Time

	execution *stats.Collector
}

// ScheduledRuntime returns the scheduled span of the run: exactly
// Iterations × Period, independent of jitter and execution overruns.
func (r *Run) ScheduledRuntime() time.Duration {
	return r.LastSlot.Sub(r.FirstSlot)
}

// Execution returns the collector of per-slot execution durations.
func (r *Run) Execution() *stats.Collector {
	return r.execution
}

// Timer drives a caller-supplied action once per jittered slot. A Timer
// supports one active run at a time; it is safe to reuse for consecutive
// runs. See the package documentation for the slot accounting rules.
type Timer struct {
	jitterMin time.Duration
	jitterMax time.Duration
	period    time.Duration
	clock     Clock

	onSlotExecuted func(jitter, execution time.Duration)
	onSlotMissed   func()
	onActionError  func(err error)

	// set by NewWithMetrics
	onRunStart func()
	onRunEnd   func()

	mu       sync.Mutex
	running  bool
	cancel   chan struct{}
	finished chan *Run
}

// New creates a Timer from the given configuration. It fails with a
// configuration error if the jitter bounds are inverted or negative, or the
// period is not positive; a Timer is never constructed in an invalid state.
func New(cfg Config) (*Timer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	clock := cfg.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	return &Timer{
		jitterMin:      cfg.JitterMin,
		jitterMax:      cfg.JitterMax,
		period:         cfg.Period,
		clock:          clock,
		onSlotExecuted: cfg.OnSlotExecuted,
		onSlotMissed:   cfg.OnSlotMissed,
		onActionError:  cfg.OnActionError,
	}, nil
}

// RunCount invokes the action exactly count times, once per slot, blocking
// the caller for the entire run. It fails with errors.ErrRunActive if a run
// is already active on this timer.
func (t *Timer) RunCount(action Action, count int) (*Run, error) {
	if action == nil {
		return nil, iverrors.NewValidationError(module, "action", nil, "cannot be nil").
			WithHint("provide a valid action")
	}
	if err := validation.ValidatePositive(module, "count", count); err != nil {
		return nil, err
	}

	t.mu.Lock()
	if t.running {
		t.mu.Unlock()
		return nil, fmt.Errorf("run: %w", iverrors.ErrRunActive)
	}
	t.running = true
	if t.onRunStart != nil {
		t.onRunStart()
	}
	t.mu.Unlock()
	defer t.finish()

	return t.runLoop(action, count, nil), nil
}

// Start launches the interval loop on a background goroutine and returns
// immediately. The loop runs until Stop is called. It fails with
// errors.ErrRunActive if a run is already active on this timer.
func (t *Timer) Start(action Action) error {
	if action == nil {
		return iverrors.NewValidationError(module, "action", nil, "cannot be nil").
			WithHint("provide a valid action")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.running {
		return fmt.Errorf("start: %w", iverrors.ErrRunActive)
	}
	t.running = true
	t.cancel = make(chan struct{})
	t.finished = make(chan *Run, 1)
	if t.onRunStart != nil {
		t.onRunStart()
	}

	cancel, finished := t.cancel, t.finished
	go func() {
		finished <- t.runLoop(action, -1, cancel)
	}()

	return nil
}

// Stop signals the background loop to exit, blocks until the loop observes
// the signal at the top of an iteration, and returns the completed Run.
// Cancellation is cooperative: an in-flight sleep or action invocation is
// never interrupted, so Stop's latency is bounded below by the remainder of
// the current slot. It fails with errors.ErrNotRunning if no unbounded run
// is active.
func (t *Timer) Stop() (*Run, error) {
	t.mu.Lock()
	if !t.running || t.cancel == nil {
		t.mu.Unlock()
		return nil, fmt.Errorf("stop: %w", iverrors.ErrNotRunning)
	}
	cancel, finished := t.cancel, t.finished
	t.cancel, t.finished = nil, nil
	t.mu.Unlock()

	close(cancel)
	run := <-finished
	t.finish()
	return run, nil
}

func (t *Timer) finish() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	if t.onRunEnd != nil {
		t.onRunEnd()
	}
}

// runLoop executes the per-slot algorithm. A negative count loops until the
// cancel channel is closed; the channel is checked once per iteration, at
// the top of the loop. The returned Run is owned by the caller once the
// loop has exited.
func (t *Timer) runLoop(action Action, count int, cancel <-chan struct{}) *Run {
	// One generator per run, never a shared process-wide source.
	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	jitter := t.drawJitter(rng)

	run := &Run{execution: stats.New()}
	slotStart := t.clock.Now()
	run.FirstSlot = slotStart
	run.LastSlot = slotStart

	for itr := 0; count < 0 || itr < count; itr++ {
		if cancel != nil {
			select {
			case <-cancel:
				return run
			default:
			}
		}

		target := slotStart.Add(jitter)
		if now := t.clock.Now(); now.Before(target) {
			t.clock.Sleep(target.Sub(now))
		} else {
			run.MissedSlots++
			if t.onSlotMissed != nil {
				t.onSlotMissed()
			}
		}

		began := t.clock.Now()
		err := action.Execute(jitter)
		elapsed := t.clock.Now().Sub(began)

		run.execution.Insert(elapsed)
		run.Iterations++
		if err != nil {
			run.ActionFailures++
			if t.onActionError != nil {
				t.onActionError(err)
			}
		}
		if t.onSlotExecuted != nil {
			t.onSlotExecuted(jitter, elapsed)
		}

		jitter = t.drawJitter(rng)
		slotStart = slotStart.Add(t.period)
		run.LastSlot = slotStart
	}

	return run
}

// drawJitter returns a uniform random duration over the inclusive range
// [jitterMin, jitterMax].
func (t *Timer) drawJitter(rng *rand.Rand) time.Duration {
	span := int64(t.jitterMax - t.jitterMin)
	if span == 0 {
		return t.jitterMin
	}
	return t.jitterMin + time.Duration(rng.Int64N(span+1))
}
