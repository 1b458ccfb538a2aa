package interval

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dbc60/Intervals/internal/testutil"
	iverrors "github.com/dbc60/Intervals/pkg/common/errors"
	"github.com/dbc60/Intervals/pkg/stats"
)

var epoch = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func noop(_ time.Duration) error { return nil }

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "valid",
			cfg: Config{
				JitterMin: 100 * time.Microsecond,
				JitterMax: 500 * time.Microsecond,
				Period:    time.Millisecond,
			},
		},
		{
			name: "degenerate jitter range",
			cfg: Config{
				JitterMin: 250 * time.Microsecond,
				JitterMax: 250 * time.Microsecond,
				Period:    time.Millisecond,
			},
		},
		{
			name: "zero jitter",
			cfg:  Config{Period: time.Millisecond},
		},
		{
			name: "inverted bounds",
			cfg: Config{
				JitterMin: 500 * time.Microsecond,
				JitterMax: 100 * time.Microsecond,
				Period:    time.Millisecond,
			},
			wantErr: true,
		},
		{
			name: "negative lower bound",
			cfg: Config{
				JitterMin: -time.Microsecond,
				JitterMax: time.Microsecond,
				Period:    time.Millisecond,
			},
			wantErr: true,
		},
		{
			name: "zero period",
			cfg: Config{
				JitterMin: 100 * time.Microsecond,
				JitterMax: 500 * time.Microsecond,
			},
			wantErr: true,
		},
		{
			name: "negative period",
			cfg: Config{
				JitterMin: 100 * time.Microsecond,
				JitterMax: 500 * time.Microsecond,
				Period:    -time.Millisecond,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timer, err := New(tt.cfg)
			if tt.wantErr {
				if !errors.Is(err, iverrors.ErrInvalidConfiguration) {
					t.Errorf("New() error = %v, want ErrInvalidConfiguration", err)
				}
				if timer != nil {
					t.Error("no timer should be constructed from an invalid config")
				}
				return
			}
			if err != nil {
				t.Errorf("New() unexpected error: %v", err)
			}
		})
	}
}

func TestTimer_RunCountInvokesExactly(t *testing.T) {
	const count = 50
	period := time.Millisecond

	clock := testutil.NewMockClock(epoch)
	timer, err := New(Config{
		JitterMin: 100 * time.Microsecond,
		JitterMax: 500 * time.Microsecond,
		Period:    period,
		Clock:     clock,
	})
	testutil.AssertNoError(t, err)

	invoked := 0
	run, err := timer.RunCount(ActionFunc(func(_ time.Duration) error {
		invoked++
		return nil
	}), count)
	testutil.AssertNoError(t, err)

	testutil.AssertEqual(t, invoked, count)
	testutil.AssertEqual(t, run.Iterations, count)
	testutil.AssertEqual(t, run.MissedSlots, 0)
	testutil.AssertEqual(t, run.ActionFailures, 0)

	// The scheduled runtime is exactly count x period, independent of any
	// wall-clock behavior.
	testutil.AssertEqual(t, run.ScheduledRuntime(), count*period)
	if !run.LastSlot.Equal(run.FirstSlot.Add(count * period)) {
		t.Errorf("LastSlot = %v, want FirstSlot + %v", run.LastSlot, count*period)
	}
	testutil.AssertEqual(t, run.Execution().Count(), count)
}

func TestTimer_DegenerateJitterBounds(t *testing.T) {
	const jitter = 250 * time.Microsecond

	clock := testutil.NewMockClock(epoch)
	timer, err := New(Config{
		JitterMin: jitter,
		JitterMax: jitter,
		Period:    time.Millisecond,
		Clock:     clock,
	})
	testutil.AssertNoError(t, err)

	jitters := stats.New()
	_, err = timer.RunCount(ActionFunc(func(j time.Duration) error {
		jitters.Insert(j)
		return nil
	}), 20)
	testutil.AssertNoError(t, err)

	smallest, err := jitters.Smallest()
	testutil.AssertNoError(t, err)
	largest, err := jitters.Largest()
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, smallest, jitter)
	testutil.AssertEqual(t, largest, jitter)
}

func TestTimer_JitterWithinBounds(t *testing.T) {
	jitterMin := 100 * time.Microsecond
	jitterMax := 500 * time.Microsecond

	clock := testutil.NewMockClock(epoch)
	timer, err := New(Config{
		JitterMin: jitterMin,
		JitterMax: jitterMax,
		Period:    time.Millisecond,
		Clock:     clock,
	})
	testutil.AssertNoError(t, err)

	_, err = timer.RunCount(ActionFunc(func(j time.Duration) error {
		if j < jitterMin || j > jitterMax {
			t.Errorf("jitter %v outside [%v, %v]", j, jitterMin, jitterMax)
		}
		return nil
	}), 200)
	testutil.AssertNoError(t, err)
}

func TestTimer_MissedSlots(t *testing.T) {
	const count = 10
	period := time.Millisecond

	clock := testutil.NewMockClock(epoch)
	timer, err := New(Config{
		JitterMin: 100 * time.Microsecond,
		JitterMax: 100 * time.Microsecond,
		Period:    period,
		Clock:     clock,
	})
	testutil.AssertNoError(t, err)

	// An action that overruns the period pushes every subsequent slot's
	// jittered start into the past.
	run, err := timer.RunCount(ActionFunc(func(_ time.Duration) error {
		clock.Advance(2 * period)
		return nil
	}), count)
	testutil.AssertNoError(t, err)

	// The first slot is waited out normally; every later slot is missed.
	testutil.AssertEqual(t, run.MissedSlots, count-1)
	testutil.AssertEqual(t, run.Iterations, count)
	testutil.AssertEqual(t, run.ScheduledRuntime(), count*period)
}

func TestTimer_MissedSlotCounterMonotonic(t *testing.T) {
	period := time.Millisecond
	clock := testutil.NewMockClock(epoch)

	var missed []int
	timer, err := New(Config{
		JitterMin: 10 * time.Microsecond,
		JitterMax: 100 * time.Microsecond,
		Period:    period,
		Clock:     clock,
		OnSlotMissed: func() {
			missed = append(missed, 1)
		},
	})
	testutil.AssertNoError(t, err)

	slow := false
	run, err := timer.RunCount(ActionFunc(func(_ time.Duration) error {
		if slow {
			clock.Advance(3 * period)
		}
		slow = !slow
		return nil
	}), 8)
	testutil.AssertNoError(t, err)

	if run.MissedSlots != len(missed) {
		t.Errorf("MissedSlots = %d, callback count = %d", run.MissedSlots, len(missed))
	}
	if run.MissedSlots == 0 {
		t.Error("expected missed slots from the overrunning action")
	}
	if run.MissedSlots >= run.Iterations {
		t.Errorf("MissedSlots = %d should stay below Iterations = %d",
			run.MissedSlots, run.Iterations)
	}
}

func TestTimer_ExecutionDurations(t *testing.T) {
	const actionTime = 200 * time.Microsecond

	clock := testutil.NewMockClock(epoch)
	timer, err := New(Config{
		JitterMin: 100 * time.Microsecond,
		JitterMax: 500 * time.Microsecond,
		Period:    time.Millisecond,
		Clock:     clock,
	})
	testutil.AssertNoError(t, err)

	run, err := timer.RunCount(ActionFunc(func(_ time.Duration) error {
		clock.Advance(actionTime)
		return nil
	}), 25)
	testutil.AssertNoError(t, err)

	exec := run.Execution()
	testutil.AssertEqual(t, exec.Count(), 25)

	for name, query := range map[string]func() (time.Duration, error){
		"Smallest": exec.Smallest,
		"Largest":  exec.Largest,
		"Average":  exec.Average,
		"Median":   exec.Median,
	} {
		got, err := query()
		testutil.AssertNoError(t, err)
		if got != actionTime {
			t.Errorf("%s() = %v, want %v", name, got, actionTime)
		}
	}
}

func TestTimer_ActionErrors(t *testing.T) {
	const count = 10
	period := time.Millisecond

	clock := testutil.NewMockClock(epoch)
	var reported []error
	timer, err := New(Config{
		JitterMax: 100 * time.Microsecond,
		Period:    period,
		Clock:     clock,
		OnActionError: func(err error) {
			reported = append(reported, err)
		},
	})
	testutil.AssertNoError(t, err)

	calls := 0
	run, err := timer.RunCount(ActionFunc(func(_ time.Duration) error {
		calls++
		if calls%2 == 0 {
			return fmt.Errorf("heartbeat %d refused", calls)
		}
		return nil
	}), count)
	testutil.AssertNoError(t, err)

	// Failures are counted and reported; slot bookkeeping is unaffected.
	testutil.AssertEqual(t, run.ActionFailures, count/2)
	testutil.AssertEqual(t, len(reported), count/2)
	testutil.AssertEqual(t, run.Iterations, count)
	testutil.AssertEqual(t, run.ScheduledRuntime(), count*period)
}

func TestTimer_OnSlotExecutedCallback(t *testing.T) {
	clock := testutil.NewMockClock(epoch)
	const actionTime = 50 * time.Microsecond

	executions := 0
	timer, err := New(Config{
		JitterMin: 10 * time.Microsecond,
		JitterMax: 10 * time.Microsecond,
		Period:    time.Millisecond,
		Clock:     clock,
		OnSlotExecuted: func(jitter, execution time.Duration) {
			executions++
			if jitter != 10*time.Microsecond {
				t.Errorf("callback jitter = %v, want 10µs", jitter)
			}
			if execution != actionTime {
				t.Errorf("callback execution = %v, want %v", execution, actionTime)
			}
		},
	})
	testutil.AssertNoError(t, err)

	_, err = timer.RunCount(ActionFunc(func(_ time.Duration) error {
		clock.Advance(actionTime)
		return nil
	}), 5)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, executions, 5)
}

func TestTimer_RunCountArgumentValidation(t *testing.T) {
	timer, err := New(Config{JitterMax: time.Microsecond, Period: time.Millisecond})
	testutil.AssertNoError(t, err)

	if _, err := timer.RunCount(nil, 10); !errors.Is(err, iverrors.ErrInvalidConfiguration) {
		t.Errorf("nil action: error = %v, want ErrInvalidConfiguration", err)
	}
	if _, err := timer.RunCount(ActionFunc(noop), 0); !errors.Is(err, iverrors.ErrInvalidConfiguration) {
		t.Errorf("zero count: error = %v, want ErrInvalidConfiguration", err)
	}
	if _, err := timer.RunCount(ActionFunc(noop), -3); !errors.Is(err, iverrors.ErrInvalidConfiguration) {
		t.Errorf("negative count: error = %v, want ErrInvalidConfiguration", err)
	}
}

func TestTimer_StartStop(t *testing.T) {
	const period = 10 * time.Millisecond
	const span = 8 * period

	timer, err := New(Config{
		JitterMax: time.Millisecond,
		Period:    period,
	})
	testutil.AssertNoError(t, err)

	testutil.AssertNoError(t, timer.Start(ActionFunc(noop)))
	time.Sleep(span)

	run, err := timer.Stop()
	testutil.AssertNoError(t, err)

	// Stop latency depends on where the loop was in its slot, so allow a
	// loose tolerance around span/period iterations.
	if run.Iterations < 4 || run.Iterations > 12 {
		t.Errorf("Iterations = %d, want roughly %d", run.Iterations, int(span/period))
	}
	testutil.AssertEqual(t, run.ScheduledRuntime(), time.Duration(run.Iterations)*period)
}

func TestTimer_LifecycleMisuse(t *testing.T) {
	timer, err := New(Config{JitterMax: time.Microsecond, Period: 5 * time.Millisecond})
	testutil.AssertNoError(t, err)

	// Stop with no active run.
	if _, err := timer.Stop(); !errors.Is(err, iverrors.ErrNotRunning) {
		t.Errorf("Stop() before Start(): error = %v, want ErrNotRunning", err)
	}

	testutil.AssertNoError(t, timer.Start(ActionFunc(noop)))

	// A second run while one is active.
	if err := timer.Start(ActionFunc(noop)); !errors.Is(err, iverrors.ErrRunActive) {
		t.Errorf("second Start(): error = %v, want ErrRunActive", err)
	}
	if _, err := timer.RunCount(ActionFunc(noop), 1); !errors.Is(err, iverrors.ErrRunActive) {
		t.Errorf("RunCount() during Start(): error = %v, want ErrRunActive", err)
	}

	_, err = timer.Stop()
	testutil.AssertNoError(t, err)

	// Stopped again after the run has been claimed.
	if _, err := timer.Stop(); !errors.Is(err, iverrors.ErrNotRunning) {
		t.Errorf("second Stop(): error = %v, want ErrNotRunning", err)
	}
}

func TestTimer_ReusableAcrossRuns(t *testing.T) {
	clock := testutil.NewMockClock(epoch)
	timer, err := New(Config{
		JitterMax: 100 * time.Microsecond,
		Period:    time.Millisecond,
		Clock:     clock,
	})
	testutil.AssertNoError(t, err)

	first, err := timer.RunCount(ActionFunc(noop), 5)
	testutil.AssertNoError(t, err)
	second, err := timer.RunCount(ActionFunc(noop), 7)
	testutil.AssertNoError(t, err)

	// Each run gets a fresh record and collector.
	testutil.AssertEqual(t, first.Iterations, 5)
	testutil.AssertEqual(t, second.Iterations, 7)
	testutil.AssertEqual(t, first.Execution().Count(), 5)
	testutil.AssertEqual(t, second.Execution().Count(), 7)
}

func TestTimer_StartNilAction(t *testing.T) {
	timer, err := New(Config{JitterMax: time.Microsecond, Period: time.Millisecond})
	testutil.AssertNoError(t, err)

	if err := timer.Start(nil); !errors.Is(err, iverrors.ErrInvalidConfiguration) {
		t.Errorf("Start(nil): error = %v, want ErrInvalidConfiguration", err)
	}
}

func BenchmarkTimer_RunCount(b *testing.B) {
	clock := testutil.NewMockClock(epoch)
	timer, err := New(Config{
		JitterMin: 100 * time.Microsecond,
		JitterMax: 500 * time.Microsecond,
		Period:    time.Millisecond,
		Clock:     clock,
	})
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := timer.RunCount(ActionFunc(noop), 100); err != nil {
			b.Fatal(err)
		}
	}
}
