package interval

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// jitterSchedule adapts a jittered cadence to robfig/cron's Schedule
// interface so an existing cron runner can host a desynchronized job.
type jitterSchedule struct {
	period    time.Duration
	jitterMin time.Duration
	jitterMax time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// Schedule returns a cron.Schedule with this configuration's period and
// jitter bounds. Unlike a Timer, the schedule re-arms from the activation
// time cron passes to Next, so it does not carry the fixed-slot drift
// accounting; use a Timer when missed-slot diagnostics matter.
//
//	c := cron.New()
//	sched, err := interval.Schedule(cfg)
//	if err != nil {
//		return err
//	}
//	c.Schedule(sched, job)
func Schedule(cfg Config) (cron.Schedule, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &jitterSchedule{
		period:    cfg.Period,
		jitterMin: cfg.JitterMin,
		jitterMax: cfg.JitterMax,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}, nil
}

// Next returns the next activation time: one period plus a fresh jitter
// draw after t.
func (s *jitterSchedule) Next(t time.Time) time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	jitter := s.jitterMin
	if span := int64(s.jitterMax - s.jitterMin); span > 0 {
		jitter += time.Duration(s.rng.Int64N(span + 1))
	}
	return t.Add(s.period + jitter)
}
