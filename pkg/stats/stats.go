package stats

import (
	"slices"
	"time"

	"github.com/dbc60/Intervals/pkg/common/errors"
)

// Collector accumulates duration samples and answers aggregate queries.
// Insert is O(1) amortized; Median sorts a copy at query time so the
// insertion order of the live samples is never disturbed.
//
// The zero value is ready to use, but New is preferred for symmetry with
// the rest of the library.
type Collector struct {
	samples  []time.Duration
	smallest time.Duration
	largest  time.Duration
}

// New creates an empty Collector.
func New() *Collector {
	return &Collector{}
}

// Insert appends a sample and updates the running extremes. Zero and
// negative samples are accepted as-is.
func (c *Collector) Insert(d time.Duration) {
	if len(c.samples) == 0 {
		c.smallest, c.largest = d, d
	} else {
		if d < c.smallest {
			c.smallest = d
		}
		if d > c.largest {
			c.largest = d
		}
	}
	c.samples = append(c.samples, d)
}

// Count returns the number of samples inserted.
func (c *Collector) Count() int {
	return len(c.samples)
}

// Smallest returns the minimum sample seen.
// It fails with errors.ErrNoSamples on an empty Collector.
func (c *Collector) Smallest() (time.Duration, error) {
	if len(c.samples) == 0 {
		return 0, errors.ErrNoSamples
	}
	return c.smallest, nil
}

// Largest returns the maximum sample seen.
// It fails with errors.ErrNoSamples on an empty Collector.
func (c *Collector) Largest() (time.Duration, error) {
	if len(c.samples) == 0 {
		return 0, errors.ErrNoSamples
	}
	return c.largest, nil
}

// Average returns the arithmetic mean of all samples. Division truncates
// toward zero, matching integer duration arithmetic.
// It fails with errors.ErrNoSamples on an empty Collector.
func (c *Collector) Average() (time.Duration, error) {
	if len(c.samples) == 0 {
		return 0, errors.ErrNoSamples
	}
	var sum time.Duration
	for _, d := range c.samples {
		sum += d
	}
	return sum / time.Duration(len(c.samples)), nil
}

// Median returns the element at index count/2 of the sorted samples. For
// even counts this is the upper of the two middle elements, not their mean.
// It fails with errors.ErrNoSamples on an empty Collector.
func (c *Collector) Median() (time.Duration, error) {
	if len(c.samples) == 0 {
		return 0, errors.ErrNoSamples
	}
	sorted := slices.Clone(c.samples)
	slices.Sort(sorted)
	return sorted[len(sorted)/2], nil
}
