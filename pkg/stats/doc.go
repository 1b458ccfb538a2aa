/*
Package stats provides an append-only accumulator of duration samples with
aggregate queries for minimum, maximum, mean, and median.

A Collector is a passive data sink: the interval timer feeds it one sample
per slot (execution durations), and actions may feed a second, caller-owned
Collector with the jitter values they observe.

	c := stats.New()
	c.Insert(120 * time.Microsecond)
	c.Insert(480 * time.Microsecond)

	avg, err := c.Average()
	if err != nil {
		// no samples recorded
	}

Aggregate queries on an empty Collector fail with errors.ErrNoSamples rather
than returning a sentinel value, since a silent zero would be
indistinguishable from a legitimate zero-duration sample.

The median is the element at index count/2 of the sorted samples. For even
counts this selects the upper of the two middle elements rather than their
mean; callers comparing against textbook medians should account for this.

A Collector is not safe for concurrent use. Each run owns its own Collector
and reads it only after the run has ended.
*/
package stats
