/*
Package report renders and publishes run summaries.

The interval timer's externally observable output is the aggregate record of
a completed run: iteration, missed-slot, and failure counts plus the
smallest/largest/average/median of its duration streams. This package turns
a *interval.Run into a Summary and hands it to whichever sink the harness
chose: human-readable text, JSON, or a Redis channel for fleet-wide
heartbeat-health collection.

	run, err := timer.RunCount(action, 1000)
	if err != nil {
		return err
	}

	summary, err := report.FromRun("heartbeat", time.Millisecond, run)
	if err != nil {
		return err
	}

	w := report.NewTextWriter(os.Stdout)
	return w.WriteSummary(summary)

Each Summary carries a fresh run ID so downstream collectors can distinguish
runs from the same timer instance.
*/
package report
