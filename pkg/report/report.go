package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	iverrors "github.com/dbc60/Intervals/pkg/common/errors"
	"github.com/dbc60/Intervals/pkg/interval"
	"github.com/dbc60/Intervals/pkg/stats"
)

const module = "report"

// Aggregates holds the four aggregate queries of one duration stream.
type Aggregates struct {
	Count    int           `json:"count"`
	Smallest time.Duration `json:"smallest"`
	Largest  time.Duration `json:"largest"`
	Average  time.Duration `json:"average"`
	Median   time.Duration `json:"median"`
}

// Collect queries all aggregates of a collector. It fails with
// errors.ErrNoSamples if the collector is empty.
func Collect(c *stats.Collector) (Aggregates, error) {
	smallest, err := c.Smallest()
	if err != nil {
		return Aggregates{}, err
	}
	largest, err := c.Largest()
	if err != nil {
		return Aggregates{}, err
	}
	average, err := c.Average()
	if err != nil {
		return Aggregates{}, err
	}
	median, err := c.Median()
	if err != nil {
		return Aggregates{}, err
	}

	return Aggregates{
		Count:    c.Count(),
		Smallest: smallest,
		Largest:  largest,
		Average:  average,
		Median:   median,
	}, nil
}

// Summary is the reportable record of one completed run.
type Summary struct {
	RunID            uuid.UUID     `json:"run_id"`
	Timer            string        `json:"timer"`
	Period           time.Duration `json:"period"`
	Iterations       int           `json:"iterations"`
	MissedSlots      int           `json:"missed_slots"`
	ActionFailures   int           `json:"action_failures"`
	ScheduledRuntime time.Duration `json:"scheduled_runtime"`
	Execution        Aggregates    `json:"execution"`
	Jitter           *Aggregates   `json:"jitter,omitempty"`
}

// FromRun builds a Summary from a completed run, assigning a fresh run ID.
// The run must have completed at least one iteration; otherwise the
// execution aggregates fail with errors.ErrNoSamples.
func FromRun(timer string, period time.Duration, run *interval.Run) (Summary, error) {
	if run == nil {
		return Summary{}, iverrors.NewValidationError(module, "run", nil, "cannot be nil").
			WithHint("complete a run before summarizing it")
	}

	execution, err := Collect(run.Execution())
	if err != nil {
		return Summary{}, fmt.Errorf("execution aggregates: %w", err)
	}

	return Summary{
		RunID:            uuid.New(),
		Timer:            timer,
		Period:           period,
		Iterations:       run.Iterations,
		MissedSlots:      run.MissedSlots,
		ActionFailures:   run.ActionFailures,
		ScheduledRuntime: run.ScheduledRuntime(),
		Execution:        execution,
	}, nil
}

// WithJitter attaches aggregates of a caller-owned jitter collector, the
// stream an action records its observed jitter values into.
func (s *Summary) WithJitter(c *stats.Collector) error {
	jitter, err := Collect(c)
	if err != nil {
		return fmt.Errorf("jitter aggregates: %w", err)
	}
	s.Jitter = &jitter
	return nil
}

// Writer renders a Summary to some sink.
type Writer interface {
	WriteSummary(s Summary) error
}

// TextWriter renders summaries as human-readable text.
type TextWriter struct {
	w io.Writer
}

// NewTextWriter creates a TextWriter rendering to w.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{w: w}
}

// WriteSummary implements Writer.
func (t *TextWriter) WriteSummary(s Summary) error {
	var sb strings.Builder

	sb.WriteString("=== Run Summary ===\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s\n", s.RunID))
	if s.Timer != "" {
		sb.WriteString(fmt.Sprintf("Timer: %s\n", s.Timer))
	}
	sb.WriteString(fmt.Sprintf("Period: %s\n", s.Period))
	sb.WriteString(fmt.Sprintf("Iterations: %d\n", s.Iterations))
	sb.WriteString(fmt.Sprintf("Missed slots: %d\n", s.MissedSlots))
	sb.WriteString(fmt.Sprintf("Action failures: %d\n", s.ActionFailures))
	sb.WriteString(fmt.Sprintf("Scheduled runtime: %s\n", s.ScheduledRuntime))
	sb.WriteString("\n")

	writeAggregates(&sb, "Execution Durations", s.Execution)
	if s.Jitter != nil {
		sb.WriteString("\n")
		writeAggregates(&sb, "Jitter Delays", *s.Jitter)
	}

	_, err := io.WriteString(t.w, sb.String())
	return err
}

func writeAggregates(sb *strings.Builder, title string, a Aggregates) {
	sb.WriteString(fmt.Sprintf("--- %s ---\n", title))
	sb.WriteString(fmt.Sprintf("Samples: %d\n", a.Count))
	sb.WriteString(fmt.Sprintf("Smallest: %s\n", a.Smallest))
	sb.WriteString(fmt.Sprintf("Largest: %s\n", a.Largest))
	sb.WriteString(fmt.Sprintf("Average: %s\n", a.Average))
	sb.WriteString(fmt.Sprintf("Median: %s\n", a.Median))
}

// JSONWriter renders summaries as single-line JSON documents.
type JSONWriter struct {
	enc *json.Encoder
}

// NewJSONWriter creates a JSONWriter rendering to w.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{enc: json.NewEncoder(w)}
}

// WriteSummary implements Writer.
func (j *JSONWriter) WriteSummary(s Summary) error {
	return j.enc.Encode(s)
}
