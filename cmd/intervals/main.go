// Command intervals runs a jittered periodic timer scenario and reports
// timing statistics for it. It is a thin harness around pkg/interval and
// pkg/report: the built-in action records the jitter value of each slot and
// the run summary is rendered as text or JSON, optionally published to
// Redis and exposed as Prometheus metrics.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	ivcontext "github.com/dbc60/Intervals/pkg/common/context"
	"github.com/dbc60/Intervals/pkg/interval"
	"github.com/dbc60/Intervals/pkg/metrics"
	"github.com/dbc60/Intervals/pkg/report"
	"github.com/dbc60/Intervals/pkg/stats"
)

type runFlags struct {
	timerName     string
	period        time.Duration
	jitterMin     time.Duration
	jitterMax     time.Duration
	count         int
	duration      time.Duration
	output        string
	redisAddr     string
	redisChannel  string
	metricsListen string
}

func newRootCmd() *cobra.Command {
	flags := &runFlags{}

	cmd := &cobra.Command{
		Use:   "intervals",
		Short: "Run a jittered periodic timer and report its timing statistics",
		Long: `intervals drives a periodic timer whose slots are spaced by a fixed
nominal period and whose action is delayed by a bounded random jitter,
then reports jitter and execution-duration statistics for the run.

With --count the run is bounded and blocks for exactly that many slots.
With --duration the timer runs on a background schedule and is stopped
after roughly that much wall-clock time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(flags)
		},
		SilenceUsage: true,
	}

	// Defaults mirror the classic scenario: 100-500µs jitter over 1000
	// one-millisecond slots.
	cmd.Flags().StringVar(&flags.timerName, "name", "heartbeat", "timer name used in reports and metric labels")
	cmd.Flags().DurationVar(&flags.period, "period", time.Millisecond, "nominal period between slot starts")
	cmd.Flags().DurationVar(&flags.jitterMin, "jitter-min", 100*time.Microsecond, "inclusive lower jitter bound")
	cmd.Flags().DurationVar(&flags.jitterMax, "jitter-max", 500*time.Microsecond, "inclusive upper jitter bound")
	cmd.Flags().IntVar(&flags.count, "count", 1000, "number of slots for a bounded run")
	cmd.Flags().DurationVar(&flags.duration, "duration", 0, "wall-clock length of an unbounded run (overrides --count)")
	cmd.Flags().StringVar(&flags.output, "output", "text", "summary format: text or json")
	cmd.Flags().StringVar(&flags.redisAddr, "redis-addr", "", "publish the summary to this Redis address")
	cmd.Flags().StringVar(&flags.redisChannel, "redis-channel", "intervals:summaries", "Redis channel for published summaries")
	cmd.Flags().StringVar(&flags.metricsListen, "metrics-listen", "", "serve Prometheus metrics on this address")

	return cmd
}

func runScenario(flags *runFlags) error {
	log := logrus.WithField("timer", flags.timerName)

	cfg := interval.Config{
		JitterMin: flags.jitterMin,
		JitterMax: flags.jitterMax,
		Period:    flags.period,
	}

	var (
		timer *interval.Timer
		err   error
	)
	if flags.metricsListen != "" {
		go serveMetrics(flags.metricsListen)
		timer, err = interval.NewWithMetrics(cfg, flags.timerName, metrics.DefaultConfig())
	} else {
		timer, err = interval.New(cfg)
	}
	if err != nil {
		return err
	}

	jitters := stats.New()
	action := interval.ActionFunc(func(jitter time.Duration) error {
		jitters.Insert(jitter)
		return nil
	})

	var run *interval.Run
	if flags.duration > 0 {
		log.WithField("duration", flags.duration).Info("starting unbounded run")
		if err := timer.Start(action); err != nil {
			return err
		}

		ctx, cancel := ivcontext.WithTimeoutOrCancel(context.Background(), flags.duration)
		defer cancel()
		<-ctx.Done()

		if run, err = timer.Stop(); err != nil {
			return err
		}
	} else {
		log.WithField("count", flags.count).Info("starting bounded run")
		if run, err = timer.RunCount(action, flags.count); err != nil {
			return err
		}
	}

	log.WithFields(logrus.Fields{
		"iterations":   run.Iterations,
		"missed_slots": run.MissedSlots,
	}).Info("run complete")

	summary, err := report.FromRun(flags.timerName, flags.period, run)
	if err != nil {
		return err
	}
	if err := summary.WithJitter(jitters); err != nil {
		log.WithError(err).Warn("no jitter samples recorded")
	}

	var writer report.Writer
	switch flags.output {
	case "text":
		writer = report.NewTextWriter(os.Stdout)
	case "json":
		writer = report.NewJSONWriter(os.Stdout)
	default:
		return fmt.Errorf("unsupported output format %q", flags.output)
	}
	if err := writer.WriteSummary(summary); err != nil {
		return err
	}

	if flags.redisAddr != "" {
		return publishSummary(flags, summary, log)
	}
	return nil
}

func publishSummary(flags *runFlags, summary report.Summary, log *logrus.Entry) error {
	rdb := redis.NewClient(&redis.Options{Addr: flags.redisAddr})
	defer func() { _ = rdb.Close() }()

	publisher, err := report.NewPublisher(rdb, flags.redisChannel)
	if err != nil {
		return err
	}

	ctx, cancel := ivcontext.WithTimeoutOrCancel(context.Background(), 5*time.Second)
	defer cancel()

	if err := publisher.Publish(ctx, summary); err != nil {
		return err
	}
	log.WithField("channel", flags.redisChannel).Info("summary published")
	return nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if err := http.ListenAndServe(addr, mux); err != nil {
		logrus.WithError(err).Error("metrics endpoint failed")
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logrus.WithError(err).Fatal("run failed")
	}
}
