// Package briefing sequences one complete run: probe, aggregate,
// synthesize, deliver. Whatever happens upstream, a run produces at
// most one outbound message.
package briefing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"morning-brief/internal/domain/entity"
	"morning-brief/internal/observability/logging"
	"morning-brief/internal/observability/metrics"
	"morning-brief/internal/usecase/aggregate"
)

// subjectDateFormat renders the date part of the briefing subject,
// e.g. "Thursday, August 28, 2026".
const subjectDateFormat = "Monday, January 02, 2006"

const errorSubject = "Morning Briefing - Error Occurred"

// HealthProbe computes the per-dependency snapshot for a run.
type HealthProbe interface {
	Check(ctx context.Context) entity.HealthStatus
}

// Aggregator collects the briefing material; it never fails.
type Aggregator interface {
	Fetch(ctx context.Context, health entity.HealthStatus) aggregate.Result
}

// DigestGenerator synthesizes the briefing text; it never fails.
type DigestGenerator interface {
	Synthesize(ctx context.Context, result aggregate.Result) entity.Digest
}

// Notifier delivers one outbound message. Failure is best-effort from
// the orchestrator's point of view: logged, never propagated.
type Notifier interface {
	Deliver(ctx context.Context, subject, body string) error
}

// RunStats summarizes one briefing run for logging and the scheduler.
type RunStats struct {
	RunID           string
	Start           time.Time
	Duration        time.Duration
	NewsCount       int
	EmailCount      int
	WeatherIncluded bool
	Degraded        bool
	Delivered       bool
	Panicked        bool
}

// Orchestrator runs the briefing pipeline end to end.
type Orchestrator struct {
	probe     HealthProbe
	aggregate Aggregator
	generator DigestGenerator
	notifier  Notifier
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock injects the time source used for subjects and timing.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator wires the pipeline stages together.
func NewOrchestrator(probe HealthProbe, agg Aggregator, gen DigestGenerator, notifier Notifier, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		probe:     probe,
		aggregate: agg,
		generator: gen,
		notifier:  notifier,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one briefing run. Any panic escaping a stage is caught
// at this boundary and converted into a short apology notice; exactly
// one delivery is attempted per run either way. Run itself never
// returns an error: the stats record what happened.
func (o *Orchestrator) Run(ctx context.Context) (stats *RunStats) {
	start := o.now()
	stats = &RunStats{RunID: uuid.NewString(), Start: start}

	logger := logging.WithRunID(logging.FromContext(ctx), stats.RunID)
	ctx = logging.WithLogger(ctx, logger)

	delivered := false

	defer func() {
		stats.Duration = o.now().Sub(start)
		if r := recover(); r != nil {
			stats.Panicked = true
			logger.Error("briefing run panicked", slog.Any("panic", r))
			if !delivered {
				stats.Delivered = o.deliverErrorNotice(ctx, logger, r)
			}
			metrics.RecordRun("error_notice", stats.Duration)
			return
		}

		outcome := "delivered"
		if stats.Degraded {
			outcome = "degraded"
		}
		metrics.RecordRun(outcome, stats.Duration)
		logger.Info("briefing run complete",
			slog.Bool("delivered", stats.Delivered),
			slog.Bool("degraded", stats.Degraded),
			slog.Duration("duration", stats.Duration))
	}()

	logger.Info("briefing run starting")

	health := o.probe.Check(ctx)
	result := o.aggregate.Fetch(ctx, health)

	stats.NewsCount = len(result.News)
	stats.EmailCount = len(result.Emails)
	stats.WeatherIncluded = result.Weather != nil

	digest := o.generator.Synthesize(ctx, result)
	stats.Degraded = digest.Degraded

	subject := "Your Morning Briefing - " + start.Format(subjectDateFormat)
	delivered = true
	if err := o.notifier.Deliver(ctx, subject, digest.Body); err != nil {
		logger.Error("briefing delivery failed", slog.Any("error", err))
	} else {
		stats.Delivered = true
	}

	return stats
}

// deliverErrorNotice sends the apology notice after a panic. Its own
// failure is terminal for the run and only logged.
func (o *Orchestrator) deliverErrorNotice(ctx context.Context, logger *slog.Logger, cause any) bool {
	body := fmt.Sprintf("Good morning. I regret to inform you that an error occurred while preparing your briefing: %v", cause)
	if err := o.notifier.Deliver(ctx, errorSubject, body); err != nil {
		logger.Error("error notice delivery failed", slog.Any("error", err))
		return false
	}
	return true
}
