// Package health probes the agent's external dependencies before each
// briefing run so downstream stages can skip what is known to be down.
package health

import (
	"context"
	"log/slog"

	"morning-brief/internal/domain/entity"
	"morning-brief/internal/observability/logging"
	"morning-brief/internal/observability/metrics"
)

// ModelSelector is the generation-model state machine the probe drives.
// A reselection pass is the probe's recovery action for the generation
// dependency and happens at most once per Check.
type ModelSelector interface {
	Active() string
	Validate(ctx context.Context) bool
	Reselect(ctx context.Context) bool
}

// Pinger performs the cheapest real connectivity check a dependency
// supports.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Probe computes a fresh HealthStatus at the start of every run. A
// probe failure is recorded, logged, and reflected in the status; it
// never propagates as an error.
type Probe struct {
	selector ModelSelector
	weather  Pinger
	mailbox  Pinger
}

// NewProbe creates a health probe. A nil weather or mailbox pinger
// marks that dependency permanently down (not configured).
func NewProbe(selector ModelSelector, weather, mailbox Pinger) *Probe {
	return &Probe{selector: selector, weather: weather, mailbox: mailbox}
}

// Check probes every dependency and returns the snapshot. Generation is
// healthy when a model is active; if none is, exactly one reselection
// pass runs before the verdict.
func (p *Probe) Check(ctx context.Context) entity.HealthStatus {
	logger := logging.FromContext(ctx)

	status := entity.HealthStatus{
		Generation: p.checkGeneration(ctx, logger),
		Weather:    p.ping(ctx, logger, entity.DependencyWeather, p.weather),
		Mailbox:    p.ping(ctx, logger, entity.DependencyMailbox, p.mailbox),
	}

	metrics.RecordHealth(string(entity.DependencyGeneration), status.Generation)
	metrics.RecordHealth(string(entity.DependencyWeather), status.Weather)
	metrics.RecordHealth(string(entity.DependencyMailbox), status.Mailbox)

	logger.Info("health probe complete",
		slog.Bool("generation", status.Generation),
		slog.Bool("weather", status.Weather),
		slog.Bool("mailbox", status.Mailbox))

	return status
}

// checkGeneration reports whether a model is usable. The active model
// is revalidated with the trivial prompt; if that fails, or no model is
// active yet, the single permitted reselection pass runs before the
// verdict.
func (p *Probe) checkGeneration(ctx context.Context, logger *slog.Logger) bool {
	if p.selector == nil {
		return false
	}
	if p.selector.Validate(ctx) {
		return true
	}

	logger.Info("active model unusable, running reselection pass")
	return p.selector.Reselect(ctx)
}

func (p *Probe) ping(ctx context.Context, logger *slog.Logger, dep entity.Dependency, pinger Pinger) bool {
	if pinger == nil {
		return false
	}
	if err := pinger.Ping(ctx); err != nil {
		logger.Warn("dependency probe failed",
			slog.String("dependency", string(dep)),
			slog.Any("error", err))
		return false
	}
	return true
}
