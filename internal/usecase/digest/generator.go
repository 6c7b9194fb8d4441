package digest

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"morning-brief/internal/domain/entity"
	"morning-brief/internal/observability/logging"
	"morning-brief/internal/observability/metrics"
	"morning-brief/internal/usecase/aggregate"
)

// Fallback trigger reasons, recorded as metric labels.
const (
	reasonNoModel       = "no_model"
	reasonGenerateError = "generate_failed"
	reasonEmptyResponse = "empty_response"
)

// Generator synthesizes the briefing text. The primary path asks the
// active model once; any failure lands on the fallback template. It
// never returns an error.
type Generator struct {
	backend  Backend
	selector *Selector
	city     string
	now      func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock injects the time source, used by tests to pin the rendered
// timestamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// NewGenerator creates a digest generator. city names the weather
// location in section headers.
func NewGenerator(backend Backend, selector *Selector, city string, opts ...Option) *Generator {
	g := &Generator{
		backend:  backend,
		selector: selector,
		city:     city,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Synthesize produces the briefing digest for the aggregated material.
// With an active model it issues exactly one generation call; an error
// or empty response falls through to the deterministic template with no
// retry. Without an active model it goes straight to the template.
func (g *Generator) Synthesize(ctx context.Context, result aggregate.Result) entity.Digest {
	logger := logging.FromContext(ctx)

	model := g.selector.Active()
	if model == "" {
		logger.Warn("no active model, using fallback briefing")
		return g.fallback(reasonNoModel, result)
	}

	text, err := g.backend.Generate(ctx, model, buildPrompt(result, g.city, g.now()))
	if err != nil {
		logger.Warn("generation failed, using fallback briefing",
			slog.String("model", model),
			slog.Any("error", err))
		return g.fallback(reasonGenerateError, result)
	}
	if strings.TrimSpace(text) == "" {
		logger.Warn("generation returned empty response, using fallback briefing",
			slog.String("model", model))
		return g.fallback(reasonEmptyResponse, result)
	}

	logger.Info("briefing generated",
		slog.String("model", model),
		slog.Int("length", len(text)))
	return entity.Digest{Body: text}
}

func (g *Generator) fallback(reason string, result aggregate.Result) entity.Digest {
	metrics.RecordFallback(reason)
	return entity.Digest{
		Body:     renderFallback(result, g.city, g.now()),
		Degraded: true,
	}
}
