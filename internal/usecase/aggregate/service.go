// Package aggregate collects the raw material for a briefing: news
// headlines, a weather reading, and unread inbox mail. Collection is
// best-effort by construction; a run always produces a Result.
package aggregate

import (
	"context"
	"log/slog"

	"morning-brief/internal/domain/entity"
	"morning-brief/internal/observability/logging"
	"morning-brief/internal/observability/metrics"
)

// NewsSource fetches up to limit headlines from one feed.
type NewsSource interface {
	Name() string
	Fetch(ctx context.Context, limit int) ([]entity.NewsItem, error)
}

// WeatherClient fetches the current conditions reading.
type WeatherClient interface {
	Fetch(ctx context.Context) (*entity.WeatherInfo, error)
}

// MailboxClient fetches unread messages from the configured folder.
type MailboxClient interface {
	FetchUnread(ctx context.Context, sinceDays, limit int) ([]entity.EmailItem, error)
}

// Result is the aggregated input for digest synthesis. Every field may
// be empty; emptiness is a degraded state, never a failure.
type Result struct {
	News    []entity.NewsItem
	Weather *entity.WeatherInfo
	Emails  []entity.EmailItem
}

// Service aggregates all briefing sources for one run. Sources are
// fetched sequentially in configured priority order, and each failure is
// contained to its own contribution.
type Service struct {
	sources     []NewsSource
	sourceLimit int
	weather     WeatherClient
	mailbox     MailboxClient
	sinceDays   int
	emailLimit  int
}

// NewService creates an aggregation service. sources are tried in the
// given priority order; sourceLimit caps headlines per source, and
// sinceDays/emailLimit bound the unread mail window.
func NewService(sources []NewsSource, sourceLimit int, weather WeatherClient, mailbox MailboxClient, sinceDays, emailLimit int) *Service {
	return &Service{
		sources:     sources,
		sourceLimit: sourceLimit,
		weather:     weather,
		mailbox:     mailbox,
		sinceDays:   sinceDays,
		emailLimit:  emailLimit,
	}
}

// Fetch gathers all available briefing material. It never returns an
// error: a failed source contributes nothing, and weather or mail are
// skipped outright when the health probe reported them down.
func (s *Service) Fetch(ctx context.Context, health entity.HealthStatus) Result {
	logger := logging.FromContext(ctx)

	result := Result{
		News: s.fetchNews(ctx, logger),
	}

	if health.Weather && s.weather != nil {
		result.Weather = s.fetchWeather(ctx, logger)
	} else {
		logger.Info("skipping weather", slog.Bool("healthy", health.Weather))
	}

	if health.Mailbox && s.mailbox != nil {
		result.Emails = s.fetchEmails(ctx, logger)
	} else {
		logger.Info("skipping mailbox", slog.Bool("healthy", health.Mailbox))
	}

	logger.Info("aggregation complete",
		slog.Int("news_items", len(result.News)),
		slog.Bool("weather_included", result.Weather != nil),
		slog.Int("email_items", len(result.Emails)))

	return result
}

// fetchNews walks every configured source in priority order. A failing
// source is logged and skipped; its siblings still run.
func (s *Service) fetchNews(ctx context.Context, logger *slog.Logger) []entity.NewsItem {
	var items []entity.NewsItem

	for _, source := range s.sources {
		fetched, err := source.Fetch(ctx, s.sourceLimit)
		metrics.RecordSourceFetch(source.Name(), len(fetched), err)
		if err != nil {
			logger.Warn("news source failed",
				slog.String("source", source.Name()),
				slog.Any("error", err))
			continue
		}
		items = append(items, fetched...)
	}

	return items
}

func (s *Service) fetchWeather(ctx context.Context, logger *slog.Logger) *entity.WeatherInfo {
	info, err := s.weather.Fetch(ctx)
	if err != nil {
		metrics.SourceFetchErrorsTotal.WithLabelValues("weather").Inc()
		logger.Warn("weather fetch failed", slog.Any("error", err))
		return nil
	}
	return info
}

func (s *Service) fetchEmails(ctx context.Context, logger *slog.Logger) []entity.EmailItem {
	emails, err := s.mailbox.FetchUnread(ctx, s.sinceDays, s.emailLimit)
	if err != nil {
		metrics.SourceFetchErrorsTotal.WithLabelValues("mailbox").Inc()
		logger.Warn("mailbox fetch failed", slog.Any("error", err))
		return nil
	}
	return emails
}
