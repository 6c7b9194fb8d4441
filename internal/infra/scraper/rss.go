// Package scraper implements news source clients over RSS/Atom feeds.
// It uses the gofeed library to parse feed content, with a per-source
// circuit breaker guarding repeatedly failing endpoints.
package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/mmcdole/gofeed"
	"github.com/sony/gobreaker"

	"morning-brief/internal/domain/entity"
	"morning-brief/internal/resilience/circuitbreaker"
)

const userAgent = "MorningBriefBot"

// RSSSource fetches headlines from one RSS/Atom feed. Each source owns its
// circuit breaker so one misbehaving feed cannot trip its siblings.
type RSSSource struct {
	name           string
	feedURL        string
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewRSSSource creates a news source client for the named feed.
func NewRSSSource(name, feedURL string, client *http.Client) *RSSSource {
	return &RSSSource{
		name:           name,
		feedURL:        feedURL,
		client:         client,
		circuitBreaker: circuitbreaker.New(circuitbreaker.FeedFetchConfig(name)),
	}
}

// Name returns the source label attached to every fetched item.
func (s *RSSSource) Name() string { return s.name }

// Fetch retrieves and parses the feed, returning at most limit items in the
// feed's native order. Transport and parse failures are returned to the
// caller, which treats them as an empty contribution.
func (s *RSSSource) Fetch(ctx context.Context, limit int) ([]entity.NewsItem, error) {
	cbResult, err := s.circuitBreaker.Execute(func() (interface{}, error) {
		return s.doFetch(ctx, limit)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) {
			slog.Warn("feed fetch circuit breaker open, request rejected",
				slog.String("source", s.name),
				slog.String("url", s.feedURL),
				slog.String("state", s.circuitBreaker.State().String()))
		}
		return nil, &entity.SourceError{Source: s.name, Err: err}
	}

	return cbResult.([]entity.NewsItem), nil
}

// doFetch performs the actual feed fetch without the circuit breaker.
func (s *RSSSource) doFetch(ctx context.Context, limit int) ([]entity.NewsItem, error) {
	fp := gofeed.NewParser()
	fp.UserAgent = userAgent
	fp.Client = s.client

	feed, err := fp.ParseURLWithContext(s.feedURL, ctx)
	if err != nil {
		return nil, err
	}

	n := len(feed.Items)
	if limit > 0 && n > limit {
		n = limit
	}

	items := make([]entity.NewsItem, 0, n)
	for _, it := range feed.Items[:n] {
		summary := strings.TrimSpace(it.Description)
		if summary == "" {
			summary = it.Title
		}
		items = append(items, entity.NewsItem{
			Title:   it.Title,
			Summary: summary,
			Source:  s.name,
			URL:     it.Link,
		})
	}

	return items, nil
}
