// Package entity defines the core domain entities for the briefing agent:
// news items, email previews, weather readings, dependency health snapshots,
// and the final digest artifact.
package entity

// NewsItem represents a single headline fetched from one news source.
// It is immutable once fetched: created by a source client and consumed
// only by the digest generator.
type NewsItem struct {
	Title   string
	Summary string
	Source  string
	URL     string
}
