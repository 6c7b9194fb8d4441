package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for the failure taxonomy of a briefing run.
var (
	// ErrSourceUnavailable indicates a single news source failed; its
	// contribution becomes empty and sibling sources are unaffected.
	ErrSourceUnavailable = errors.New("news source unavailable")

	// ErrDependencyDown indicates a probed dependency (weather, mailbox)
	// was detected unusable before fetching and was skipped.
	ErrDependencyDown = errors.New("dependency down")

	// ErrGenerationFailed indicates the generation backend errored or
	// returned empty output; synthesis falls back to the template path.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrEmptyResponse indicates a backend call succeeded but produced
	// no usable text.
	ErrEmptyResponse = errors.New("empty response")

	// ErrDeliveryFailed indicates the outbound notification could not be
	// sent; the run is still considered complete.
	ErrDeliveryFailed = errors.New("delivery failed")
)

// SourceError wraps a failure of one named news source so the aggregator
// can log which source degraded while keeping siblings isolated.
type SourceError struct {
	Source string
	Err    error
}

// Error returns a formatted message naming the failed source.
func (e *SourceError) Error() string {
	return fmt.Sprintf("source %q: %v", e.Source, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *SourceError) Unwrap() error { return e.Err }
