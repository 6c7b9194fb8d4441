// Package digest turns an aggregation result into the final briefing
// text, either through a generation backend or a deterministic fallback
// template. It never fails: every input produces a digest.
package digest

import (
	"context"
	"log/slog"
	"strings"

	"morning-brief/internal/observability/logging"
	"morning-brief/internal/observability/metrics"
)

// Backend is a generative-text service capable of answering one prompt
// with one named model.
type Backend interface {
	Generate(ctx context.Context, model, prompt string) (string, error)
}

// CandidateState tracks one model candidate through a reselection pass.
type CandidateState int

const (
	StateUntried CandidateState = iota
	StateAccepted
	StateRejected
)

// probePrompt is the trivial validation prompt used to test a candidate.
// Any non-empty answer qualifies the model.
const probePrompt = "Hello, how are you?"

// Selector owns the ordered model candidate list and the identity of the
// currently active model. Candidates are validated in priority order
// with a trivial prompt; the first one that answers becomes active.
//
// Reselection is driven exclusively by the health probe, at most once
// per run. The selector itself never re-validates spontaneously.
type Selector struct {
	backend    Backend
	candidates []string
	states     []CandidateState
	active     int // index into candidates, -1 when none
}

// NewSelector creates a selector over the ordered candidate list. No
// model is active until the first Reselect.
func NewSelector(backend Backend, candidates []string) *Selector {
	return &Selector{
		backend:    backend,
		candidates: candidates,
		states:     make([]CandidateState, len(candidates)),
		active:     -1,
	}
}

// Active returns the active model name, or "" when none is established.
func (s *Selector) Active() string {
	if s.active < 0 {
		return ""
	}
	return s.candidates[s.active]
}

// States returns a copy of the per-candidate states from the most
// recent reselection pass.
func (s *Selector) States() []CandidateState {
	out := make([]CandidateState, len(s.states))
	copy(out, s.states)
	return out
}

// Validate probes the active model with the trivial prompt and reports
// whether it still answers. With no active model it reports false
// without any backend call. A failed validation does not change state;
// recovery is the caller's decision via Reselect.
func (s *Selector) Validate(ctx context.Context) bool {
	model := s.Active()
	if model == "" {
		return false
	}

	text, err := s.backend.Generate(ctx, model, probePrompt)
	if err != nil || strings.TrimSpace(text) == "" {
		logging.FromContext(ctx).Warn("active model failed validation",
			slog.String("model", model),
			slog.Any("error", err))
		return false
	}
	return true
}

// Reselect runs one full validation pass over the candidate list in
// priority order and reports whether a model is active afterwards.
// Every pass starts fresh: a candidate rejected in an earlier pass may
// recover. When every candidate fails, the active model is cleared and
// synthesis falls back to the template until a later pass succeeds.
func (s *Selector) Reselect(ctx context.Context) bool {
	logger := logging.FromContext(ctx)

	s.active = -1
	for i := range s.states {
		s.states[i] = StateUntried
	}

	for i, candidate := range s.candidates {
		text, err := s.backend.Generate(ctx, candidate, probePrompt)
		if err != nil || strings.TrimSpace(text) == "" {
			s.states[i] = StateRejected
			logger.Warn("model candidate rejected",
				slog.String("model", candidate),
				slog.Any("error", err))
			continue
		}

		s.states[i] = StateAccepted
		s.active = i
		metrics.ModelReselectionsTotal.WithLabelValues("selected").Inc()
		logger.Info("model selected", slog.String("model", candidate))
		return true
	}

	metrics.ModelReselectionsTotal.WithLabelValues("exhausted").Inc()
	logger.Warn("model selection exhausted",
		slog.Int("candidates", len(s.candidates)))
	return false
}
