package genai

import "context"

// NoOp is a generation backend that always reports failure, forcing every
// synthesis onto the deterministic fallback path. Used when the generation
// backend is configured as "none".
type NoOp struct{}

// NewNoOp creates a new NoOp backend.
func NewNoOp() *NoOp {
	return &NoOp{}
}

// Generate always returns an empty response so model selection rejects
// every candidate.
func (n *NoOp) Generate(_ context.Context, _, _ string) (string, error) {
	return "", nil
}
