package entity

// Digest is the terminal artifact of a briefing run: a single plain-text
// blob. It is whole or replaced entirely by an error notice, never
// partially delivered.
type Digest struct {
	// Body is the full digest text.
	Body string

	// Degraded is true when the body was rendered by the deterministic
	// fallback template instead of the generation backend.
	Degraded bool
}
