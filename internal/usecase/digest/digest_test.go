package digest

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"morning-brief/internal/domain/entity"
	"morning-brief/internal/usecase/aggregate"
)

// fakeBackend scripts per-model responses and records every call.
type fakeBackend struct {
	responses map[string]string
	errs      map[string]error
	calls     []string
}

func (f *fakeBackend) Generate(_ context.Context, model, _ string) (string, error) {
	f.calls = append(f.calls, model)
	if err, ok := f.errs[model]; ok {
		return "", err
	}
	return f.responses[model], nil
}

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2026, time.August, 28, 7, 0, 0, 0, time.UTC)
	}
}

func sampleResult() aggregate.Result {
	return aggregate.Result{
		News: []entity.NewsItem{
			{Title: "Markets rally", Source: "BBC News"},
			{Title: "Monsoon arrives", Source: "Times of India"},
		},
		Weather: &entity.WeatherInfo{
			Temperature: 28.4,
			FeelsLike:   31.2,
			Description: "Scattered clouds",
			Humidity:    74,
			WindSpeed:   3.6,
		},
		Emails: []entity.EmailItem{
			{Sender: "Alice <alice@example.com>", Subject: "Quarterly review", Snippet: "Attached are the numbers..."},
		},
	}
}

func TestSelector_Reselect_FirstWorkingCandidateWins(t *testing.T) {
	backend := &fakeBackend{
		responses: map[string]string{"model-b": "hello", "model-c": "hello"},
		errs:      map[string]error{"model-a": errors.New("unavailable")},
	}
	selector := NewSelector(backend, []string{"model-a", "model-b", "model-c"})

	if selector.Active() != "" {
		t.Fatalf("Active() before first pass = %q, want empty", selector.Active())
	}

	if !selector.Reselect(context.Background()) {
		t.Fatal("Reselect() = false, want true")
	}
	if selector.Active() != "model-b" {
		t.Errorf("Active() = %q, want model-b", selector.Active())
	}

	states := selector.States()
	if states[0] != StateRejected || states[1] != StateAccepted || states[2] != StateUntried {
		t.Errorf("states = %v, want [rejected accepted untried]", states)
	}
	// model-c must never be probed once model-b answered
	for _, call := range backend.calls {
		if call == "model-c" {
			t.Error("selection probed a candidate after one was accepted")
		}
	}
}

func TestSelector_Reselect_EmptyResponseRejectsCandidate(t *testing.T) {
	backend := &fakeBackend{responses: map[string]string{"model-a": "   ", "model-b": "ok"}}
	selector := NewSelector(backend, []string{"model-a", "model-b"})

	selector.Reselect(context.Background())

	if selector.Active() != "model-b" {
		t.Errorf("Active() = %q, want model-b (whitespace answer must not qualify)", selector.Active())
	}
}

func TestSelector_Reselect_ExhaustedClearsActive(t *testing.T) {
	backend := &fakeBackend{errs: map[string]error{
		"model-a": errors.New("down"),
		"model-b": errors.New("down"),
	}}
	selector := NewSelector(backend, []string{"model-a", "model-b"})

	selector.Reselect(context.Background()) // pretend an earlier pass existed
	if selector.Reselect(context.Background()) {
		t.Error("Reselect() = true with every candidate down")
	}
	if selector.Active() != "" {
		t.Errorf("Active() = %q, want empty after exhaustion", selector.Active())
	}
}

func TestSelector_Reselect_RejectedCandidateCanRecover(t *testing.T) {
	backend := &fakeBackend{errs: map[string]error{"model-a": errors.New("down")}}
	selector := NewSelector(backend, []string{"model-a"})

	if selector.Reselect(context.Background()) {
		t.Fatal("first pass should fail")
	}

	backend.errs = nil
	backend.responses = map[string]string{"model-a": "recovered"}

	if !selector.Reselect(context.Background()) {
		t.Fatal("second pass should accept the recovered candidate")
	}
	if selector.Active() != "model-a" {
		t.Errorf("Active() = %q, want model-a", selector.Active())
	}
}

func TestGenerator_Synthesize_PrimaryPath(t *testing.T) {
	backend := &fakeBackend{responses: map[string]string{"model-a": "Good morning, sir. All is well."}}
	selector := NewSelector(backend, []string{"model-a"})
	selector.Reselect(context.Background())
	backend.calls = nil

	gen := NewGenerator(backend, selector, "Delhi", WithClock(fixedClock()))
	digest := gen.Synthesize(context.Background(), sampleResult())

	if digest.Degraded {
		t.Error("Degraded = true on the primary path")
	}
	if digest.Body != "Good morning, sir. All is well." {
		t.Errorf("Body = %q, want the backend response verbatim", digest.Body)
	}
	if len(backend.calls) != 1 {
		t.Errorf("backend calls = %d, want exactly 1", len(backend.calls))
	}
}

func TestGenerator_Synthesize_NoActiveModelFallsBack(t *testing.T) {
	backend := &fakeBackend{}
	selector := NewSelector(backend, nil)

	gen := NewGenerator(backend, selector, "Delhi", WithClock(fixedClock()))
	digest := gen.Synthesize(context.Background(), sampleResult())

	if !digest.Degraded {
		t.Error("Degraded = false, want fallback digest")
	}
	if len(backend.calls) != 0 {
		t.Errorf("backend calls = %d, want 0 without an active model", len(backend.calls))
	}
}

func TestGenerator_Synthesize_BackendErrorFallsBackWithoutRetry(t *testing.T) {
	backend := &fakeBackend{responses: map[string]string{"model-a": "ok"}}
	selector := NewSelector(backend, []string{"model-a"})
	selector.Reselect(context.Background())

	backend.errs = map[string]error{"model-a": errors.New("rate limited")}
	backend.calls = nil

	gen := NewGenerator(backend, selector, "Delhi", WithClock(fixedClock()))
	digest := gen.Synthesize(context.Background(), sampleResult())

	if !digest.Degraded {
		t.Error("Degraded = false, want fallback after backend error")
	}
	if len(backend.calls) != 1 {
		t.Errorf("backend calls = %d, want exactly 1 (no retry)", len(backend.calls))
	}
}

func TestGenerator_Synthesize_EmptyResponseFallsBack(t *testing.T) {
	backend := &fakeBackend{responses: map[string]string{"model-a": "ok"}}
	selector := NewSelector(backend, []string{"model-a"})
	selector.Reselect(context.Background())
	backend.responses["model-a"] = "  \n\t "

	gen := NewGenerator(backend, selector, "Delhi", WithClock(fixedClock()))
	digest := gen.Synthesize(context.Background(), sampleResult())

	if !digest.Degraded {
		t.Error("Degraded = false, want fallback after whitespace-only response")
	}
}

func TestRenderFallback_IsPure(t *testing.T) {
	now := fixedClock()()
	result := sampleResult()

	first := renderFallback(result, "Delhi", now)
	second := renderFallback(result, "Delhi", now)

	if first != second {
		t.Error("renderFallback is not deterministic for identical inputs")
	}
}

func TestRenderFallback_Sections(t *testing.T) {
	body := renderFallback(sampleResult(), "Delhi", fixedClock()())

	for _, want := range []string{
		"Good morning!",
		"NEWS HEADLINES:",
		"• Markets rally",
		"Source: BBC News",
		"WEATHER IN DELHI:",
		"Temperature: 28.4°C (feels like 31.2°C)",
		"Humidity: 74%",
		"Wind Speed: 3.6 m/s",
		"RECENT EMAILS (1 unread):",
		"Subject: Quarterly review",
		"Kindly note that this is a basic briefing",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("fallback body missing %q\n%s", want, body)
		}
	}
}

func TestRenderFallback_EmptySections(t *testing.T) {
	body := renderFallback(aggregate.Result{}, "Delhi", fixedClock()())

	for _, want := range []string{
		"NEWS: No news items available at this time.",
		"WEATHER: Weather information unavailable.",
		"EMAILS: No new emails found.",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("fallback body missing %q", want)
		}
	}
}

func TestBuildPrompt_EmailSentinelWhenEmpty(t *testing.T) {
	result := sampleResult()
	result.Emails = nil

	prompt := buildPrompt(result, "Delhi", fixedClock()())

	if !strings.Contains(prompt, "EMAILS: No new correspondence has arrived this morning.") {
		t.Error("prompt missing the explicit no-new-mail sentence")
	}
	if strings.Contains(prompt, "RECENT EMAILS") {
		t.Error("prompt contains an email block despite empty inbox")
	}
}

func TestBuildPrompt_IncludesBlocksAndRules(t *testing.T) {
	prompt := buildPrompt(sampleResult(), "Delhi", fixedClock()())

	for _, want := range []string{
		"NEWS HEADLINES:",
		"- Markets rally (BBC News)",
		"WEATHER IN DELHI:",
		"RECENT EMAILS (1 unread):",
		"Do NOT use any markdown formatting",
		"Write in plain text only",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
