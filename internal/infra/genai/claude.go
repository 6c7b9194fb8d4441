// Package genai provides generation backend implementations for digest
// synthesis. It includes adapters for Claude (Anthropic) and OpenAI APIs;
// the model identifier is supplied per call so the model selector can walk
// its candidate list over a single backend instance.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"morning-brief/internal/domain/entity"
	"morning-brief/internal/observability/metrics"
	"morning-brief/internal/resilience/circuitbreaker"
)

const defaultCallTimeout = 60 * time.Second

// Claude implements the generation backend over Anthropic's Messages API.
type Claude struct {
	client         anthropic.Client
	maxTokens      int64
	timeout        time.Duration
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewClaude creates a Claude backend with the given API key and response
// token budget.
func NewClaude(apiKey string, maxTokens int) *Claude {
	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		maxTokens:      int64(maxTokens),
		timeout:        defaultCallTimeout,
		circuitBreaker: circuitbreaker.New(circuitbreaker.GenerationAPIConfig()),
	}
}

// Generate invokes the named model once with the given prompt and returns
// its text response. A structurally empty response is an error.
func (c *Claude) Generate(ctx context.Context, model, prompt string) (string, error) {
	cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
		return c.doGenerate(ctx, model, prompt)
	})
	if err != nil {
		return "", err
	}
	return cbResult.(string), nil
}

func (c *Claude) doGenerate(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: c.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})
	duration := time.Since(start)
	metrics.GenerationDuration.Observe(duration.Seconds())

	if err != nil {
		slog.Warn("claude generation failed",
			slog.String("model", model),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api: %w", entity.ErrEmptyResponse)
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	slog.Debug("claude generation completed",
		slog.String("model", model),
		slog.Int("response_length", len(textBlock.Text)),
		slog.Duration("duration", duration))

	return textBlock.Text, nil
}
