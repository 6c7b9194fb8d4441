package genai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"morning-brief/internal/domain/entity"
	"morning-brief/internal/observability/metrics"
	"morning-brief/internal/resilience/circuitbreaker"
)

// OpenAI implements the generation backend over the Chat Completions API.
type OpenAI struct {
	client         *openai.Client
	maxTokens      int
	timeout        time.Duration
	circuitBreaker *circuitbreaker.CircuitBreaker
}

// NewOpenAI creates an OpenAI backend with the given API key and response
// token budget.
func NewOpenAI(apiKey string, maxTokens int) *OpenAI {
	return &OpenAI{
		client:         openai.NewClient(apiKey),
		maxTokens:      maxTokens,
		timeout:        defaultCallTimeout,
		circuitBreaker: circuitbreaker.New(circuitbreaker.GenerationAPIConfig()),
	}
}

// Generate invokes the named model once with the given prompt and returns
// its text response. A response without choices is an error.
func (o *OpenAI) Generate(ctx context.Context, model, prompt string) (string, error) {
	cbResult, err := o.circuitBreaker.Execute(func() (interface{}, error) {
		return o.doGenerate(ctx, model, prompt)
	})
	if err != nil {
		return "", err
	}
	return cbResult.(string), nil
}

func (o *OpenAI) doGenerate(ctx context.Context, model, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     model,
		MaxTokens: o.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	duration := time.Since(start)
	metrics.GenerationDuration.Observe(duration.Seconds())

	if err != nil {
		slog.Warn("openai generation failed",
			slog.String("model", model),
			slog.Duration("duration", duration),
			slog.Any("error", err))
		return "", fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai api: %w", entity.ErrEmptyResponse)
	}

	slog.Debug("openai generation completed",
		slog.String("model", model),
		slog.Int("response_length", len(resp.Choices[0].Message.Content)),
		slog.Duration("duration", duration))

	return resp.Choices[0].Message.Content, nil
}
