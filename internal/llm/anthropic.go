// Package llm adapts the Anthropic API to the completion interface used by
// the agent.
package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/askdb/internal/config"
	"github.com/sells-group/askdb/internal/resilience"
	"github.com/sells-group/askdb/pkg/anthropic"
)

// Completer produces text completions with client-side rate limiting and
// retry on transient API errors.
type Completer struct {
	client    anthropic.Client
	model     string
	maxTokens int64
	limiter   *rate.Limiter
	retry     resilience.RetryConfig
}

// New creates a Completer from configuration.
func New(client anthropic.Client, cfg config.AnthropicConfig) *Completer {
	rps := cfg.RPS
	if rps <= 0 {
		rps = 2.0
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 2048
	}
	return &Completer{
		client:    client,
		model:     cfg.Model,
		maxTokens: maxTokens,
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		retry:     resilience.DefaultRetryConfig("anthropic.complete"),
	}
}

// Complete sends a single-turn prompt and returns the trimmed text of the
// response. Temperature is pinned to zero so identical prompts produce
// stable output.
func (c *Completer) Complete(ctx context.Context, system, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "llm: rate limit wait")
	}

	temperature := 0.0
	resp, err := resilience.DoVal(ctx, c.retry, func(ctx context.Context) (*anthropic.MessageResponse, error) {
		return c.client.CreateMessage(ctx, anthropic.MessageRequest{
			Model:       c.model,
			MaxTokens:   c.maxTokens,
			System:      []anthropic.SystemBlock{{Text: system}},
			Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
			Temperature: &temperature,
		})
	})
	if err != nil {
		return "", eris.Wrap(err, "llm: complete")
	}

	zap.L().Debug("completion",
		zap.String("model", resp.Model),
		zap.String("stop_reason", resp.StopReason),
		zap.Int64("input_tokens", resp.Usage.InputTokens),
		zap.Int64("output_tokens", resp.Usage.OutputTokens))

	return strings.TrimSpace(resp.Text()), nil
}
