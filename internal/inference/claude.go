package inference

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog/log"
)

const (
	DefaultClaudeModel = "claude-sonnet-4-6"
	claudeMaxTokens    = 256
)

// Claude sends single-turn prompts to the Anthropic Messages API or a
// compatible provider.
type Claude struct {
	client    *anthropic.Client
	model     string
	maxTokens int
}

// NewClaude creates a client. baseURL may be empty for the public API.
func NewClaude(apiKey, model, baseURL string) *Claude {
	if model == "" {
		model = DefaultClaudeModel
	}
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Claude{
		client:    anthropic.NewClient(opts...),
		model:     model,
		maxTokens: claudeMaxTokens,
	}
}

// Complete returns the concatenated text blocks of the model's reply.
func (c *Claude) Complete(ctx context.Context, system, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.Model(c.model)),
		MaxTokens: anthropic.F(int64(c.maxTokens)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	}
	if system != "" {
		params.System = anthropic.F([]anthropic.TextBlockParam{
			anthropic.NewTextBlock(system),
		})
	}

	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("LLM call failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if b, ok := block.AsUnion().(anthropic.TextBlock); ok {
			text += b.Text
		}
	}
	log.Debug().
		Str("model", c.model).
		Str("stop_reason", string(resp.StopReason)).
		Int("chars", len(text)).
		Msg("completion received")
	return text, nil
}
