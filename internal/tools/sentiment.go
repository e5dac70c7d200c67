package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Completer sends one system + user prompt pair to a language model and
// returns the text of its reply.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// SentimentResult is the result of sentiment_model.
type SentimentResult struct {
	Sentiment  float64 `json:"sentiment" jsonschema:"minimum=-1,maximum=1"`
	Confidence float64 `json:"confidence" jsonschema:"minimum=0,maximum=1"`
}

const sentimentSystemPrompt = `You rate the sentiment of a text.
Reply with a single JSON object and nothing else:
{"sentiment": <number from -1 (very negative) to 1 (very positive)>, "confidence": <number from 0 to 1>}`

// SentimentTool asks a language model to score the sentiment of the text.
func SentimentTool(c Completer) Module {
	const name = "sentiment_model"
	desc := &Descriptor{
		Name:         name,
		Description:  "Rates the sentiment of text from -1 (negative) to 1 (positive) using a language model",
		Version:      "1.0.0",
		InputSchema:  DefaultInputSchema,
		OutputSchema: DefaultOutputSchema,
		ResultSchema: reflectContract(&SentimentResult{}),
	}
	if c == nil {
		return Module{Descriptor: desc}
	}
	return Module{
		Descriptor: desc,
		Handler: func(ctx context.Context, input map[string]any) (any, error) {
			text, err := requireText(input)
			if err != nil {
				return nil, err
			}
			reply, err := c.Complete(ctx, sentimentSystemPrompt, text)
			if err != nil {
				return nil, fmt.Errorf("failed to call language model: %w", err)
			}
			res, err := parseSentiment(reply)
			if err != nil {
				return nil, err
			}
			return NewOutput(name, res), nil
		},
	}
}

// parseSentiment extracts the first JSON object from reply.
func parseSentiment(reply string) (SentimentResult, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end < start {
		return SentimentResult{}, fmt.Errorf("invalid model response: no JSON object")
	}
	var raw struct {
		Sentiment  *float64 `json:"sentiment"`
		Confidence *float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(reply[start:end+1]), &raw); err != nil {
		return SentimentResult{}, fmt.Errorf("invalid model response: %w", err)
	}
	if raw.Sentiment == nil {
		return SentimentResult{}, fmt.Errorf("invalid model response: missing field 'sentiment'")
	}
	if raw.Confidence == nil {
		return SentimentResult{}, fmt.Errorf("invalid model response: missing field 'confidence'")
	}
	return SentimentResult{Sentiment: *raw.Sentiment, Confidence: *raw.Confidence}, nil
}
