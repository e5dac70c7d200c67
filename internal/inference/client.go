// Package inference holds the outbound clients used by tools: a plain JSON
// scoring client for hosted models and a Claude client for LLM-backed tools.
package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const maxResponseBytes = 1 << 20

// StatusError is returned when the upstream answers with a non-2xx status.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed with status %d", e.StatusCode)
}

// Client posts {"text": ...} to scoring endpoints. It never retries.
type Client struct {
	http      *http.Client
	userAgent string
}

// NewClient creates a scoring client. A zero timeout means no deadline other
// than the caller's context.
func NewClient(timeout time.Duration, userAgent string) *Client {
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Score returns the numeric value of every field (a gjson path) in the
// endpoint's JSON response.
func (c *Client) Score(ctx context.Context, endpoint, text string, fields []string) (map[string]float64, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	log.Debug().
		Str("endpoint", endpoint).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("upstream response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid API response: body is not JSON")
	}

	scores := make(map[string]float64, len(fields))
	for _, f := range fields {
		v := gjson.GetBytes(body, f)
		if v.Type != gjson.Number {
			return nil, fmt.Errorf("invalid API response: missing field '%s'", f)
		}
		scores[f] = v.Float()
	}
	return scores, nil
}
