package security

import (
	"crypto/sha256"
	"fmt"

	"github.com/rs/zerolog/log"
)

// AuditLogger logs tool executions with hashed identifiers. Raw input text
// and API keys never reach the log.
type AuditLogger struct {
	enabled bool
}

func NewAuditLogger(enabled bool) *AuditLogger {
	return &AuditLogger{enabled: enabled}
}

// ExecutionEvent describes one pass through the executor.
type ExecutionEvent struct {
	Tool       string
	Input      []byte
	APIKey     string
	RequestID  string
	Stage      string
	Success    bool
	DurationMs int64
	Err        string
}

// LogExecution records a tool execution event.
func (a *AuditLogger) LogExecution(e ExecutionEvent) {
	if a == nil || !a.enabled {
		return
	}

	evt := log.Info().
		Str("event", "tool_audit").
		Str("tool", e.Tool).
		Str("input_hash", hashStr(string(e.Input))[:16]).
		Str("stage", e.Stage).
		Bool("success", e.Success).
		Int64("execution_time_ms", e.DurationMs)

	if e.APIKey != "" {
		evt = evt.Str("api_key_hash", hashStr(e.APIKey)[:16])
	}
	if e.RequestID != "" {
		evt = evt.Str("request_id", e.RequestID)
	}
	if e.Err != "" {
		evt = evt.Str("error", e.Err)
	}
	evt.Msg("audit")
}

// Fingerprint returns a short stable hash of s for log correlation.
func Fingerprint(s string) string {
	return hashStr(s)[:16]
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
