package models

import (
	"encoding/json"
	"net/http"
)

// Error strings clients can match on.
const (
	ErrToolNotFound      = "Tool not found"
	ErrInvalidInput      = "Invalid input"
	ErrExecutionFailed   = "Tool execution failed"
	ErrInvalidOutput     = "Tool produced invalid output"
	ErrEndpointNotFound  = "Endpoint not found"
	ErrInternal          = "Internal server error"
	ErrPayloadTooLarge   = "Payload too large"
	ErrRateLimitExceeded = "Too many requests"
)

type ErrorResponse struct {
	Error    string `json:"error"`
	ToolName string `json:"toolName,omitempty"`
	Details  string `json:"details,omitempty"`
	Message  string `json:"message,omitempty"`
	Path     string `json:"path,omitempty"`
}

func WriteError(w http.ResponseWriter, code int, message string) {
	WriteJSON(w, code, ErrorResponse{Error: message})
}

func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}
