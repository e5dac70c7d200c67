package handler

import (
	"net/http"
	"time"

	"github.com/cortexai/toolhost/internal/models"
)

// Version is the API version reported by / and /health.
const Version = "1.0.0"

// ToolCounter is implemented by the tool registry.
type ToolCounter interface {
	Len() int
}

// HealthHandler handles GET /health
type HealthHandler struct {
	started time.Time
	tools   ToolCounter
}

func NewHealthHandler(started time.Time, tools ToolCounter) *HealthHandler {
	return &HealthHandler{started: started, tools: tools}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
		Uptime:    time.Since(h.started).Seconds(),
		Version:   Version,
		Tools:     h.tools.Len(),
	})
}
