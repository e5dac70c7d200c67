package handler

import (
	"net/http"

	"github.com/cortexai/toolhost/internal/models"
)

// Index handles GET /
func Index(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusOK, models.APIInfo{
		Name:        "MCP AI Tools Server",
		Version:     Version,
		Description: "Model Context Protocol server hosting multiple AI tools",
		Endpoints: map[string]string{
			"health":      "GET /health",
			"listTools":   "GET /tools",
			"toolInfo":    "GET /tools/:toolName",
			"executeTool": "POST /tools/:toolName/execute",
		},
		Documentation: "See README.md for full documentation",
	})
}

// NotFound answers unknown routes and unsupported methods.
func NotFound(w http.ResponseWriter, r *http.Request) {
	models.WriteJSON(w, http.StatusNotFound, models.ErrorResponse{
		Error: models.ErrEndpointNotFound,
		Path:  r.URL.Path,
	})
}
