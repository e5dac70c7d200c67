package models

import "github.com/cortexai/toolhost/internal/tools"

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp string  `json:"timestamp"`
	Uptime    float64 `json:"uptime"`
	Version   string  `json:"version"`
	Tools     int     `json:"tools"`
}

// ToolSummary is one element of GET /tools
type ToolSummary struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// ToolListResponse is returned by GET /tools
type ToolListResponse struct {
	Count int           `json:"count"`
	Tools []ToolSummary `json:"tools"`
}

// ToolInfoResponse is returned by GET /tools/{toolName}
type ToolInfoResponse struct {
	Metadata tools.Descriptor `json:"metadata"`
}

// APIInfo is returned by GET /
type APIInfo struct {
	Name          string            `json:"name"`
	Version       string            `json:"version"`
	Description   string            `json:"description"`
	Endpoints     map[string]string `json:"endpoints"`
	Documentation string            `json:"documentation"`
}
