package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/cortexai/toolhost/internal/middleware"
	"github.com/cortexai/toolhost/internal/models"
	"github.com/cortexai/toolhost/internal/service"
	"github.com/cortexai/toolhost/internal/tools"
)

// Registry is the read side of the tool registry.
type Registry interface {
	Get(name string) (tools.Entry, bool)
	Descriptors() []tools.Descriptor
}

// Executor runs a tool by name.
type Executor interface {
	Execute(ctx context.Context, name string, body []byte, caller service.Caller) (any, error)
}

// ToolsHandler handles the /tools endpoints
type ToolsHandler struct {
	registry     Registry
	executor     Executor
	maxBodyBytes int64
}

func NewToolsHandler(registry Registry, executor Executor, maxBodyBytes int64) *ToolsHandler {
	return &ToolsHandler{registry: registry, executor: executor, maxBodyBytes: maxBodyBytes}
}

// List handles GET /tools
func (h *ToolsHandler) List(w http.ResponseWriter, r *http.Request) {
	descs := h.registry.Descriptors()
	out := make([]models.ToolSummary, len(descs))
	for i, d := range descs {
		out[i] = models.ToolSummary{Name: d.Name, Description: d.Description, Version: d.Version}
	}
	models.WriteJSON(w, http.StatusOK, models.ToolListResponse{Count: len(out), Tools: out})
}

// Get handles GET /tools/{toolName}
func (h *ToolsHandler) Get(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "toolName")
	e, ok := h.registry.Get(name)
	if !ok {
		writeToolNotFound(w, name)
		return
	}
	models.WriteJSON(w, http.StatusOK, models.ToolInfoResponse{Metadata: e.Descriptor})
}

// Execute handles POST /tools/{toolName}/execute
func (h *ToolsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "toolName")

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			models.WriteJSON(w, http.StatusRequestEntityTooLarge, models.ErrorResponse{
				Error:   models.ErrPayloadTooLarge,
				Message: err.Error(),
			})
			return
		}
		models.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrInvalidInput,
			Details: "could not read request body: " + err.Error(),
		})
		return
	}

	out, err := h.executor.Execute(r.Context(), name, body, service.Caller{
		APIKey:    middleware.APIKey(r.Context()),
		RequestID: middleware.GetRequestID(r.Context()),
	})
	if err != nil {
		writeFailure(w, name, err)
		return
	}
	models.WriteJSON(w, http.StatusOK, out)
}

func writeToolNotFound(w http.ResponseWriter, name string) {
	models.WriteJSON(w, http.StatusNotFound, models.ErrorResponse{
		Error:    models.ErrToolNotFound,
		ToolName: name,
	})
}

func writeFailure(w http.ResponseWriter, name string, err error) {
	var f *service.Failure
	if !errors.As(err, &f) {
		log.Error().Err(err).Str("tool", name).Msg("unexpected execution error")
		models.WriteJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   models.ErrInternal,
			Message: err.Error(),
		})
		return
	}

	switch f.Kind {
	case service.FailureNotFound:
		writeToolNotFound(w, name)
	case service.FailureInvalidInput:
		models.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrInvalidInput,
			Details: f.Details,
		})
	case service.FailureExecution:
		models.WriteJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   models.ErrExecutionFailed,
			Message: f.Err.Error(),
		})
	case service.FailureInvalidOutput:
		models.WriteJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   models.ErrInvalidOutput,
			Details: f.Details,
		})
	default:
		models.WriteJSON(w, http.StatusInternalServerError, models.ErrorResponse{
			Error:   models.ErrInternal,
			Message: f.Error(),
		})
	}
}
