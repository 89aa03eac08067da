package handler

import (
	"context"
	"net/http"

	"github.com/capitalize-ai/ai-slides/internal/middleware"
	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

// HistoryService lists and saves sessions.
type HistoryService interface {
	List(ctx context.Context) ([]model.HistoryItem, error)
	Save(ctx context.Context, req model.SaveHistoryRequest) (*model.SaveHistoryResponse, error)
}

// HistoryHandler handles history endpoints.
type HistoryHandler struct {
	service HistoryService
	logger  *logger.Logger
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(svc HistoryService, log *logger.Logger) *HistoryHandler {
	return &HistoryHandler{service: svc, logger: log}
}

// List handles GET /history
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	items, err := h.service.List(ctx)
	if err != nil {
		writeServiceError(w, h.logger.WithRequest(middleware.GetCorrelationID(ctx), ""), err)
		return
	}

	writeJSON(w, http.StatusOK, model.ListHistoryResponse{Items: items})
}

// Save handles POST /history
func (h *HistoryHandler) Save(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.SaveHistoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := middleware.ValidateSessionID(req.SessionID); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.service.Save(ctx, req)
	if err != nil {
		writeServiceError(w, h.logger.WithRequest(middleware.GetCorrelationID(ctx), req.SessionID), err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
