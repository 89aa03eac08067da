package handler

import (
	"context"
	"net/http"

	"github.com/capitalize-ai/ai-slides/internal/middleware"
	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

// SlideGenerator produces slides from a prompt.
type SlideGenerator interface {
	Generate(ctx context.Context, prompt string) ([]model.Slide, error)
}

// GenerateHandler handles slide generation.
type GenerateHandler struct {
	service SlideGenerator
	logger  *logger.Logger
}

// NewGenerateHandler creates a new generate handler.
func NewGenerateHandler(svc SlideGenerator, log *logger.Logger) *GenerateHandler {
	return &GenerateHandler{service: svc, logger: log}
}

// Generate handles POST /generate
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.WithRequest(middleware.GetCorrelationID(ctx), "")

	var req model.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	slides, err := h.service.Generate(ctx, req.Prompt)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	writeJSON(w, http.StatusOK, model.GenerateResponse{Slides: slides})
}
