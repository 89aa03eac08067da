package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/deck"
	"github.com/capitalize-ai/ai-slides/internal/middleware"
	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
	"github.com/capitalize-ai/ai-slides/pkg/metrics"
)

// ExportFilename is the attachment name of exported decks.
const ExportFilename = "presentation.pptx"

// ExportHandler renders decks to presentation files.
type ExportHandler struct {
	renderer deck.Renderer
	logger   *logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(renderer deck.Renderer, log *logger.Logger) *ExportHandler {
	return &ExportHandler{renderer: renderer, logger: log}
}

// Export handles POST /export
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.WithRequest(middleware.GetCorrelationID(ctx), "")

	var req model.ExportRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Slides) == 0 {
		writeError(w, http.StatusBadRequest, "No slides to export")
		return
	}
	if err := middleware.ValidateTitle(req.Title); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := h.renderer.Render(req.Title, req.Slides, req.Styles)
	if err != nil {
		metrics.ExportsTotal.WithLabelValues("error").Inc()
		log.Error("failed to render presentation", zap.Int("slides", len(req.Slides)), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to build presentation")
		return
	}
	metrics.ExportsTotal.WithLabelValues("success").Inc()

	w.Header().Set("Content-Type", deck.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
