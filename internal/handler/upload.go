package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/middleware"
	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/internal/storage"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

// multipartOverhead allows for boundaries and part headers on top of the file.
const multipartOverhead = 1 << 20

// FileUploader stores an uploaded file.
type FileUploader interface {
	Upload(ctx context.Context, body io.Reader) (*model.UploadResponse, error)
	MaxBytes() int64
}

// UploadHandler handles presentation uploads.
type UploadHandler struct {
	uploader FileUploader
	logger   *logger.Logger
}

// NewUploadHandler creates a new upload handler.
func NewUploadHandler(uploader FileUploader, log *logger.Logger) *UploadHandler {
	return &UploadHandler{uploader: uploader, logger: log}
}

// Upload handles POST /upload
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := h.logger.WithRequest(middleware.GetCorrelationID(ctx), "")

	if limit := h.uploader.MaxBytes(); limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit+multipartOverhead)
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		writeError(w, http.StatusBadRequest, "No file uploaded.")
		return
	}
	defer file.Close()

	resp, err := h.uploader.Upload(ctx, file)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	case errors.Is(err, storage.ErrEmpty):
		writeError(w, http.StatusBadRequest, "Uploaded file is empty")
		return
	case err != nil:
		log.Error("upload failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to upload file")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
