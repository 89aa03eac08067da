// Package handler provides HTTP handlers for the API.
package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/capitalize-ai/ai-slides/internal/model"
	"github.com/capitalize-ai/ai-slides/internal/service"
	"github.com/capitalize-ai/ai-slides/pkg/logger"
)

// maxJSONBody bounds decoded request bodies.
const maxJSONBody = 4 << 20

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

// writeServiceError maps a service failure to its status and caller-safe reason.
func writeServiceError(w http.ResponseWriter, log *logger.Logger, err error) {
	svcErr := service.AsError(err)
	status := svcErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		log.Error("request failed", zap.String("code", string(svcErr.Code)), zap.Error(err))
	}
	writeError(w, status, svcErr.Reason)
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	return json.NewDecoder(r.Body).Decode(v)
}
