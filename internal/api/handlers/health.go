package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/eshaffer321/homequest-decor/internal/api/dto"
)

// SchemaVersioner reports the applied database schema version.
type SchemaVersioner interface {
	SchemaVersion() (int64, error)
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	schema SchemaVersioner
}

// NewHealthHandler creates a new health handler. schema may be nil.
func NewHealthHandler(schema SchemaVersioner) *HealthHandler {
	return &HealthHandler{schema: schema}
}

// ServeHTTP handles the health check request.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := dto.NewHealthResponse()
	status := http.StatusOK

	if h.schema != nil {
		version, err := h.schema.SchemaVersion()
		if err != nil {
			response.Status = "degraded"
			status = http.StatusServiceUnavailable
		} else {
			response.SchemaVersion = version
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(response)
}
