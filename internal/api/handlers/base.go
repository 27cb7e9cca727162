package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/eshaffer321/homequest-decor/internal/api/dto"
	"github.com/eshaffer321/homequest-decor/internal/application/service"
	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/storage"
)

// maxBodyBytes caps request bodies for JSON and import uploads.
const maxBodyBytes = 1 << 20

// Base provides shared functionality for all handlers.
type Base struct {
	repo storage.Repository
}

// NewBase creates a new base handler with the given repository.
func NewBase(repo storage.Repository) *Base {
	return &Base{repo: repo}
}

// WriteJSON writes a JSON response with the given status code.
func (b *Base) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error response with the given status code.
func (b *Base) WriteError(w http.ResponseWriter, status int, err dto.APIError) {
	b.WriteJSON(w, status, err)
}

// WriteServiceError maps service and storage errors to API errors.
func (b *Base) WriteServiceError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		b.WriteError(w, http.StatusBadRequest, dto.ValidationError(err.Error()))
	case errors.Is(err, storage.ErrNotFound):
		b.WriteError(w, http.StatusNotFound, dto.NotFoundError(resource))
	default:
		b.WriteError(w, http.StatusInternalServerError, dto.InternalError())
	}
}

// DecodeJSON reads a JSON body into v, rejecting unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// ParseIntParam parses an integer query parameter with a default value.
func ParseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return parsed
}

// toTownAllocations converts per-town results to responses keyed by town ID.
func toTownAllocations(c *catalog.Catalog, towns map[string]*optimizer.TownResult) map[string]dto.TownAllocationResponse {
	order := c.Names()
	out := make(map[string]dto.TownAllocationResponse, len(towns))
	for id, tr := range towns {
		if tr == nil {
			continue
		}
		out[id] = dto.TownAllocationResponse{
			Name:        c.TownName(id),
			Green:       tr.Green,
			Blue:        tr.Blue,
			Red:         tr.Red,
			Decorations: tr.Summary(order),
		}
	}
	return out
}

func nonNil(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
