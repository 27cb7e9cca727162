package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/homequest-decor/internal/api/dto"
	"github.com/eshaffer321/homequest-decor/internal/application/service"
)

// OptimizeHandler runs the allocation engine over HTTP.
type OptimizeHandler struct {
	*Base
	svc *service.OptimizeService
}

// NewOptimizeHandler creates a new optimize handler.
func NewOptimizeHandler(svc *service.OptimizeService) *OptimizeHandler {
	return &OptimizeHandler{Base: NewBase(nil), svc: svc}
}

// Optimize handles POST /api/optimize.
func (h *OptimizeHandler) Optimize(w http.ResponseWriter, r *http.Request) {
	var req dto.OptimizeRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	outcome, err := h.svc.Optimize(r.Context(), service.OptimizeRequest{
		Towns:        req.Towns,
		Quantities:   req.Quantities,
		ValhallaOnly: req.ValhallaOnly,
		Strategy:     req.Strategy,
		ProfileID:    req.ProfileID,
	})
	if err != nil {
		h.WriteServiceError(w, err, "profile")
		return
	}

	h.WriteJSON(w, http.StatusOK, h.toResponse(outcome))
}

// OptimizeProfile handles POST /api/profiles/{id}/optimize.
func (h *OptimizeHandler) OptimizeProfile(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("profile ID is required"))
		return
	}

	outcome, err := h.svc.OptimizeProfile(r.Context(), id)
	if err != nil {
		h.WriteServiceError(w, err, "profile")
		return
	}

	h.WriteJSON(w, http.StatusOK, h.toResponse(outcome))
}

func (h *OptimizeHandler) toResponse(outcome *service.OptimizeOutcome) dto.OptimizeResponse {
	return dto.OptimizeResponse{
		RunID:        outcome.RunID,
		Strategy:     string(outcome.Strategy),
		TownOrder:    outcome.Towns,
		Towns:        toTownAllocations(h.svc.Engine().Catalog(), outcome.Result.Towns),
		Unused:       nonNil(outcome.Unused),
		Unassignable: nonNil(outcome.Unassignable),
	}
}
