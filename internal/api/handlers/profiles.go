package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/homequest-decor/internal/api/dto"
	"github.com/eshaffer321/homequest-decor/internal/application/service"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/storage"
)

// ProfilesHandler handles saved input profiles.
type ProfilesHandler struct {
	*Base
	svc *service.OptimizeService
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(repo storage.Repository, svc *service.OptimizeService) *ProfilesHandler {
	return &ProfilesHandler{
		Base: NewBase(repo),
		svc:  svc,
	}
}

// List handles GET /api/profiles.
func (h *ProfilesHandler) List(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.repo.ListProfiles()
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.ProfileListResponse{
		Profiles: make([]dto.ProfileResponse, 0, len(profiles)),
		Count:    len(profiles),
	}
	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toProfileResponse(p))
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/profiles/{id}.
func (h *ProfilesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("profile ID is required"))
		return
	}

	p, err := h.repo.GetProfile(id)
	if err != nil {
		h.WriteServiceError(w, err, "profile")
		return
	}

	h.WriteJSON(w, http.StatusOK, toProfileResponse(p))
}

// Create handles POST /api/profiles.
func (h *ProfilesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.ProfileRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	p := fromProfileRequest(req)
	if err := h.svc.SaveProfile(r.Context(), p); err != nil {
		h.WriteServiceError(w, err, "profile")
		return
	}

	h.WriteJSON(w, http.StatusCreated, toProfileResponse(p))
}

// Update handles PUT /api/profiles/{id}.
func (h *ProfilesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("profile ID is required"))
		return
	}

	var req dto.ProfileRequest
	if err := DecodeJSON(w, r, &req); err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	existing, err := h.repo.GetProfile(id)
	if err != nil {
		h.WriteServiceError(w, err, "profile")
		return
	}

	p := fromProfileRequest(req)
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	if err := h.svc.SaveProfile(r.Context(), p); err != nil {
		h.WriteServiceError(w, err, "profile")
		return
	}

	h.WriteJSON(w, http.StatusOK, toProfileResponse(p))
}

// Delete handles DELETE /api/profiles/{id}.
func (h *ProfilesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("profile ID is required"))
		return
	}

	if err := h.repo.DeleteProfile(id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			h.WriteError(w, http.StatusNotFound, dto.NotFoundError("profile"))
			return
		}
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func fromProfileRequest(req dto.ProfileRequest) *storage.Profile {
	return &storage.Profile{
		Name:         req.Name,
		Towns:        req.Towns,
		Quantities:   req.Quantities,
		ValhallaOnly: req.ValhallaOnly,
		Strategy:     req.Strategy,
	}
}

// toProfileResponse converts a storage Profile to an API response.
func toProfileResponse(p *storage.Profile) dto.ProfileResponse {
	towns := p.Towns
	if towns == nil {
		towns = []string{}
	}
	return dto.ProfileResponse{
		ID:           p.ID,
		Name:         p.Name,
		Towns:        towns,
		Quantities:   nonNil(p.Quantities),
		ValhallaOnly: p.ValhallaOnly,
		Strategy:     p.Strategy,
		CreatedAt:    dto.FormatTime(p.CreatedAt),
		UpdatedAt:    dto.FormatTime(p.UpdatedAt),
	}
}
