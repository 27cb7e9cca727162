package handlers

import (
	"net/http"

	"github.com/eshaffer321/homequest-decor/internal/api/dto"
	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
)

// CatalogHandler serves the decoration and town tables.
type CatalogHandler struct {
	*Base
	catalog *catalog.Catalog
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(c *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{Base: NewBase(nil), catalog: c}
}

// Decorations handles GET /api/decorations - returns the catalog in order.
func (h *CatalogHandler) Decorations(w http.ResponseWriter, r *http.Request) {
	decorations := h.catalog.All()
	response := dto.DecorationListResponse{
		Decorations: make([]dto.DecorationResponse, 0, len(decorations)),
		Count:       len(decorations),
	}
	for _, d := range decorations {
		response.Decorations = append(response.Decorations, dto.DecorationResponse{
			Name:     d.Name,
			Category: d.Category,
			Green:    d.Green,
			Blue:     d.Blue,
			Red:      d.Red,
		})
	}
	h.WriteJSON(w, http.StatusOK, response)
}

// Towns handles GET /api/towns - returns the known towns.
func (h *CatalogHandler) Towns(w http.ResponseWriter, r *http.Request) {
	towns := h.catalog.Towns()
	response := dto.TownListResponse{Towns: make([]dto.TownResponse, 0, len(towns))}
	for _, t := range towns {
		response.Towns = append(response.Towns, dto.TownResponse{ID: t.ID, Name: t.Name})
	}
	h.WriteJSON(w, http.StatusOK, response)
}
