package handlers

import (
	"net/http"
	"strings"

	"github.com/eshaffer321/homequest-decor/internal/adapters/tabular"
	"github.com/eshaffer321/homequest-decor/internal/api/dto"
	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
)

// ImportHandler resolves uploaded quantity lists against the catalog.
type ImportHandler struct {
	*Base
	catalog *catalog.Catalog
}

// NewImportHandler creates a new import handler.
func NewImportHandler(c *catalog.Catalog) *ImportHandler {
	return &ImportHandler{Base: NewBase(nil), catalog: c}
}

// Import handles POST /api/import. The format comes from ?format=, or from
// the Content-Type when the parameter is absent.
func (h *ImportHandler) Import(w http.ResponseWriter, r *http.Request) {
	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(tabular.FormatCSV)
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			formatParam = string(tabular.FormatJSON)
		}
	}
	format, err := tabular.ParseFormat(formatParam)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.UnsupportedFormatError(formatParam))
		return
	}

	im, err := tabular.Read(http.MaxBytesReader(w, r.Body, maxBodyBytes), format, h.catalog)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError(err.Error()))
		return
	}

	issues := im.Issues
	if issues == nil {
		issues = []tabular.Issue{}
	}
	h.WriteJSON(w, http.StatusOK, dto.ImportResponse{
		Quantities: im.Quantities,
		Rows:       im.Rows,
		Issues:     issues,
	})
}
