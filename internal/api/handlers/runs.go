package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/homequest-decor/internal/adapters/tabular"
	"github.com/eshaffer321/homequest-decor/internal/api/dto"
	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/storage"
)

// RunsHandler handles optimization run history.
type RunsHandler struct {
	*Base
	catalog *catalog.Catalog
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(repo storage.Repository, c *catalog.Catalog) *RunsHandler {
	return &RunsHandler{
		Base:    NewBase(repo),
		catalog: c,
	}
}

// List handles GET /api/runs - returns recent runs, newest first.
func (h *RunsHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := ParseIntParam(r, "limit", 20)

	runs, err := h.repo.ListRuns(limit)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, dto.InternalError())
		return
	}

	response := dto.RunListResponse{
		Runs:  make([]dto.RunResponse, 0, len(runs)),
		Count: len(runs),
	}
	for _, run := range runs {
		summary := h.toRunResponse(run)
		summary.Towns = nil
		response.Runs = append(response.Runs, summary)
	}

	h.WriteJSON(w, http.StatusOK, response)
}

// Get handles GET /api/runs/{id} - returns a single run with per-town detail.
func (h *RunsHandler) Get(w http.ResponseWriter, r *http.Request) {
	run, ok := h.load(w, r)
	if !ok {
		return
	}
	h.WriteJSON(w, http.StatusOK, h.toRunResponse(run))
}

// Export handles GET /api/runs/{id}/export?format=csv|json.
func (h *RunsHandler) Export(w http.ResponseWriter, r *http.Request) {
	formatParam := r.URL.Query().Get("format")
	if formatParam == "" {
		formatParam = string(tabular.FormatCSV)
	}
	format, err := tabular.ParseFormat(formatParam)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, dto.UnsupportedFormatError(formatParam))
		return
	}

	run, ok := h.load(w, r)
	if !ok {
		return
	}

	result := &optimizer.Result{
		Strategy:     optimizer.Strategy(run.Strategy),
		Towns:        run.Allocations,
		Unassignable: run.Unassignable,
	}
	report := optimizer.NewReport(h.catalog, run.Towns, result, run.Requested)

	contentType := "text/csv"
	if format == tabular.FormatJSON {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename=\"run-"+run.ID+"."+string(format)+"\"")
	w.WriteHeader(http.StatusOK)
	_ = tabular.Write(w, format, h.catalog, report)
}

func (h *RunsHandler) load(w http.ResponseWriter, r *http.Request) (*storage.OptimizationRun, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.WriteError(w, http.StatusBadRequest, dto.BadRequestError("run ID is required"))
		return nil, false
	}

	run, err := h.repo.GetRun(id)
	if err != nil {
		h.WriteServiceError(w, err, "run")
		return nil, false
	}
	return run, true
}

// toRunResponse converts a storage OptimizationRun to an API response.
func (h *RunsHandler) toRunResponse(run *storage.OptimizationRun) dto.RunResponse {
	towns := run.Towns
	if towns == nil {
		towns = []string{}
	}
	return dto.RunResponse{
		ID:            run.ID,
		ProfileID:     run.ProfileID,
		Strategy:      run.Strategy,
		ValhallaOnly:  run.ValhallaOnly,
		TownOrder:     towns,
		Requested:     nonNil(run.Requested),
		Towns:         toTownAllocations(h.catalog, run.Allocations),
		Unused:        nonNil(run.Unused),
		Unassignable:  nonNil(run.Unassignable),
		AssignedCount: run.AssignedCount,
		CreatedAt:     dto.FormatTime(run.CreatedAt),
	}
}
