package dto

import (
	"time"

	"github.com/eshaffer321/homequest-decor/internal/adapters/tabular"
	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
)

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
	SchemaVersion int64  `json:"schema_version,omitempty"`
}

// DecorationResponse represents a catalog entry.
type DecorationResponse struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Green    int    `json:"green"`
	Blue     int    `json:"blue"`
	Red      int    `json:"red"`
}

// DecorationListResponse is returned when listing the catalog.
type DecorationListResponse struct {
	Decorations []DecorationResponse `json:"decorations"`
	Count       int                  `json:"count"`
}

// TownResponse represents a known town.
type TownResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TownListResponse is returned when listing towns.
type TownListResponse struct {
	Towns []TownResponse `json:"towns"`
}

// TownAllocationResponse is one town's outcome: channel totals and the
// decorations assigned, aggregated in catalog order.
type TownAllocationResponse struct {
	Name        string                      `json:"name"`
	Green       int                         `json:"green"`
	Blue        int                         `json:"blue"`
	Red         int                         `json:"red"`
	Decorations []optimizer.DecorationTotal `json:"decorations"`
}

// OptimizeResponse is returned by POST /api/optimize.
type OptimizeResponse struct {
	RunID        string                            `json:"run_id,omitempty"`
	Strategy     string                            `json:"strategy"`
	TownOrder    []string                          `json:"town_order"`
	Towns        map[string]TownAllocationResponse `json:"towns"`
	Unused       map[string]int                    `json:"unused"`
	Unassignable map[string]int                    `json:"unassignable"`
}

// ProfileResponse represents a saved profile.
type ProfileResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Towns        []string       `json:"towns"`
	Quantities   map[string]int `json:"quantities"`
	ValhallaOnly bool           `json:"valhalla_only"`
	Strategy     string         `json:"strategy"`
	CreatedAt    string         `json:"created_at"`
	UpdatedAt    string         `json:"updated_at"`
}

// ProfileListResponse is returned when listing profiles.
type ProfileListResponse struct {
	Profiles []ProfileResponse `json:"profiles"`
	Count    int               `json:"count"`
}

// RunResponse represents a recorded optimization run.
type RunResponse struct {
	ID            string                            `json:"id"`
	ProfileID     string                            `json:"profile_id,omitempty"`
	Strategy      string                            `json:"strategy"`
	ValhallaOnly  bool                              `json:"valhalla_only"`
	TownOrder     []string                          `json:"town_order"`
	Requested     map[string]int                    `json:"requested"`
	Towns         map[string]TownAllocationResponse `json:"towns,omitempty"`
	Unused        map[string]int                    `json:"unused"`
	Unassignable  map[string]int                    `json:"unassignable"`
	AssignedCount int                               `json:"assigned_count"`
	CreatedAt     string                            `json:"created_at"`
}

// RunListResponse is returned when listing runs. Per-town detail is omitted.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// ImportResponse is returned by POST /api/import.
type ImportResponse struct {
	Quantities map[string]int  `json:"quantities"`
	Rows       []tabular.Row   `json:"rows"`
	Issues     []tabular.Issue `json:"issues"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// FormatTime renders timestamps the same way in every response.
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
