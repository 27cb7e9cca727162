package storage

import (
	"time"

	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
)

// DefaultRunLimit is used by ListRuns when limit is not positive.
const DefaultRunLimit = 50

// Profile is a saved set of optimizer inputs: selected towns, owned
// quantities and options.
type Profile struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Towns        []string       `json:"towns"`
	Quantities   map[string]int `json:"quantities"`
	ValhallaOnly bool           `json:"valhalla_only"`
	Strategy     string         `json:"strategy"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

// OptimizationRun is a recorded optimizer invocation and its outcome
type OptimizationRun struct {
	ID           string         `json:"id"`
	ProfileID    string         `json:"profile_id,omitempty"`
	Strategy     string         `json:"strategy"`
	ValhallaOnly bool           `json:"valhalla_only"`
	Towns        []string       `json:"towns"`
	Requested    map[string]int `json:"requested"`

	// Per-town totals and assignment events, keyed by town ID
	Allocations map[string]*optimizer.TownResult `json:"allocations"`

	Unused        map[string]int `json:"unused"`
	Unassignable  map[string]int `json:"unassignable,omitempty"`
	AssignedCount int            `json:"assigned_count"`
	CreatedAt     time.Time      `json:"created_at"`
}
