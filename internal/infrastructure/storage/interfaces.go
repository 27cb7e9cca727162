package storage

import "errors"

// ErrNotFound is returned when a profile or run does not exist.
var ErrNotFound = errors.New("not found")

// Repository defines the complete storage interface.
// This interface allows swapping implementations (SQLite, in-memory)
// and makes testing with mocks straightforward.
type Repository interface {
	ProfileRepository
	RunRepository
	Close() error
}

// ProfileRepository handles saved input profiles
type ProfileRepository interface {
	// SaveProfile inserts or updates a profile. An empty ID is assigned a new UUID.
	SaveProfile(profile *Profile) error

	// GetProfile retrieves a profile by ID, or ErrNotFound
	GetProfile(id string) (*Profile, error)

	// ListProfiles returns all profiles ordered by name
	ListProfiles() ([]*Profile, error)

	// DeleteProfile removes a profile, or returns ErrNotFound
	DeleteProfile(id string) error
}

// RunRepository handles optimization run history
type RunRepository interface {
	// SaveRun records a completed run. An empty ID is assigned a new UUID.
	SaveRun(run *OptimizationRun) error

	// GetRun retrieves a run by ID, or ErrNotFound
	GetRun(id string) (*OptimizationRun, error)

	// ListRuns returns the most recent runs first
	ListRuns(limit int) ([]*OptimizationRun, error)
}
