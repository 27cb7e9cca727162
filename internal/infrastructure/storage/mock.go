package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps, making tests fast and isolated.
type MockRepository struct {
	mu       sync.Mutex
	profiles map[string]*Profile
	runs     []*OptimizationRun

	// Hooks for test assertions
	SaveProfileCalled bool
	SaveRunCalled     bool
	LastSavedRun      *OptimizationRun

	// Error injection for testing error paths
	SaveProfileErr error
	GetProfileErr  error
	ListErr        error
	SaveRunErr     error
	GetRunErr      error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		profiles: make(map[string]*Profile),
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// SaveProfile stores a copy of the profile
func (m *MockRepository) SaveProfile(p *Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveProfileCalled = true
	if m.SaveProfileErr != nil {
		return m.SaveProfileErr
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if existing, ok := m.profiles[p.ID]; ok {
		p.CreatedAt = existing.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	copied := *p
	m.profiles[p.ID] = &copied
	return nil
}

// GetProfile retrieves a profile from the in-memory map
func (m *MockRepository) GetProfile(id string) (*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetProfileErr != nil {
		return nil, m.GetProfileErr
	}
	p, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	copied := *p
	return &copied, nil
}

// ListProfiles returns profiles ordered by name
func (m *MockRepository) ListProfiles() ([]*Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]*Profile, 0, len(m.profiles))
	for _, p := range m.profiles {
		copied := *p
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteProfile removes a profile from the in-memory map
func (m *MockRepository) DeleteProfile(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(m.profiles, id)
	for _, run := range m.runs {
		if run.ProfileID == id {
			run.ProfileID = ""
		}
	}
	return nil
}

// SaveRun appends a copy of the run
func (m *MockRepository) SaveRun(run *OptimizationRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SaveRunCalled = true
	m.LastSavedRun = run
	if m.SaveRunErr != nil {
		return m.SaveRunErr
	}
	if run.ProfileID != "" {
		if _, ok := m.profiles[run.ProfileID]; !ok {
			return fmt.Errorf("run %s: profile %s: %w", run.ID, run.ProfileID, ErrNotFound)
		}
	}
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	copied := *run
	m.runs = append(m.runs, &copied)
	return nil
}

// GetRun retrieves a run by ID
func (m *MockRepository) GetRun(id string) (*OptimizationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.GetRunErr != nil {
		return nil, m.GetRunErr
	}
	for _, run := range m.runs {
		if run.ID == id {
			copied := *run
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// ListRuns returns the most recently saved runs first
func (m *MockRepository) ListRuns(limit int) ([]*OptimizationRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if limit <= 0 {
		limit = DefaultRunLimit
	}
	out := make([]*OptimizationRun, 0, min(limit, len(m.runs)))
	for i := len(m.runs) - 1; i >= 0 && len(out) < limit; i-- {
		copied := *m.runs[i]
		out = append(out, &copied)
	}
	return out, nil
}
