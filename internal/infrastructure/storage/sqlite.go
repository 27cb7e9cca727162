package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
)

// Storage provides SQLite database access for profiles and run history.
// It implements the Repository interface.
type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	db, err := sql.Open("sqlite3", dsn(dbPath))
	if err != nil {
		return nil, err
	}

	s := &Storage{db: db, now: func() time.Time { return time.Now().UTC() }}

	// Run all pending migrations
	if err := s.runMigrations(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// SaveProfile inserts a profile or updates the existing row with the same ID
func (s *Storage) SaveProfile(p *Profile) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	townsJSON, err := json.Marshal(nonNilSlice(p.Towns))
	if err != nil {
		return fmt.Errorf("failed to encode towns: %w", err)
	}
	quantitiesJSON, err := json.Marshal(nonNilMap(p.Quantities))
	if err != nil {
		return fmt.Errorf("failed to encode quantities: %w", err)
	}

	now := s.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err = s.db.Exec(`
	INSERT INTO profiles
	(id, name, towns_json, quantities_json, valhalla_only, strategy, created_at, updated_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		name = excluded.name,
		towns_json = excluded.towns_json,
		quantities_json = excluded.quantities_json,
		valhalla_only = excluded.valhalla_only,
		strategy = excluded.strategy,
		updated_at = excluded.updated_at`,
		p.ID, p.Name, string(townsJSON), string(quantitiesJSON),
		p.ValhallaOnly, p.Strategy, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.ID, err)
	}
	return nil
}

// GetProfile retrieves a profile by ID
func (s *Storage) GetProfile(id string) (*Profile, error) {
	row := s.db.QueryRow(`
	SELECT id, name, towns_json, quantities_json, valhalla_only, strategy, created_at, updated_at
	FROM profiles WHERE id = ?`, id)

	p, err := scanProfile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile %s: %w", id, err)
	}
	return p, nil
}

// ListProfiles returns all profiles ordered by name
func (s *Storage) ListProfiles() ([]*Profile, error) {
	rows, err := s.db.Query(`
	SELECT id, name, towns_json, quantities_json, valhalla_only, strategy, created_at, updated_at
	FROM profiles ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	profiles := []*Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

// DeleteProfile removes a profile. Runs that referenced it keep their data.
func (s *Storage) DeleteProfile(id string) error {
	res, err := s.db.Exec("DELETE FROM profiles WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// SaveRun records an optimization run
func (s *Storage) SaveRun(run *OptimizationRun) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = s.now()
	}

	encoded := make([]string, 0, 5)
	for _, v := range []any{
		nonNilSlice(run.Towns),
		nonNilMap(run.Requested),
		run.Allocations,
		nonNilMap(run.Unused),
		nonNilMap(run.Unassignable),
	} {
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode run %s: %w", run.ID, err)
		}
		encoded = append(encoded, string(data))
	}

	_, err := s.db.Exec(`
	INSERT INTO optimization_runs
	(id, profile_id, strategy, valhalla_only, towns_json, requested_json,
	 allocations_json, unused_json, unassignable_json, assigned_count, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, nullString(run.ProfileID), run.Strategy, run.ValhallaOnly,
		encoded[0], encoded[1], encoded[2], encoded[3], encoded[4],
		run.AssignedCount, run.CreatedAt,
	)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("run %s: profile %s: %w", run.ID, run.ProfileID, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}
	return nil
}

// GetRun retrieves a run by ID
func (s *Storage) GetRun(id string) (*OptimizationRun, error) {
	row := s.db.QueryRow(runSelect+" WHERE id = ?", id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns recent runs, newest first
func (s *Storage) ListRuns(limit int) ([]*OptimizationRun, error) {
	if limit <= 0 {
		limit = DefaultRunLimit
	}

	rows, err := s.db.Query(runSelect+" ORDER BY created_at DESC, rowid DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []*OptimizationRun{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

const runSelect = `
	SELECT id, profile_id, strategy, valhalla_only, towns_json, requested_json,
	       allocations_json, unused_json, unassignable_json, assigned_count, created_at
	FROM optimization_runs`

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanProfile(sc scanner) (*Profile, error) {
	var p Profile
	var townsJSON, quantitiesJSON string
	if err := sc.Scan(&p.ID, &p.Name, &townsJSON, &quantitiesJSON,
		&p.ValhallaOnly, &p.Strategy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(townsJSON), &p.Towns); err != nil {
		return nil, fmt.Errorf("failed to decode towns for profile %s: %w", p.ID, err)
	}
	if err := json.Unmarshal([]byte(quantitiesJSON), &p.Quantities); err != nil {
		return nil, fmt.Errorf("failed to decode quantities for profile %s: %w", p.ID, err)
	}
	return &p, nil
}

func scanRun(sc scanner) (*OptimizationRun, error) {
	var run OptimizationRun
	var profileID sql.NullString
	var townsJSON, requestedJSON, allocationsJSON, unusedJSON, unassignableJSON string
	if err := sc.Scan(&run.ID, &profileID, &run.Strategy, &run.ValhallaOnly,
		&townsJSON, &requestedJSON, &allocationsJSON, &unusedJSON, &unassignableJSON,
		&run.AssignedCount, &run.CreatedAt); err != nil {
		return nil, err
	}
	run.ProfileID = profileID.String

	for _, f := range []struct {
		data string
		dst  any
	}{
		{townsJSON, &run.Towns},
		{requestedJSON, &run.Requested},
		{allocationsJSON, &run.Allocations},
		{unusedJSON, &run.Unused},
		{unassignableJSON, &run.Unassignable},
	} {
		if err := json.Unmarshal([]byte(f.data), f.dst); err != nil {
			return nil, fmt.Errorf("failed to decode run %s: %w", run.ID, err)
		}
	}
	return &run, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// dsn enables foreign keys on every pooled connection, not just the one that
// happens to run a PRAGMA.
func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_foreign_keys=on"
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

func nonNilSlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilMap(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
