package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/storage"
)

// ErrValidation marks requests rejected before the engine runs.
var ErrValidation = errors.New("invalid request")

// Store is the persistence the service needs. storage.Repository satisfies it.
type Store interface {
	GetProfile(id string) (*storage.Profile, error)
	SaveProfile(profile *storage.Profile) error
	SaveRun(run *storage.OptimizationRun) error
}

// OptimizeRequest holds the inputs for one optimization.
type OptimizeRequest struct {
	Towns        []string
	Quantities   map[string]int
	ValhallaOnly bool
	Strategy     string // Empty uses the service default
	ProfileID    string // Optional; links the recorded run to a saved profile
}

// OptimizeOutcome is a completed optimization.
type OptimizeOutcome struct {
	RunID        string // Empty when no store is configured
	Strategy     optimizer.Strategy
	Towns        []string
	Result       *optimizer.Result
	Unused       map[string]int
	Unassignable map[string]int
}

// OptimizeService validates requests, runs the engine and records each run.
type OptimizeService struct {
	engine          *optimizer.Engine
	store           Store
	logger          *slog.Logger
	defaultStrategy optimizer.Strategy
}

// NewOptimizeService creates a new optimize service.
// If store is nil, runs are not recorded and profiles are unavailable.
func NewOptimizeService(engine *optimizer.Engine, store Store, logger *slog.Logger, defaultStrategy optimizer.Strategy) *OptimizeService {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultStrategy == "" {
		defaultStrategy = optimizer.StrategyMaximum
	}
	return &OptimizeService{
		engine:          engine,
		store:           store,
		logger:          logger.With("system", "optimizer"),
		defaultStrategy: defaultStrategy,
	}
}

// Engine returns the underlying allocation engine.
func (s *OptimizeService) Engine() *optimizer.Engine {
	return s.engine
}

// Optimize runs one allocation and records it when a store is configured.
func (s *OptimizeService) Optimize(ctx context.Context, req OptimizeRequest) (*OptimizeOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	engineReq, err := s.buildRequest(req)
	if err != nil {
		return nil, err
	}

	if req.ProfileID != "" && s.store != nil {
		if _, err := s.store.GetProfile(req.ProfileID); err != nil {
			return nil, fmt.Errorf("profile %s: %w", req.ProfileID, err)
		}
	}

	result, err := s.engine.Optimize(engineReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}

	outcome := &OptimizeOutcome{
		Strategy:     result.Strategy,
		Towns:        engineReq.Towns,
		Result:       result,
		Unused:       result.Unused(engineReq.Quantities),
		Unassignable: result.Unassignable,
	}

	assigned := optimizer.Pool(result.Assigned()).Total()

	s.logger.Info("optimization complete",
		"strategy", result.Strategy,
		"towns", len(engineReq.Towns),
		"valhalla_only", engineReq.ValhallaOnly,
		"assigned", assigned,
		"unused", optimizer.Pool(outcome.Unused).Total(),
	)
	if len(result.Unassignable) > 0 {
		s.logger.Warn("decorations could not be placed in any town",
			"strategy", result.Strategy,
			"unassignable", optimizer.Pool(result.Unassignable).Total(),
		)
	}

	if s.store == nil {
		return outcome, nil
	}

	run := &storage.OptimizationRun{
		ProfileID:     req.ProfileID,
		Strategy:      string(result.Strategy),
		ValhallaOnly:  engineReq.ValhallaOnly,
		Towns:         engineReq.Towns,
		Requested:     engineReq.Quantities,
		Allocations:   result.Towns,
		Unused:        outcome.Unused,
		Unassignable:  result.Unassignable,
		AssignedCount: assigned,
	}
	if err := s.store.SaveRun(run); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// The profile was deleted while the engine ran
			s.logger.Warn("profile removed before run was recorded", "profile_id", req.ProfileID)
		} else {
			s.logger.Error("failed to record run", "error", err)
		}
		return nil, fmt.Errorf("record run: %w", err)
	}
	outcome.RunID = run.ID

	s.logger.Debug("run recorded", "run_id", run.ID, "profile_id", req.ProfileID)
	return outcome, nil
}

// OptimizeProfile runs the inputs saved in a profile.
func (s *OptimizeService) OptimizeProfile(ctx context.Context, profileID string) (*OptimizeOutcome, error) {
	if s.store == nil {
		return nil, fmt.Errorf("%w: profiles require storage", ErrValidation)
	}
	p, err := s.store.GetProfile(profileID)
	if err != nil {
		return nil, fmt.Errorf("profile %s: %w", profileID, err)
	}
	return s.Optimize(ctx, OptimizeRequest{
		Towns:        p.Towns,
		Quantities:   p.Quantities,
		ValhallaOnly: p.ValhallaOnly,
		Strategy:     p.Strategy,
		ProfileID:    p.ID,
	})
}

// SaveProfile validates and stores a profile. An empty strategy is replaced
// with the service default.
func (s *OptimizeService) SaveProfile(_ context.Context, p *storage.Profile) error {
	if s.store == nil {
		return fmt.Errorf("%w: profiles require storage", ErrValidation)
	}
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return fmt.Errorf("%w: profile name is required", ErrValidation)
	}

	req, err := s.buildRequest(OptimizeRequest{
		Towns:        p.Towns,
		Quantities:   p.Quantities,
		ValhallaOnly: p.ValhallaOnly,
		Strategy:     p.Strategy,
	})
	if err != nil {
		return err
	}
	p.Strategy = string(req.Strategy)

	if err := s.store.SaveProfile(p); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	s.logger.Info("profile saved", "profile_id", p.ID, "name", p.Name)
	return nil
}

// buildRequest validates req against the catalog and resolves the strategy.
func (s *OptimizeService) buildRequest(req OptimizeRequest) (optimizer.Request, error) {
	cat := s.engine.Catalog()

	seen := make(map[string]bool, len(req.Towns))
	for _, town := range req.Towns {
		if !cat.IsKnownTown(town) {
			return optimizer.Request{}, fmt.Errorf("%w: unknown town %q", ErrValidation, town)
		}
		if seen[town] {
			return optimizer.Request{}, fmt.Errorf("%w: duplicate town %q", ErrValidation, town)
		}
		seen[town] = true
	}

	for name, qty := range req.Quantities {
		if qty < 0 {
			return optimizer.Request{}, fmt.Errorf("%w: negative quantity %d for %q", ErrValidation, qty, name)
		}
	}

	strategy := s.defaultStrategy
	if strings.TrimSpace(req.Strategy) != "" {
		parsed, err := optimizer.ParseStrategy(req.Strategy)
		if err != nil {
			return optimizer.Request{}, fmt.Errorf("%w: %w", ErrValidation, err)
		}
		strategy = parsed
	}

	towns := append([]string{}, req.Towns...)
	quantities := make(map[string]int, len(req.Quantities))
	for name, qty := range req.Quantities {
		quantities[name] = qty
	}

	return optimizer.Request{
		Towns:        towns,
		Quantities:   quantities,
		ValhallaOnly: req.ValhallaOnly,
		Strategy:     strategy,
	}, nil
}
