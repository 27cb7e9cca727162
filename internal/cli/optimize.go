package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/eshaffer321/homequest-decor/internal/adapters/tabular"
	"github.com/eshaffer321/homequest-decor/internal/application/service"
	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/config"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/logging"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/storage"
)

// ErrNoDecorations is returned when a run has nothing to allocate.
var ErrNoDecorations = errors.New("no decorations given: use -import, -profile or NAME=QTY arguments")

// RunOptimize runs one allocation from the command line and prints the
// report to out. Logs go to logOut.
func RunOptimize(ctx context.Context, cfg *config.Config, flags *OptimizeFlags, out, logOut io.Writer) error {
	loggingCfg := cfg.Observability.Logging
	if flags.Verbose {
		loggingCfg.Level = "debug"
	}
	logger := logging.NewLoggerTo(logOut, loggingCfg).With("system", "cli")

	if flags.NoHistory && (flags.Profile != "" || flags.SaveProfile != "") {
		return fmt.Errorf("-profile and -save-profile need the database; drop -no-history")
	}

	cat, err := catalog.LoadOrDefault(cfg.Catalog.Path)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	defaultStrategy, err := optimizer.ParseStrategy(cfg.Optimizer.DefaultStrategy)
	if err != nil {
		return fmt.Errorf("optimizer.default_strategy: %w", err)
	}
	engine := optimizer.New(cat, optimizer.Options{TopperRespectsCap: cfg.Optimizer.TopperRespectsCap})

	var repo storage.Repository
	var store service.Store
	if !flags.NoHistory {
		s, err := storage.NewStorage(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		defer func() { _ = s.Close() }()
		repo, store = s, s
		logger.Debug("storage opened", "path", cfg.Storage.DatabasePath)
	}

	svc := service.NewOptimizeService(engine, store, logger, defaultStrategy)

	req := service.OptimizeRequest{}
	if flags.Profile != "" {
		p, err := findProfile(repo, flags.Profile)
		if err != nil {
			return err
		}
		logger.Info("loaded profile", "profile_id", p.ID, "name", p.Name)
		req = service.OptimizeRequest{
			Towns:        p.Towns,
			Quantities:   p.Quantities,
			ValhallaOnly: p.ValhallaOnly,
			Strategy:     p.Strategy,
			ProfileID:    p.ID,
		}
	}

	im, err := readQuantities(flags, cat)
	if err != nil {
		return err
	}
	PrintIssues(out, "input", im.Issues)
	if flags.Import != "" || len(flags.Quantities) > 0 {
		req.Quantities = im.Quantities
	}

	// Explicit flags override profile values
	if flags.IsSet("towns") {
		req.Towns = flags.TownList()
	}
	if len(req.Towns) == 0 {
		for _, t := range cat.Towns() {
			req.Towns = append(req.Towns, t.ID)
		}
	}
	if flags.IsSet("strategy") {
		req.Strategy = flags.Strategy
	}
	if flags.IsSet("valhalla-only") {
		req.ValhallaOnly = flags.ValhallaOnly
	}

	if len(req.Quantities) == 0 {
		return ErrNoDecorations
	}

	if flags.SaveProfile != "" {
		id, err := saveProfile(ctx, svc, repo, flags.SaveProfile, req)
		if err != nil {
			return err
		}
		req.ProfileID = id
	}

	outcome, err := svc.Optimize(ctx, req)
	if err != nil {
		return err
	}

	rep := optimizer.NewReport(cat, outcome.Towns, outcome.Result, req.Quantities)

	names := make([]string, 0, len(outcome.Towns))
	for _, id := range outcome.Towns {
		names = append(names, cat.TownName(id))
	}
	PrintHeader(out, outcome.Strategy, names, req.ValhallaOnly)
	PrintResults(out, rep)
	PrintSummary(out, outcome.RunID, rep)

	if flags.Export != "" {
		if err := tabular.WriteFile(flags.Export, cat, rep); err != nil {
			return fmt.Errorf("export: %w", err)
		}
		logger.Info("report exported", slog.String("path", flags.Export))
	}

	return nil
}

// readQuantities combines the -import file with positional NAME=QTY pairs.
func readQuantities(flags *OptimizeFlags, cat *catalog.Catalog) (*tabular.Import, error) {
	pairs := tabular.ParsePairs(flags.Quantities, cat)
	if flags.Import == "" {
		return pairs, nil
	}

	im, err := tabular.ReadFile(flags.Import, cat)
	if err != nil {
		return nil, err
	}
	im.Merge(pairs)
	return im, nil
}

// findProfile looks a profile up by ID, then by name.
func findProfile(repo storage.Repository, ref string) (*storage.Profile, error) {
	p, err := repo.GetProfile(ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	p, err = profileByName(repo, ref)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("profile %q: %w", ref, storage.ErrNotFound)
	}
	return p, nil
}

func profileByName(repo storage.Repository, name string) (*storage.Profile, error) {
	profiles, err := repo.ListProfiles()
	if err != nil {
		return nil, err
	}

	var found *storage.Profile
	for _, p := range profiles {
		if !strings.EqualFold(p.Name, name) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("profile name %q is ambiguous; use the profile ID", name)
		}
		found = p
	}
	return found, nil
}

// saveProfile stores req under name, replacing a profile with the same name.
func saveProfile(ctx context.Context, svc *service.OptimizeService, repo storage.Repository, name string, req service.OptimizeRequest) (string, error) {
	p := &storage.Profile{
		Name:         name,
		Towns:        req.Towns,
		Quantities:   req.Quantities,
		ValhallaOnly: req.ValhallaOnly,
		Strategy:     req.Strategy,
	}

	existing, err := profileByName(repo, strings.TrimSpace(name))
	if err != nil {
		return "", err
	}
	if existing != nil {
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
	}

	if err := svc.SaveProfile(ctx, p); err != nil {
		return "", err
	}
	return p.ID, nil
}
