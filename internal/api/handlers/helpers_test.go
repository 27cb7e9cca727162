package handlers_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/homequest-decor/internal/application/service"
	"github.com/eshaffer321/homequest-decor/internal/domain/catalog"
	"github.com/eshaffer321/homequest-decor/internal/domain/optimizer"
	"github.com/eshaffer321/homequest-decor/internal/infrastructure/storage"
)

// Helper to set chi URL param in context
func setChiURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

func newTestService(repo *storage.MockRepository) *service.OptimizeService {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	engine := optimizer.New(catalog.Default(), optimizer.Options{})
	if repo == nil {
		return service.NewOptimizeService(engine, nil, logger, optimizer.StrategyMaximum)
	}
	return service.NewOptimizeService(engine, repo, logger, optimizer.StrategyMaximum)
}
