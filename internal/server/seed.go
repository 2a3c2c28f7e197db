package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/club-rank-service/internal/logging"
	"github.com/preston-bernstein/club-rank-service/internal/seed"
	"github.com/preston-bernstein/club-rank-service/internal/store"
)

// applySeed loads path into st. An empty path is a no-op.
func applySeed(ctx context.Context, st store.Store, path string, logger *slog.Logger) error {
	if path == "" {
		logging.Debug(logger, "no seed file configured")
		return nil
	}
	data, err := seed.LoadFile(path)
	if err != nil {
		return err
	}
	if err := seed.Apply(ctx, st, data); err != nil {
		return fmt.Errorf("apply seed %s: %w", path, err)
	}
	if logger != nil {
		logger.Info("seed applied",
			slog.String("path", path),
			slog.Int("seasons", len(data.Seasons)),
			slog.Int("matches", len(data.Matches)),
			slog.Int("activities", len(data.Activities)),
			slog.Int("adjustments", len(data.Adjustments)),
		)
	}
	return nil
}
