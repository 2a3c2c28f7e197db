package store

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/logging"
	"github.com/preston-bernstein/club-rank-service/internal/metrics"
)

const (
	defaultRetryAttempts  = 3
	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 2 * time.Second
)

// retryingStore instruments every call and retries reads with exponential backoff.
// Writes run once so non-idempotent inserts are never duplicated.
type retryingStore struct {
	inner       Store
	backend     string
	logger      *slog.Logger
	recorder    *metrics.Recorder
	maxAttempts int
	newBackOff  func() backoff.BackOff
}

// NewRetryingStore wraps inner with metrics and read retries. If maxAttempts <= 0, a default is used.
func NewRetryingStore(inner Store, backend string, logger *slog.Logger, recorder *metrics.Recorder, maxAttempts int) Store {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	return &retryingStore{
		inner:       inner,
		backend:     backend,
		logger:      logger,
		recorder:    recorder,
		maxAttempts: maxAttempts,
		newBackOff: func() backoff.BackOff {
			b := backoff.NewExponentialBackOff()
			b.InitialInterval = defaultInitialBackoff
			b.MaxInterval = defaultMaxBackoff
			return b
		},
	}
}

func (r *retryingStore) Ping(ctx context.Context) error {
	return r.read(ctx, "ping", func(ctx context.Context) error { return r.inner.Ping(ctx) })
}

func (r *retryingStore) Close(ctx context.Context) error {
	return r.write(ctx, "close", func(ctx context.Context) error { return r.inner.Close(ctx) })
}

func (r *retryingStore) ListSeasons(ctx context.Context) ([]points.Season, error) {
	var out []points.Season
	err := r.read(ctx, "list_seasons", func(ctx context.Context) (err error) {
		out, err = r.inner.ListSeasons(ctx)
		return err
	})
	return out, err
}

func (r *retryingStore) GetSeason(ctx context.Context, id string) (points.Season, error) {
	var out points.Season
	err := r.read(ctx, "get_season", func(ctx context.Context) (err error) {
		out, err = r.inner.GetSeason(ctx, id)
		return err
	})
	return out, err
}

func (r *retryingStore) ActiveSeason(ctx context.Context) (points.Season, error) {
	var out points.Season
	err := r.read(ctx, "active_season", func(ctx context.Context) (err error) {
		out, err = r.inner.ActiveSeason(ctx)
		return err
	})
	return out, err
}

func (r *retryingStore) SaveSeason(ctx context.Context, season points.Season) error {
	return r.write(ctx, "save_season", func(ctx context.Context) error { return r.inner.SaveSeason(ctx, season) })
}

func (r *retryingStore) ActivateSeason(ctx context.Context, id string) error {
	return r.write(ctx, "activate_season", func(ctx context.Context) error { return r.inner.ActivateSeason(ctx, id) })
}

func (r *retryingStore) ListMatches(ctx context.Context, seasonID string, filter RecordFilter) ([]points.MatchRecord, error) {
	var out []points.MatchRecord
	err := r.read(ctx, "list_matches", func(ctx context.Context) (err error) {
		out, err = r.inner.ListMatches(ctx, seasonID, filter)
		return err
	})
	return out, err
}

func (r *retryingStore) GetMatch(ctx context.Context, seasonID, id string) (points.MatchRecord, error) {
	var out points.MatchRecord
	err := r.read(ctx, "get_match", func(ctx context.Context) (err error) {
		out, err = r.inner.GetMatch(ctx, seasonID, id)
		return err
	})
	return out, err
}

func (r *retryingStore) SaveMatch(ctx context.Context, rec points.MatchRecord) error {
	return r.write(ctx, "save_match", func(ctx context.Context) error { return r.inner.SaveMatch(ctx, rec) })
}

func (r *retryingStore) DeleteMatch(ctx context.Context, seasonID, id string) error {
	return r.write(ctx, "delete_match", func(ctx context.Context) error { return r.inner.DeleteMatch(ctx, seasonID, id) })
}

func (r *retryingStore) ListActivities(ctx context.Context, seasonID string, filter RecordFilter) ([]points.ActivityRecord, error) {
	var out []points.ActivityRecord
	err := r.read(ctx, "list_activities", func(ctx context.Context) (err error) {
		out, err = r.inner.ListActivities(ctx, seasonID, filter)
		return err
	})
	return out, err
}

func (r *retryingStore) GetActivity(ctx context.Context, seasonID, id string) (points.ActivityRecord, error) {
	var out points.ActivityRecord
	err := r.read(ctx, "get_activity", func(ctx context.Context) (err error) {
		out, err = r.inner.GetActivity(ctx, seasonID, id)
		return err
	})
	return out, err
}

func (r *retryingStore) SaveActivity(ctx context.Context, rec points.ActivityRecord) error {
	return r.write(ctx, "save_activity", func(ctx context.Context) error { return r.inner.SaveActivity(ctx, rec) })
}

func (r *retryingStore) DeleteActivity(ctx context.Context, seasonID, id string) error {
	return r.write(ctx, "delete_activity", func(ctx context.Context) error { return r.inner.DeleteActivity(ctx, seasonID, id) })
}

func (r *retryingStore) ListAdjustments(ctx context.Context, seasonID string) ([]points.Adjustment, error) {
	var out []points.Adjustment
	err := r.read(ctx, "list_adjustments", func(ctx context.Context) (err error) {
		out, err = r.inner.ListAdjustments(ctx, seasonID)
		return err
	})
	return out, err
}

func (r *retryingStore) AddAdjustment(ctx context.Context, adj points.Adjustment) error {
	return r.write(ctx, "add_adjustment", func(ctx context.Context) error { return r.inner.AddAdjustment(ctx, adj) })
}

func (r *retryingStore) read(ctx context.Context, op string, fn func(context.Context) error) error {
	attempt := 0
	operation := func() error {
		attempt++
		err := r.call(ctx, op, fn)
		if err != nil && !retryable(ctx, err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, delay time.Duration) {
		r.recorder.RecordStoreRetry(r.backend, op)
		logging.Warn(logging.FromContext(ctx, r.logger), "store call retry",
			logging.FieldBackend, r.backend,
			logging.FieldOperation, op,
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"delay", delay,
			"err", err,
		)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(r.newBackOff(), uint64(r.maxAttempts-1)), ctx)
	err := backoff.RetryNotify(operation, policy, notify)
	if err != nil && attempt > 1 {
		logging.Warn(logging.FromContext(ctx, r.logger), "store call failed",
			logging.FieldBackend, r.backend,
			logging.FieldOperation, op,
			"attempts", attempt,
			"err", err,
		)
	}
	return err
}

func (r *retryingStore) write(ctx context.Context, op string, fn func(context.Context) error) error {
	return r.call(ctx, op, fn)
}

func (r *retryingStore) call(ctx context.Context, op string, fn func(context.Context) error) error {
	start := time.Now()
	err := fn(ctx)
	r.recorder.RecordStoreCall(r.backend, op, time.Since(start), unexpected(err))
	return err
}

// retryable reports whether a failed read is worth another attempt.
func retryable(ctx context.Context, err error) bool {
	if ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, ErrNotFound) &&
		!errors.Is(err, ErrDecode) &&
		!errors.Is(err, context.Canceled) &&
		!errors.Is(err, context.DeadlineExceeded)
}

// unexpected hides ErrNotFound from error metrics; a miss is a normal answer.
func unexpected(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
