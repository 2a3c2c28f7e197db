package leaderboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/logging"
	"github.com/preston-bernstein/club-rank-service/internal/metrics"
	"github.com/preston-bernstein/club-rank-service/internal/scoring"
	"github.com/preston-bernstein/club-rank-service/internal/store"
)

// ErrPlayerNotFound is returned when a player has no row in the season's leaderboard.
var ErrPlayerNotFound = errors.New("player not found")

// Store defines the record reads the leaderboard needs.
type Store interface {
	ListMatches(ctx context.Context, seasonID string, filter store.RecordFilter) ([]points.MatchRecord, error)
	ListActivities(ctx context.Context, seasonID string, filter store.RecordFilter) ([]points.ActivityRecord, error)
	ListAdjustments(ctx context.Context, seasonID string) ([]points.Adjustment, error)
}

// SeasonResolver resolves a season id (or "active") to a season.
type SeasonResolver interface {
	Resolve(ctx context.Context, id string) (points.Season, error)
}

// Service computes leaderboards from stored records. Nothing is cached; every call recomputes.
type Service struct {
	seasons  SeasonResolver
	store    Store
	recorder *metrics.Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(seasons SeasonResolver, store Store, recorder *metrics.Recorder, logger *slog.Logger) *Service {
	return &Service{
		seasons:  seasons,
		store:    store,
		recorder: recorder,
		logger:   logger,
		now:      time.Now,
	}
}

// PlayerStanding is one player's row with the adjustments behind it.
type PlayerStanding struct {
	SeasonID    string                `json:"seasonId"`
	SeasonTitle string                `json:"seasonTitle"`
	Row         points.LeaderboardRow `json:"row"`
	Adjustments []points.Adjustment   `json:"adjustments"`
}

type seasonRecords struct {
	matches     []points.MatchRecord
	activities  []points.ActivityRecord
	adjustments []points.Adjustment
}

// Build resolves the season and returns its ranked leaderboard.
func (s *Service) Build(ctx context.Context, seasonID string) (points.LeaderboardResponse, error) {
	start := s.now()
	season, rows, _, err := s.compute(ctx, seasonID)
	s.recorder.RecordLeaderboardBuild(len(rows), s.now().Sub(start), err)
	if err != nil {
		return points.LeaderboardResponse{}, err
	}

	logging.Info(logging.FromContext(ctx, s.logger), "leaderboard built",
		logging.FieldSeasonID, season.ID,
		logging.FieldCount, len(rows),
		logging.FieldDurationMS, s.now().Sub(start).Milliseconds(),
	)
	return points.NewLeaderboardResponse(season, rows), nil
}

// Player returns the standing for a player name in the season.
func (s *Service) Player(ctx context.Context, seasonID, name string) (PlayerStanding, error) {
	name = strings.TrimSpace(name)
	season, rows, recs, err := s.compute(ctx, seasonID)
	if err != nil {
		return PlayerStanding{}, err
	}

	for _, row := range rows {
		if strings.TrimSpace(row.PlayerName) != name {
			continue
		}
		details := make([]points.Adjustment, 0)
		if totals, ok := scoring.IndexAdjustments(recs.adjustments)[name]; ok {
			details = totals.Details
		}
		return PlayerStanding{
			SeasonID:    season.ID,
			SeasonTitle: season.DisplayTitle(),
			Row:         row,
			Adjustments: details,
		}, nil
	}
	return PlayerStanding{}, fmt.Errorf("%w: %q in season %s", ErrPlayerNotFound, name, season.ID)
}

func (s *Service) compute(ctx context.Context, seasonID string) (points.Season, []points.LeaderboardRow, seasonRecords, error) {
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return points.Season{}, nil, seasonRecords{}, err
	}

	recs, err := s.fetch(ctx, season.ID)
	if err != nil {
		return points.Season{}, nil, seasonRecords{}, err
	}

	rows, err := scoring.BuildLeaderboard(&season, recs.matches, recs.activities, recs.adjustments)
	if err != nil {
		return points.Season{}, nil, seasonRecords{}, err
	}
	return season, rows, recs, nil
}

// fetch loads the three collections concurrently. Any failure cancels the rest.
func (s *Service) fetch(ctx context.Context, seasonID string) (seasonRecords, error) {
	var recs seasonRecords
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		matches, err := s.store.ListMatches(gctx, seasonID, store.RecordFilter{})
		if err != nil {
			return fmt.Errorf("fetch matches: %w", err)
		}
		recs.matches = confirmedOrAll(matches, func(m points.MatchRecord) points.RecordStatus { return m.Status })
		return nil
	})
	g.Go(func() error {
		activities, err := s.store.ListActivities(gctx, seasonID, store.RecordFilter{})
		if err != nil {
			return fmt.Errorf("fetch activities: %w", err)
		}
		recs.activities = confirmedOrAll(activities, func(a points.ActivityRecord) points.RecordStatus { return a.Status })
		return nil
	})
	g.Go(func() error {
		adjustments, err := s.store.ListAdjustments(gctx, seasonID)
		if err != nil {
			return fmt.Errorf("fetch adjustments: %w", err)
		}
		recs.adjustments = adjustments
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.Error(logging.FromContext(ctx, s.logger), "leaderboard fetch failed", err,
			logging.FieldSeasonID, seasonID,
		)
		return seasonRecords{}, err
	}
	return recs, nil
}

// confirmedOrAll keeps confirmed records, or every record when none is confirmed yet.
func confirmedOrAll[T any](recs []T, status func(T) points.RecordStatus) []T {
	confirmed := make([]T, 0, len(recs))
	for _, r := range recs {
		if status(r) == points.StatusConfirmed {
			confirmed = append(confirmed, r)
		}
	}
	if len(confirmed) == 0 {
		return recs
	}
	return confirmed
}
