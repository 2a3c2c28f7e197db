package seasons

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/logging"
	"github.com/preston-bernstein/club-rank-service/internal/scoring"
	"github.com/preston-bernstein/club-rank-service/internal/store"
)

// ActiveAlias resolves to the active season (or the fallback) wherever a season id is accepted.
const ActiveAlias = "active"

// ErrInvalidSeason is returned when a season fails validation on save.
var ErrInvalidSeason = errors.New("invalid season")

// Store defines the season persistence the service needs.
type Store interface {
	ListSeasons(ctx context.Context) ([]points.Season, error)
	GetSeason(ctx context.Context, id string) (points.Season, error)
	ActiveSeason(ctx context.Context) (points.Season, error)
	SaveSeason(ctx context.Context, season points.Season) error
	ActivateSeason(ctx context.Context, id string) error
}

// Service resolves and manages seasons.
type Service struct {
	store      Store
	fallbackID string
	logger     *slog.Logger
}

// NewService constructs a Service. fallbackID is used when no season is flagged active.
func NewService(store Store, fallbackID string, logger *slog.Logger) *Service {
	if strings.TrimSpace(fallbackID) == "" {
		fallbackID = points.DefaultSeasonID
	}
	return &Service{store: store, fallbackID: fallbackID, logger: logger}
}

// FallbackID returns the season id used when none is active.
func (s *Service) FallbackID() string {
	return s.fallbackID
}

// Resolve returns the season for id. An empty id or "active" picks the active season,
// then the fallback id; if neither exists the error wraps scoring.ErrSeasonNotFound.
func (s *Service) Resolve(ctx context.Context, id string) (points.Season, error) {
	id = strings.TrimSpace(id)
	if id != "" && !strings.EqualFold(id, ActiveAlias) {
		return s.get(ctx, id)
	}

	season, err := s.store.ActiveSeason(ctx)
	if err == nil {
		return season, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return points.Season{}, fmt.Errorf("active season: %w", err)
	}

	season, err = s.store.GetSeason(ctx, s.fallbackID)
	if err == nil {
		logging.Info(logging.FromContext(ctx, s.logger), "no active season, using fallback",
			logging.FieldSeasonID, s.fallbackID,
		)
		return season, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return points.Season{}, fmt.Errorf("%w: no season is active and fallback season %q does not exist", scoring.ErrSeasonNotFound, s.fallbackID)
	}
	return points.Season{}, fmt.Errorf("fallback season: %w", err)
}

// List returns every season ordered by id.
func (s *Service) List(ctx context.Context) ([]points.Season, error) {
	seasons, err := s.store.ListSeasons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}
	return seasons, nil
}

// Get is Resolve under the name handlers use for a single season lookup.
func (s *Service) Get(ctx context.Context, id string) (points.Season, error) {
	return s.Resolve(ctx, id)
}

// Save validates and upserts a season. Saving an active season deactivates the others.
func (s *Service) Save(ctx context.Context, season points.Season) (points.Season, error) {
	season.ID = strings.TrimSpace(season.ID)
	if err := validate(season); err != nil {
		return points.Season{}, err
	}
	// Only ActivateSeason sets the flag, so a failed activation leaves the
	// previous active season in place.
	stored := season
	stored.IsActive = false
	if err := s.store.SaveSeason(ctx, stored); err != nil {
		return points.Season{}, fmt.Errorf("save season: %w", err)
	}
	if season.IsActive {
		if err := s.store.ActivateSeason(ctx, season.ID); err != nil {
			return points.Season{}, fmt.Errorf("activate season: %w", err)
		}
	}
	logging.Info(logging.FromContext(ctx, s.logger), "season saved",
		logging.FieldSeasonID, season.ID,
		"active", season.IsActive,
	)
	return season, nil
}

// Activate flags id as the single active season.
func (s *Service) Activate(ctx context.Context, id string) (points.Season, error) {
	id = strings.TrimSpace(id)
	if err := s.store.ActivateSeason(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return points.Season{}, fmt.Errorf("%w: season %q does not exist", scoring.ErrSeasonNotFound, id)
		}
		return points.Season{}, fmt.Errorf("activate season: %w", err)
	}
	logging.Info(logging.FromContext(ctx, s.logger), "season activated", logging.FieldSeasonID, id)
	return s.get(ctx, id)
}

func (s *Service) get(ctx context.Context, id string) (points.Season, error) {
	season, err := s.store.GetSeason(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return points.Season{}, fmt.Errorf("%w: season %q does not exist", scoring.ErrSeasonNotFound, id)
		}
		return points.Season{}, fmt.Errorf("get season: %w", err)
	}
	return season, nil
}

func validate(season points.Season) error {
	if season.ID == "" {
		return fmt.Errorf("%w: id is required", ErrInvalidSeason)
	}
	if strings.EqualFold(season.ID, ActiveAlias) {
		return fmt.Errorf("%w: id %q is reserved", ErrInvalidSeason, ActiveAlias)
	}
	if season.MatchWeight != nil && *season.MatchWeight < 0 {
		return fmt.Errorf("%w: matchWeight must not be negative", ErrInvalidSeason)
	}
	if season.ActivityWeight != nil && *season.ActivityWeight < 0 {
		return fmt.Errorf("%w: activityWeight must not be negative", ErrInvalidSeason)
	}
	return nil
}
