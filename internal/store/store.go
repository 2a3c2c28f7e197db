package store

import (
	"context"
	"errors"
	"slices"
	"strings"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
)

// ErrNotFound is returned when a season or record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDecode marks a stored document that could not be decoded. Retrying will not help.
var ErrDecode = errors.New("undecodable document")

// Backend names accepted by the server's store factory.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
)

// RecordFilter narrows record listings. Zero values match everything.
type RecordFilter struct {
	Status    points.RecordStatus
	PlayerUID string
	// Limit caps the result after newest-first ordering. Zero means no limit.
	Limit int
}

// Store is the persistence contract shared by every backend.
// Listings are ordered newest first by creation time.
type Store interface {
	Ping(ctx context.Context) error
	Close(ctx context.Context) error

	ListSeasons(ctx context.Context) ([]points.Season, error)
	GetSeason(ctx context.Context, id string) (points.Season, error)
	// ActiveSeason returns the season flagged active, or ErrNotFound.
	ActiveSeason(ctx context.Context) (points.Season, error)
	SaveSeason(ctx context.Context, season points.Season) error
	// ActivateSeason flags id active and clears the flag on every other season.
	ActivateSeason(ctx context.Context, id string) error

	ListMatches(ctx context.Context, seasonID string, filter RecordFilter) ([]points.MatchRecord, error)
	GetMatch(ctx context.Context, seasonID, id string) (points.MatchRecord, error)
	SaveMatch(ctx context.Context, rec points.MatchRecord) error
	DeleteMatch(ctx context.Context, seasonID, id string) error

	ListActivities(ctx context.Context, seasonID string, filter RecordFilter) ([]points.ActivityRecord, error)
	GetActivity(ctx context.Context, seasonID, id string) (points.ActivityRecord, error)
	SaveActivity(ctx context.Context, rec points.ActivityRecord) error
	DeleteActivity(ctx context.Context, seasonID, id string) error

	ListAdjustments(ctx context.Context, seasonID string) ([]points.Adjustment, error)
	AddAdjustment(ctx context.Context, adj points.Adjustment) error
}

func sortSeasons(seasons []points.Season) {
	slices.SortFunc(seasons, func(a, b points.Season) int {
		return strings.Compare(a.ID, b.ID)
	})
}

func sortMatches(recs []points.MatchRecord) {
	slices.SortStableFunc(recs, func(a, b points.MatchRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func sortActivities(recs []points.ActivityRecord) {
	slices.SortStableFunc(recs, func(a, b points.ActivityRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func sortAdjustments(adjs []points.Adjustment) {
	slices.SortStableFunc(adjs, func(a, b points.Adjustment) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

func (f RecordFilter) matches(status points.RecordStatus, playerUID string) bool {
	if f.Status != "" && f.Status != status {
		return false
	}
	if f.PlayerUID != "" && f.PlayerUID != playerUID {
		return false
	}
	return true
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}
