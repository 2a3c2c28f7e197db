package store

import (
	"context"
	"sync"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
)

// MemoryStore keeps seasons and records in memory behind a RWMutex.
type MemoryStore struct {
	mu          sync.RWMutex
	seasons     map[string]points.Season
	matches     map[string]points.MatchRecord
	activities  map[string]points.ActivityRecord
	adjustments []points.Adjustment
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		seasons:    make(map[string]points.Season),
		matches:    make(map[string]points.MatchRecord),
		activities: make(map[string]points.ActivityRecord),
	}
}

func (s *MemoryStore) Ping(context.Context) error  { return nil }
func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) ListSeasons(context.Context) ([]points.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]points.Season, 0, len(s.seasons))
	for _, season := range s.seasons {
		result = append(result, cloneSeason(season))
	}
	sortSeasons(result)
	return result, nil
}

func (s *MemoryStore) GetSeason(_ context.Context, id string) (points.Season, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	season, ok := s.seasons[id]
	if !ok {
		return points.Season{}, ErrNotFound
	}
	return cloneSeason(season), nil
}

func (s *MemoryStore) ActiveSeason(ctx context.Context) (points.Season, error) {
	seasons, _ := s.ListSeasons(ctx)
	for _, season := range seasons {
		if season.IsActive {
			return season, nil
		}
	}
	return points.Season{}, ErrNotFound
}

func (s *MemoryStore) SaveSeason(_ context.Context, season points.Season) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seasons[season.ID] = cloneSeason(season)
	return nil
}

func (s *MemoryStore) ActivateSeason(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.seasons[id]; !ok {
		return ErrNotFound
	}
	for key, season := range s.seasons {
		season.IsActive = key == id
		s.seasons[key] = season
	}
	return nil
}

func (s *MemoryStore) ListMatches(_ context.Context, seasonID string, filter RecordFilter) ([]points.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]points.MatchRecord, 0)
	for _, rec := range s.matches {
		if rec.SeasonID == seasonID && filter.matches(rec.Status, rec.PlayerUID) {
			rec.Points = cloneNumber(rec.Points)
			result = append(result, rec)
		}
	}
	sortMatches(result)
	return limit(result, filter.Limit), nil
}

func (s *MemoryStore) GetMatch(_ context.Context, seasonID, id string) (points.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.matches[id]
	if !ok || rec.SeasonID != seasonID {
		return points.MatchRecord{}, ErrNotFound
	}
	rec.Points = cloneNumber(rec.Points)
	return rec, nil
}

func (s *MemoryStore) SaveMatch(_ context.Context, rec points.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Points = cloneNumber(rec.Points)
	s.matches[rec.ID] = rec
	return nil
}

func (s *MemoryStore) DeleteMatch(_ context.Context, seasonID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.matches[id]
	if !ok || rec.SeasonID != seasonID {
		return ErrNotFound
	}
	delete(s.matches, id)
	return nil
}

func (s *MemoryStore) ListActivities(_ context.Context, seasonID string, filter RecordFilter) ([]points.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]points.ActivityRecord, 0)
	for _, rec := range s.activities {
		if rec.SeasonID == seasonID && filter.matches(rec.Status, rec.PlayerUID) {
			rec.Points = cloneNumber(rec.Points)
			result = append(result, rec)
		}
	}
	sortActivities(result)
	return limit(result, filter.Limit), nil
}

func (s *MemoryStore) GetActivity(_ context.Context, seasonID, id string) (points.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.activities[id]
	if !ok || rec.SeasonID != seasonID {
		return points.ActivityRecord{}, ErrNotFound
	}
	rec.Points = cloneNumber(rec.Points)
	return rec, nil
}

func (s *MemoryStore) SaveActivity(_ context.Context, rec points.ActivityRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.Points = cloneNumber(rec.Points)
	s.activities[rec.ID] = rec
	return nil
}

func (s *MemoryStore) DeleteActivity(_ context.Context, seasonID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.activities[id]
	if !ok || rec.SeasonID != seasonID {
		return ErrNotFound
	}
	delete(s.activities, id)
	return nil
}

func (s *MemoryStore) ListAdjustments(_ context.Context, seasonID string) ([]points.Adjustment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]points.Adjustment, 0)
	for _, adj := range s.adjustments {
		if adj.SeasonID == seasonID {
			result = append(result, adj)
		}
	}
	sortAdjustments(result)
	return result, nil
}

func (s *MemoryStore) AddAdjustment(_ context.Context, adj points.Adjustment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.adjustments = append(s.adjustments, adj)
	return nil
}

// cloneSeason copies the rule maps and optional numbers so callers cannot mutate stored state.
func cloneSeason(season points.Season) points.Season {
	out := season
	out.MatchWeight = cloneNumber(season.MatchWeight)
	out.ActivityWeight = cloneNumber(season.ActivityWeight)
	out.PointRules.OtherClubMemberPenalty = cloneNumber(season.PointRules.OtherClubMemberPenalty)
	if season.PointRules.Match != nil {
		out.PointRules.Match = make(map[string]map[string]float64, len(season.PointRules.Match))
		for typeKey, byRank := range season.PointRules.Match {
			inner := make(map[string]float64, len(byRank))
			for rank, v := range byRank {
				inner[rank] = v
			}
			out.PointRules.Match[typeKey] = inner
		}
	}
	if season.PointRules.Activity != nil {
		out.PointRules.Activity = make(map[string]float64, len(season.PointRules.Activity))
		for k, v := range season.PointRules.Activity {
			out.PointRules.Activity[k] = v
		}
	}
	return out
}

func cloneNumber(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return points.Float(*v)
}

var _ Store = (*MemoryStore)(nil)
