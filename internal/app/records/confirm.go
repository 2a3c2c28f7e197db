package records

import (
	"context"
	"fmt"
	"strings"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
)

// Kind names a record collection in routes.
type Kind string

const (
	KindMatch    Kind = "matches"
	KindActivity Kind = "activities"
)

// ParseKind accepts the plural route names and their singular forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "matches", "match":
		return KindMatch, nil
	case "activities", "activity":
		return KindActivity, nil
	default:
		return "", invalid(fmt.Sprintf("unknown record kind %q", s))
	}
}

// Confirm marks a record as confirmed and returns the updated record.
func (s *Service) Confirm(ctx context.Context, seasonID string, kind Kind, id string) (any, error) {
	switch kind {
	case KindMatch:
		return s.ConfirmMatch(ctx, seasonID, id)
	case KindActivity:
		return s.ConfirmActivity(ctx, seasonID, id)
	default:
		return nil, invalid(fmt.Sprintf("unknown record kind %q", kind))
	}
}

// ConfirmMatch flips a match record to confirmed. Points stay as frozen at submission.
func (s *Service) ConfirmMatch(ctx context.Context, seasonID, id string) (points.MatchRecord, error) {
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return points.MatchRecord{}, err
	}
	rec, err := s.store.GetMatch(ctx, season.ID, id)
	if err != nil {
		return points.MatchRecord{}, fmt.Errorf("get match: %w", err)
	}
	if rec.Status == points.StatusConfirmed {
		return rec, nil
	}
	rec.Status = points.StatusConfirmed
	rec.UpdatedAt = s.now().UTC()
	if err := s.store.SaveMatch(ctx, rec); err != nil {
		return points.MatchRecord{}, fmt.Errorf("save match: %w", err)
	}
	s.logRecord(ctx, "match confirmed", rec.SeasonID, rec.ID)
	return rec, nil
}

// ConfirmActivity flips an activity record to confirmed.
func (s *Service) ConfirmActivity(ctx context.Context, seasonID, id string) (points.ActivityRecord, error) {
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return points.ActivityRecord{}, err
	}
	rec, err := s.store.GetActivity(ctx, season.ID, id)
	if err != nil {
		return points.ActivityRecord{}, fmt.Errorf("get activity: %w", err)
	}
	if rec.Status == points.StatusConfirmed {
		return rec, nil
	}
	rec.Status = points.StatusConfirmed
	rec.UpdatedAt = s.now().UTC()
	if err := s.store.SaveActivity(ctx, rec); err != nil {
		return points.ActivityRecord{}, fmt.Errorf("save activity: %w", err)
	}
	s.logRecord(ctx, "activity confirmed", rec.SeasonID, rec.ID)
	return rec, nil
}
