package records

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/logging"
	"github.com/preston-bernstein/club-rank-service/internal/scoring"
	"github.com/preston-bernstein/club-rank-service/internal/store"
	"github.com/preston-bernstein/club-rank-service/internal/timeutil"
)

// ErrInvalidInput wraps every validation failure; the message names the field.
var ErrInvalidInput = errors.New("invalid input")

const (
	DefaultRecentLimit = 5
	MaxRecentLimit     = 50
)

// Store defines the record persistence the service needs.
type Store interface {
	ListMatches(ctx context.Context, seasonID string, filter store.RecordFilter) ([]points.MatchRecord, error)
	GetMatch(ctx context.Context, seasonID, id string) (points.MatchRecord, error)
	SaveMatch(ctx context.Context, rec points.MatchRecord) error
	DeleteMatch(ctx context.Context, seasonID, id string) error

	ListActivities(ctx context.Context, seasonID string, filter store.RecordFilter) ([]points.ActivityRecord, error)
	GetActivity(ctx context.Context, seasonID, id string) (points.ActivityRecord, error)
	SaveActivity(ctx context.Context, rec points.ActivityRecord) error
	DeleteActivity(ctx context.Context, seasonID, id string) error

	AddAdjustment(ctx context.Context, adj points.Adjustment) error
}

// SeasonResolver resolves a season id (or "active") to a season.
type SeasonResolver interface {
	Resolve(ctx context.Context, id string) (points.Season, error)
}

// Service is the write path for match, activity and adjustment records.
type Service struct {
	seasons SeasonResolver
	store   Store
	logger  *slog.Logger
	now     func() time.Time
	newID   func() string
}

// NewService constructs a Service.
func NewService(seasons SeasonResolver, store Store, logger *slog.Logger) *Service {
	return &Service{
		seasons: seasons,
		store:   store,
		logger:  logger,
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// MatchInput carries the editable fields of a match result.
type MatchInput struct {
	PlayerUID       string `json:"playerUid"`
	PlayerName      string `json:"playerName"`
	CompetitionName string `json:"competitionName"`
	Type            string `json:"type"`
	LeagueType      string `json:"leagueType"`
	Rank            string `json:"rank"`
	OtherClubMember string `json:"otherClubMember"`
	EventDate       string `json:"eventDate"`
	CreatedByUID    string `json:"createdByUid"`
}

// ActivityInput carries the editable fields of an activity record.
type ActivityInput struct {
	PlayerUID    string `json:"playerUid"`
	PlayerName   string `json:"playerName"`
	ActivityType string `json:"activityType"`
	EventDate    string `json:"eventDate"`
	CreatedByUID string `json:"createdByUid"`
}

// AdjustmentInput carries a manual bonus or penalty. Points may be a number or a numeric string.
type AdjustmentInput struct {
	PlayerUID    string `json:"playerUid"`
	PlayerName   string `json:"playerName"`
	ApplyTo      string `json:"applyTo"`
	Type         string `json:"type"`
	Points       any    `json:"points"`
	Note         string `json:"note"`
	DateLabel    string `json:"dateLabel"`
	CreatedByUID string `json:"createdByUid"`
}

// PlayerRecords lists a player's most recent records.
type PlayerRecords struct {
	SeasonID   string                  `json:"seasonId"`
	PlayerUID  string                  `json:"playerUid"`
	Matches    []points.MatchRecord    `json:"matches"`
	Activities []points.ActivityRecord `json:"activities"`
}

// SubmitMatch validates the input, freezes its points under the season's rules and stores it as pending.
func (s *Service) SubmitMatch(ctx context.Context, seasonID string, in MatchInput) (points.MatchRecord, error) {
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return points.MatchRecord{}, err
	}
	in, err = cleanMatch(in)
	if err != nil {
		return points.MatchRecord{}, err
	}

	now := s.now().UTC()
	rec := points.MatchRecord{
		ID:           s.newID(),
		SeasonID:     season.ID,
		Status:       points.StatusPending,
		CreatedByUID: in.CreatedByUID,
		CreatedAt:    now,
	}
	applyMatch(&rec, in, season, now)

	if err := s.store.SaveMatch(ctx, rec); err != nil {
		return points.MatchRecord{}, fmt.Errorf("save match: %w", err)
	}
	s.logRecord(ctx, "match submitted", rec.SeasonID, rec.ID)
	return rec, nil
}

// UpdateMatch replaces the editable fields, recomputes points and re-stamps the rule version.
// Status and creation metadata are kept.
func (s *Service) UpdateMatch(ctx context.Context, seasonID, id string, in MatchInput) (points.MatchRecord, error) {
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return points.MatchRecord{}, err
	}
	in, err = cleanMatch(in)
	if err != nil {
		return points.MatchRecord{}, err
	}
	rec, err := s.store.GetMatch(ctx, season.ID, id)
	if err != nil {
		return points.MatchRecord{}, fmt.Errorf("get match: %w", err)
	}

	applyMatch(&rec, in, season, s.now().UTC())
	if err := s.store.SaveMatch(ctx, rec); err != nil {
		return points.MatchRecord{}, fmt.Errorf("save match: %w", err)
	}
	s.logRecord(ctx, "match updated", rec.SeasonID, rec.ID)
	return rec, nil
}

// DeleteMatch removes a match record.
func (s *Service) DeleteMatch(ctx context.Context, seasonID, id string) error {
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteMatch(ctx, season.ID, id); err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	s.logRecord(ctx, "match deleted", season.ID, id)
	return nil
}

// SubmitActivity validates the input, freezes its points and stores it as pending.
func (s *Service) SubmitActivity(ctx context.Context, seasonID string, in ActivityInput) (points.ActivityRecord, error) {
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return points.ActivityRecord{}, err
	}
	in, err = cleanActivity(in)
	if err != nil {
		return points.ActivityRecord{}, err
	}

	now := s.now().UTC()
	rec := points.ActivityRecord{
		ID:           s.newID(),
		SeasonID:     season.ID,
		Status:       points.StatusPending,
		CreatedByUID: in.CreatedByUID,
		CreatedAt:    now,
	}
	applyActivity(&rec, in, season, now)

	if err := s.store.SaveActivity(ctx, rec); err != nil {
		return points.ActivityRecord{}, fmt.Errorf("save activity: %w", err)
	}
	s.logRecord(ctx, "activity submitted", rec.SeasonID, rec.ID)
	return rec, nil
}

// UpdateActivity replaces the editable fields and recomputes points.
func (s *Service) UpdateActivity(ctx context.Context, seasonID, id string, in ActivityInput) (points.ActivityRecord, error) {
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return points.ActivityRecord{}, err
	}
	in, err = cleanActivity(in)
	if err != nil {
		return points.ActivityRecord{}, err
	}
	rec, err := s.store.GetActivity(ctx, season.ID, id)
	if err != nil {
		return points.ActivityRecord{}, fmt.Errorf("get activity: %w", err)
	}

	applyActivity(&rec, in, season, s.now().UTC())
	if err := s.store.SaveActivity(ctx, rec); err != nil {
		return points.ActivityRecord{}, fmt.Errorf("save activity: %w", err)
	}
	s.logRecord(ctx, "activity updated", rec.SeasonID, rec.ID)
	return rec, nil
}

// DeleteActivity removes an activity record.
func (s *Service) DeleteActivity(ctx context.Context, seasonID, id string) error {
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return err
	}
	if err := s.store.DeleteActivity(ctx, season.ID, id); err != nil {
		return fmt.Errorf("delete activity: %w", err)
	}
	s.logRecord(ctx, "activity deleted", season.ID, id)
	return nil
}

// AddAdjustment stores a manual bonus or penalty. The sign follows the class:
// penalties are always negative, bonuses always positive.
func (s *Service) AddAdjustment(ctx context.Context, seasonID string, in AdjustmentInput) (points.Adjustment, error) {
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return points.Adjustment{}, err
	}

	adj := points.Adjustment{
		ID:           s.newID(),
		SeasonID:     season.ID,
		PlayerUID:    strings.TrimSpace(in.PlayerUID),
		PlayerName:   strings.TrimSpace(in.PlayerName),
		ApplyTo:      strings.ToLower(strings.TrimSpace(in.ApplyTo)),
		Type:         strings.ToLower(strings.TrimSpace(in.Type)),
		Note:         strings.TrimSpace(in.Note),
		DateLabel:    strings.TrimSpace(in.DateLabel),
		CreatedByUID: strings.TrimSpace(in.CreatedByUID),
		CreatedAt:    s.now().UTC(),
	}
	if adj.PlayerName == "" {
		return points.Adjustment{}, invalid("playerName is required")
	}
	if adj.ApplyTo == "" {
		adj.ApplyTo = points.ApplyToTotal
	}
	switch adj.ApplyTo {
	case points.ApplyToMatch, points.ApplyToActivity, points.ApplyToTotal:
	default:
		return points.Adjustment{}, invalid("applyTo must be one of match, activity, total")
	}
	if adj.Type != points.AdjustmentBonus && adj.Type != points.AdjustmentPenalty {
		return points.Adjustment{}, invalid("type must be bonus or penalty")
	}
	magnitude, err := parseMagnitude(in.Points)
	if err != nil {
		return points.Adjustment{}, err
	}
	adj.Points = magnitude
	adj.Points = scoring.SignedAdjustmentPoints(adj)

	if err := s.store.AddAdjustment(ctx, adj); err != nil {
		return points.Adjustment{}, fmt.Errorf("add adjustment: %w", err)
	}
	s.logRecord(ctx, "adjustment added", adj.SeasonID, adj.ID)
	return adj, nil
}

// RecentForPlayer returns a player's newest matches and activities, limit of each.
func (s *Service) RecentForPlayer(ctx context.Context, seasonID, playerUID string, limit int) (PlayerRecords, error) {
	playerUID = strings.TrimSpace(playerUID)
	if playerUID == "" {
		return PlayerRecords{}, invalid("playerUid is required")
	}
	switch {
	case limit <= 0:
		limit = DefaultRecentLimit
	case limit > MaxRecentLimit:
		limit = MaxRecentLimit
	}
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return PlayerRecords{}, err
	}

	filter := store.RecordFilter{PlayerUID: playerUID, Limit: limit}
	matches, err := s.store.ListMatches(ctx, season.ID, filter)
	if err != nil {
		return PlayerRecords{}, fmt.Errorf("list matches: %w", err)
	}
	activities, err := s.store.ListActivities(ctx, season.ID, filter)
	if err != nil {
		return PlayerRecords{}, fmt.Errorf("list activities: %w", err)
	}
	return PlayerRecords{
		SeasonID:   season.ID,
		PlayerUID:  playerUID,
		Matches:    matches,
		Activities: activities,
	}, nil
}

func (s *Service) logRecord(ctx context.Context, msg, seasonID, id string) {
	logging.Info(logging.FromContext(ctx, s.logger), msg,
		logging.FieldSeasonID, seasonID,
		logging.FieldRecordID, id,
	)
}

func applyMatch(rec *points.MatchRecord, in MatchInput, season points.Season, now time.Time) {
	rec.PlayerUID = in.PlayerUID
	rec.PlayerName = in.PlayerName
	rec.CompetitionName = in.CompetitionName
	rec.Type = in.Type
	rec.LeagueType = in.LeagueType
	rec.Rank = in.Rank
	rec.OtherClubMember = in.OtherClubMember
	rec.EventDate = in.EventDate
	rec.Points = points.Float(scoring.MatchPoints(scoring.MatchInputFrom(*rec), season.PointRules))
	rec.RuleVersion = season.RulesVersion
	rec.UpdatedAt = now
}

func applyActivity(rec *points.ActivityRecord, in ActivityInput, season points.Season, now time.Time) {
	rec.PlayerUID = in.PlayerUID
	rec.PlayerName = in.PlayerName
	rec.ActivityType = in.ActivityType
	rec.EventDate = in.EventDate
	rec.Points = points.Float(scoring.ActivityPoints(in.ActivityType, season.PointRules))
	rec.RuleVersion = season.RulesVersion
	rec.UpdatedAt = now
}

func cleanMatch(in MatchInput) (MatchInput, error) {
	in.PlayerUID = strings.TrimSpace(in.PlayerUID)
	in.PlayerName = strings.TrimSpace(in.PlayerName)
	in.CompetitionName = strings.TrimSpace(in.CompetitionName)
	in.Type = strings.TrimSpace(in.Type)
	in.LeagueType = strings.TrimSpace(in.LeagueType)
	in.Rank = strings.TrimSpace(in.Rank)
	in.OtherClubMember = strings.TrimSpace(in.OtherClubMember)
	in.CreatedByUID = strings.TrimSpace(in.CreatedByUID)

	required := []struct{ field, value string }{
		{"playerName", in.PlayerName},
		{"competitionName", in.CompetitionName},
		{"type", in.Type},
		{"rank", in.Rank},
		{"otherClubMember", in.OtherClubMember},
	}
	for _, r := range required {
		if r.value == "" {
			return in, invalid(r.field + " is required")
		}
	}
	if scoring.NormalizeCompetitionType(in.Type) == scoring.CompetitionDomestic && in.LeagueType == "" {
		return in, invalid("leagueType is required for domestic competitions")
	}

	date, err := timeutil.NormalizeDateLabel(in.EventDate)
	if err != nil {
		return in, invalid("eventDate must be YYYY-MM-DD")
	}
	in.EventDate = date
	return in, nil
}

func cleanActivity(in ActivityInput) (ActivityInput, error) {
	in.PlayerUID = strings.TrimSpace(in.PlayerUID)
	in.PlayerName = strings.TrimSpace(in.PlayerName)
	in.ActivityType = strings.TrimSpace(in.ActivityType)
	in.CreatedByUID = strings.TrimSpace(in.CreatedByUID)

	if in.PlayerName == "" {
		return in, invalid("playerName is required")
	}
	if in.ActivityType == "" {
		return in, invalid("activityType is required")
	}
	date, err := timeutil.NormalizeDateLabel(in.EventDate)
	if err != nil {
		return in, invalid("eventDate must be YYYY-MM-DD")
	}
	in.EventDate = date
	return in, nil
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
