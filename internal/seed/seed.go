// Package seed loads seasons and records from YAML files into a store.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"go.yaml.in/yaml/v3"
)

// Writer is the subset of the store a seed needs.
type Writer interface {
	SaveSeason(ctx context.Context, season points.Season) error
	SaveMatch(ctx context.Context, rec points.MatchRecord) error
	SaveActivity(ctx context.Context, rec points.ActivityRecord) error
	AddAdjustment(ctx context.Context, adj points.Adjustment) error
}

// Data is a decoded seed file.
type Data struct {
	Seasons     []points.Season
	Matches     []points.MatchRecord
	Activities  []points.ActivityRecord
	Adjustments []points.Adjustment
}

type file struct {
	Seasons     []points.Season   `yaml:"seasons"`
	Matches     []matchEntry      `yaml:"matches"`
	Activities  []activityEntry   `yaml:"activities"`
	Adjustments []adjustmentEntry `yaml:"adjustments"`
}

// Numbers are decoded as `any` so hand-edited files with "3" or blanks still load.
type matchEntry struct {
	ID              string    `yaml:"id"`
	SeasonID        string    `yaml:"seasonId"`
	PlayerUID       string    `yaml:"playerUid"`
	PlayerName      string    `yaml:"playerName"`
	CompetitionName string    `yaml:"competitionName"`
	Type            string    `yaml:"type"`
	LeagueType      string    `yaml:"leagueType"`
	Rank            string    `yaml:"rank"`
	OtherClubMember string    `yaml:"otherClubMember"`
	Points          any       `yaml:"points"`
	RuleVersion     string    `yaml:"ruleVersion"`
	Status          string    `yaml:"status"`
	EventDate       string    `yaml:"eventDate"`
	CreatedByUID    string    `yaml:"createdByUid"`
	CreatedAt       time.Time `yaml:"createdAt"`
}

type activityEntry struct {
	ID           string    `yaml:"id"`
	SeasonID     string    `yaml:"seasonId"`
	PlayerUID    string    `yaml:"playerUid"`
	PlayerName   string    `yaml:"playerName"`
	ActivityType string    `yaml:"activityType"`
	Points       any       `yaml:"points"`
	RuleVersion  string    `yaml:"ruleVersion"`
	Status       string    `yaml:"status"`
	EventDate    string    `yaml:"eventDate"`
	CreatedByUID string    `yaml:"createdByUid"`
	CreatedAt    time.Time `yaml:"createdAt"`
}

type adjustmentEntry struct {
	ID           string    `yaml:"id"`
	SeasonID     string    `yaml:"seasonId"`
	PlayerUID    string    `yaml:"playerUid"`
	PlayerName   string    `yaml:"playerName"`
	ApplyTo      string    `yaml:"applyTo"`
	Type         string    `yaml:"type"`
	Points       any       `yaml:"points"`
	Note         string    `yaml:"note"`
	DateLabel    string    `yaml:"dateLabel"`
	CreatedByUID string    `yaml:"createdByUid"`
	CreatedAt    time.Time `yaml:"createdAt"`
}

// LoadFile reads and decodes the seed at path.
func LoadFile(path string) (*Data, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Decode(bytes.NewReader(raw))
}

// Decode parses a seed document. Records without a season id inherit the only
// season in the file when there is exactly one.
func Decode(r io.Reader) (*Data, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode seed: %w", err)
	}

	for i, s := range f.Seasons {
		if strings.TrimSpace(s.ID) == "" {
			return nil, fmt.Errorf("season %d: id is required", i)
		}
	}
	defaultSeason := ""
	if len(f.Seasons) == 1 {
		defaultSeason = f.Seasons[0].ID
	}

	data := &Data{Seasons: f.Seasons}
	for i, m := range f.Matches {
		seasonID := firstNonEmpty(m.SeasonID, defaultSeason)
		if seasonID == "" {
			return nil, fmt.Errorf("match %d: seasonId is required", i)
		}
		data.Matches = append(data.Matches, points.MatchRecord{
			ID:              idOrNew(m.ID),
			SeasonID:        seasonID,
			PlayerUID:       m.PlayerUID,
			PlayerName:      m.PlayerName,
			CompetitionName: m.CompetitionName,
			Type:            m.Type,
			LeagueType:      m.LeagueType,
			Rank:            m.Rank,
			OtherClubMember: m.OtherClubMember,
			Points:          optionalNumber(m.Points),
			RuleVersion:     m.RuleVersion,
			Status:          status(m.Status),
			EventDate:       m.EventDate,
			CreatedByUID:    m.CreatedByUID,
			CreatedAt:       m.CreatedAt,
			UpdatedAt:       m.CreatedAt,
		})
	}
	for i, a := range f.Activities {
		seasonID := firstNonEmpty(a.SeasonID, defaultSeason)
		if seasonID == "" {
			return nil, fmt.Errorf("activity %d: seasonId is required", i)
		}
		data.Activities = append(data.Activities, points.ActivityRecord{
			ID:           idOrNew(a.ID),
			SeasonID:     seasonID,
			PlayerUID:    a.PlayerUID,
			PlayerName:   a.PlayerName,
			ActivityType: a.ActivityType,
			Points:       optionalNumber(a.Points),
			RuleVersion:  a.RuleVersion,
			Status:       status(a.Status),
			EventDate:    a.EventDate,
			CreatedByUID: a.CreatedByUID,
			CreatedAt:    a.CreatedAt,
			UpdatedAt:    a.CreatedAt,
		})
	}
	for i, a := range f.Adjustments {
		seasonID := firstNonEmpty(a.SeasonID, defaultSeason)
		if seasonID == "" {
			return nil, fmt.Errorf("adjustment %d: seasonId is required", i)
		}
		data.Adjustments = append(data.Adjustments, points.Adjustment{
			ID:           idOrNew(a.ID),
			SeasonID:     seasonID,
			PlayerUID:    a.PlayerUID,
			PlayerName:   a.PlayerName,
			ApplyTo:      a.ApplyTo,
			Type:         a.Type,
			Points:       points.ParseNumber(a.Points),
			Note:         a.Note,
			DateLabel:    a.DateLabel,
			CreatedByUID: a.CreatedByUID,
			CreatedAt:    a.CreatedAt,
		})
	}
	return data, nil
}

// Apply writes every season and record in data to w.
func Apply(ctx context.Context, w Writer, data *Data) error {
	if data == nil {
		return nil
	}
	for _, s := range data.Seasons {
		if err := w.SaveSeason(ctx, s); err != nil {
			return fmt.Errorf("seed season %s: %w", s.ID, err)
		}
	}
	for _, m := range data.Matches {
		if err := w.SaveMatch(ctx, m); err != nil {
			return fmt.Errorf("seed match %s: %w", m.ID, err)
		}
	}
	for _, a := range data.Activities {
		if err := w.SaveActivity(ctx, a); err != nil {
			return fmt.Errorf("seed activity %s: %w", a.ID, err)
		}
	}
	for _, a := range data.Adjustments {
		if err := w.AddAdjustment(ctx, a); err != nil {
			return fmt.Errorf("seed adjustment %s: %w", a.ID, err)
		}
	}
	return nil
}

func optionalNumber(v any) *float64 {
	if v == nil {
		return nil
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return nil
	}
	return points.Float(points.ParseNumber(v))
}

func status(s string) points.RecordStatus {
	if strings.EqualFold(strings.TrimSpace(s), string(points.StatusConfirmed)) {
		return points.StatusConfirmed
	}
	return points.StatusPending
}

func idOrNew(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
