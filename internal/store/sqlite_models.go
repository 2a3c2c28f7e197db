package store

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
)

type seasonModel struct {
	ID             string `gorm:"primaryKey"`
	Title          string
	IsActive       bool `gorm:"index"`
	MatchWeight    optionalNumber
	ActivityWeight optionalNumber
	PointRules     points.PointRules `gorm:"serializer:json;type:text"`
	RulesVersion   string
}

func (seasonModel) TableName() string { return "seasons" }

type matchModel struct {
	ID              string `gorm:"primaryKey"`
	SeasonID        string `gorm:"index:idx_matches_season_status"`
	PlayerUID       string `gorm:"index"`
	PlayerName      string
	CompetitionName string
	Type            string
	LeagueType      string
	Rank            string
	OtherClubMember string
	Points          optionalNumber
	RuleVersion     string
	Status          string `gorm:"index:idx_matches_season_status"`
	EventDate       string
	CreatedByUID    string
	CreatedAt       time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime:false"`
}

func (matchModel) TableName() string { return "match_records" }

type activityModel struct {
	ID           string `gorm:"primaryKey"`
	SeasonID     string `gorm:"index:idx_activities_season_status"`
	PlayerUID    string `gorm:"index"`
	PlayerName   string
	ActivityType string
	Points       optionalNumber
	RuleVersion  string
	Status       string `gorm:"index:idx_activities_season_status"`
	EventDate    string
	CreatedByUID string
	CreatedAt    time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime:false"`
}

func (activityModel) TableName() string { return "activity_records" }

type adjustmentModel struct {
	ID           string `gorm:"primaryKey"`
	SeasonID     string `gorm:"index"`
	PlayerUID    string
	PlayerName   string
	ApplyTo      string
	Type         string
	Points       lenientNumber
	Note         string
	DateLabel    string
	CreatedByUID string
	CreatedAt    time.Time `gorm:"autoCreateTime:false"`
}

func (adjustmentModel) TableName() string { return "adjustments" }

func seasonToModel(s points.Season) seasonModel {
	return seasonModel{
		ID:             s.ID,
		Title:          s.Title,
		IsActive:       s.IsActive,
		MatchWeight:    optionalFrom(s.MatchWeight),
		ActivityWeight: optionalFrom(s.ActivityWeight),
		PointRules:     s.PointRules,
		RulesVersion:   s.RulesVersion,
	}
}

func (m seasonModel) toDomain() points.Season {
	return points.Season{
		ID:             m.ID,
		Title:          m.Title,
		IsActive:       m.IsActive,
		MatchWeight:    m.MatchWeight.ptr(),
		ActivityWeight: m.ActivityWeight.ptr(),
		PointRules:     m.PointRules,
		RulesVersion:   m.RulesVersion,
	}
}

func matchToModel(r points.MatchRecord) matchModel {
	return matchModel{
		ID:              r.ID,
		SeasonID:        r.SeasonID,
		PlayerUID:       r.PlayerUID,
		PlayerName:      r.PlayerName,
		CompetitionName: r.CompetitionName,
		Type:            r.Type,
		LeagueType:      r.LeagueType,
		Rank:            r.Rank,
		OtherClubMember: r.OtherClubMember,
		Points:          optionalFrom(r.Points),
		RuleVersion:     r.RuleVersion,
		Status:          string(r.Status),
		EventDate:       r.EventDate,
		CreatedByUID:    r.CreatedByUID,
		CreatedAt:       r.CreatedAt.UTC(),
		UpdatedAt:       r.UpdatedAt.UTC(),
	}
}

func (m matchModel) toDomain() points.MatchRecord {
	return points.MatchRecord{
		ID:              m.ID,
		SeasonID:        m.SeasonID,
		PlayerUID:       m.PlayerUID,
		PlayerName:      m.PlayerName,
		CompetitionName: m.CompetitionName,
		Type:            m.Type,
		LeagueType:      m.LeagueType,
		Rank:            m.Rank,
		OtherClubMember: m.OtherClubMember,
		Points:          m.Points.ptr(),
		RuleVersion:     m.RuleVersion,
		Status:          points.RecordStatus(m.Status),
		EventDate:       m.EventDate,
		CreatedByUID:    m.CreatedByUID,
		CreatedAt:       m.CreatedAt.UTC(),
		UpdatedAt:       m.UpdatedAt.UTC(),
	}
}

func activityToModel(r points.ActivityRecord) activityModel {
	return activityModel{
		ID:           r.ID,
		SeasonID:     r.SeasonID,
		PlayerUID:    r.PlayerUID,
		PlayerName:   r.PlayerName,
		ActivityType: r.ActivityType,
		Points:       optionalFrom(r.Points),
		RuleVersion:  r.RuleVersion,
		Status:       string(r.Status),
		EventDate:    r.EventDate,
		CreatedByUID: r.CreatedByUID,
		CreatedAt:    r.CreatedAt.UTC(),
		UpdatedAt:    r.UpdatedAt.UTC(),
	}
}

func (m activityModel) toDomain() points.ActivityRecord {
	return points.ActivityRecord{
		ID:           m.ID,
		SeasonID:     m.SeasonID,
		PlayerUID:    m.PlayerUID,
		PlayerName:   m.PlayerName,
		ActivityType: m.ActivityType,
		Points:       m.Points.ptr(),
		RuleVersion:  m.RuleVersion,
		Status:       points.RecordStatus(m.Status),
		EventDate:    m.EventDate,
		CreatedByUID: m.CreatedByUID,
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func adjustmentToModel(a points.Adjustment) adjustmentModel {
	return adjustmentModel{
		ID:           a.ID,
		SeasonID:     a.SeasonID,
		PlayerUID:    a.PlayerUID,
		PlayerName:   a.PlayerName,
		ApplyTo:      a.ApplyTo,
		Type:         a.Type,
		Points:       lenientNumber(a.Points),
		Note:         a.Note,
		DateLabel:    a.DateLabel,
		CreatedByUID: a.CreatedByUID,
		CreatedAt:    a.CreatedAt.UTC(),
	}
}

func (m adjustmentModel) toDomain() points.Adjustment {
	return points.Adjustment{
		ID:           m.ID,
		SeasonID:     m.SeasonID,
		PlayerUID:    m.PlayerUID,
		PlayerName:   m.PlayerName,
		ApplyTo:      m.ApplyTo,
		Type:         m.Type,
		Points:       float64(m.Points),
		Note:         m.Note,
		DateLabel:    m.DateLabel,
		CreatedByUID: m.CreatedByUID,
		CreatedAt:    m.CreatedAt.UTC(),
	}
}

// lenientNumber is a REAL column that reads legacy text through points.ParseNumber,
// so a malformed value loads as 0 instead of failing the query.
type lenientNumber float64

func (lenientNumber) GormDataType() string { return "real" }

func (n *lenientNumber) Scan(src any) error {
	if b, ok := src.([]byte); ok {
		src = string(b)
	}
	*n = lenientNumber(points.ParseNumber(src))
	return nil
}

func (n lenientNumber) Value() (driver.Value, error) {
	return float64(n), nil
}

// optionalNumber is a nullable REAL column. Text that does not parse reads as NULL.
type optionalNumber struct {
	Float float64
	Valid bool
}

func optionalFrom(v *float64) optionalNumber {
	if v == nil {
		return optionalNumber{}
	}
	return optionalNumber{Float: *v, Valid: true}
}

func (n optionalNumber) ptr() *float64 {
	if !n.Valid {
		return nil
	}
	return points.Float(n.Float)
}

func (optionalNumber) GormDataType() string { return "real" }

func (n *optionalNumber) Scan(src any) error {
	*n = optionalNumber{}
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return n.scanText(string(v))
	case string:
		return n.scanText(v)
	case float64, int64:
		n.Float, n.Valid = points.ParseNumber(v), true
		return nil
	default:
		return fmt.Errorf("scan number: unsupported type %T", src)
	}
}

func (n *optionalNumber) scanText(s string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	n.Float, n.Valid = f, true
	return nil
}

func (n optionalNumber) Value() (driver.Value, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Float, nil
}
