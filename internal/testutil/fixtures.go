package testutil

import (
	"time"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/scoring"
)

// FixtureTime is the creation time stamped on every fixture record.
var FixtureTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// SampleSeason returns a season with a small rule table and default weights.
func SampleSeason(id string, active bool) points.Season {
	return points.Season{
		ID:           id,
		Title:        id + " season",
		IsActive:     active,
		RulesVersion: "v1",
		PointRules: points.PointRules{
			Match: map[string]map[string]float64{
				scoring.CompetitionInternational: {scoring.RankWinner: 10, scoring.RankRunnerUp: 7},
				scoring.CompetitionDomestic:      {scoring.RankWinner: 3, scoring.RankRunnerUp: 2, scoring.RankThird: 1},
			},
			Activity: map[string]float64{"정기모임": 1, "내부리그 운영": 2},
		},
	}
}

// SampleMatch returns a confirmed domestic open-division win worth 3 points under SampleSeason.
func SampleMatch(id, seasonID, player string) points.MatchRecord {
	return points.MatchRecord{
		ID:              id,
		SeasonID:        seasonID,
		PlayerUID:       "uid-" + player,
		PlayerName:      player,
		CompetitionName: "Spring Open",
		Type:            scoring.CompetitionDomestic,
		LeagueType:      "오픈부",
		Rank:            "우승",
		OtherClubMember: "아니오",
		Points:          points.Float(3),
		RuleVersion:     "v1",
		Status:          points.StatusConfirmed,
		CreatedAt:       FixtureTime,
		UpdatedAt:       FixtureTime,
	}
}

// SampleActivity returns a confirmed regular-meeting record worth 1 point under SampleSeason.
func SampleActivity(id, seasonID, player string) points.ActivityRecord {
	return points.ActivityRecord{
		ID:           id,
		SeasonID:     seasonID,
		PlayerUID:    "uid-" + player,
		PlayerName:   player,
		ActivityType: "정기모임",
		Points:       points.Float(1),
		RuleVersion:  "v1",
		Status:       points.StatusConfirmed,
		CreatedAt:    FixtureTime,
		UpdatedAt:    FixtureTime,
	}
}
