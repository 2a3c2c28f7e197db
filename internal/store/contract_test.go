package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
)

var baseTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func testSeason(id string, active bool) points.Season {
	return points.Season{
		ID:          id,
		Title:       id + " Season",
		IsActive:    active,
		MatchWeight: points.Float(0.6),
		PointRules: points.PointRules{
			Match:                  map[string]map[string]float64{"국내대회": {"winner": 3}},
			Activity:               map[string]float64{"정기모임": 1},
			OtherClubMemberPenalty: points.Float(0.5),
		},
		RulesVersion: "v1",
	}
}

func testMatch(id, seasonID, uid string, status points.RecordStatus, offset time.Duration) points.MatchRecord {
	return points.MatchRecord{
		ID:              id,
		SeasonID:        seasonID,
		PlayerUID:       uid,
		PlayerName:      "Player " + uid,
		CompetitionName: "Spring Open",
		Type:            "국내대회",
		LeagueType:      "open",
		Rank:            "winner",
		OtherClubMember: "아니오",
		Points:          points.Float(3),
		RuleVersion:     "v1",
		Status:          status,
		EventDate:       "2025-03-01",
		CreatedAt:       baseTime.Add(offset),
		UpdatedAt:       baseTime.Add(offset),
	}
}

func testActivity(id, seasonID, uid string, status points.RecordStatus, offset time.Duration) points.ActivityRecord {
	return points.ActivityRecord{
		ID:           id,
		SeasonID:     seasonID,
		PlayerUID:    uid,
		PlayerName:   "Player " + uid,
		ActivityType: "정기모임",
		Points:       points.Float(1),
		RuleVersion:  "v1",
		Status:       status,
		CreatedAt:    baseTime.Add(offset),
	}
}

// runStoreContract exercises behavior every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("seasons", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		if _, err := s.ActiveSeason(ctx); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound without seasons, got %v", err)
		}
		if _, err := s.GetSeason(ctx, "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}

		for _, season := range []points.Season{testSeason("2025", true), testSeason("2024", false)} {
			if err := s.SaveSeason(ctx, season); err != nil {
				t.Fatalf("save season: %v", err)
			}
		}

		seasons, err := s.ListSeasons(ctx)
		if err != nil {
			t.Fatalf("list seasons: %v", err)
		}
		if len(seasons) != 2 || seasons[0].ID != "2024" || seasons[1].ID != "2025" {
			t.Fatalf("expected seasons ordered by id, got %+v", seasons)
		}

		got, err := s.GetSeason(ctx, "2025")
		if err != nil {
			t.Fatalf("get season: %v", err)
		}
		if got.PointRules.Match["국내대회"]["winner"] != 3 || got.PointRules.Activity["정기모임"] != 1 {
			t.Fatalf("rules not round-tripped: %+v", got.PointRules)
		}
		if got.PointRules.OtherClubMemberPenalty == nil || *got.PointRules.OtherClubMemberPenalty != 0.5 {
			t.Fatalf("penalty not round-tripped: %+v", got.PointRules)
		}
		if got.MatchWeight == nil || *got.MatchWeight != 0.6 || got.ActivityWeight != nil {
			t.Fatalf("weights not round-tripped: %+v", got)
		}

		updated := testSeason("2025", true)
		updated.Title = "Renamed"
		if err := s.SaveSeason(ctx, updated); err != nil {
			t.Fatalf("upsert season: %v", err)
		}
		if got, _ := s.GetSeason(ctx, "2025"); got.Title != "Renamed" {
			t.Fatalf("expected upsert to replace title, got %q", got.Title)
		}

		active, err := s.ActiveSeason(ctx)
		if err != nil || active.ID != "2025" {
			t.Fatalf("expected 2025 active, got %+v (%v)", active, err)
		}

		if err := s.ActivateSeason(ctx, "2024"); err != nil {
			t.Fatalf("activate: %v", err)
		}
		active, err = s.ActiveSeason(ctx)
		if err != nil || active.ID != "2024" {
			t.Fatalf("expected 2024 active, got %+v (%v)", active, err)
		}
		if prev, _ := s.GetSeason(ctx, "2025"); prev.IsActive {
			t.Fatalf("expected previous season to be deactivated")
		}
		if err := s.ActivateSeason(ctx, "1999"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound activating unknown season, got %v", err)
		}
	})

	t.Run("matches", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		recs := []points.MatchRecord{
			testMatch("m1", "2025", "u1", points.StatusConfirmed, 0),
			testMatch("m2", "2025", "u1", points.StatusPending, time.Hour),
			testMatch("m3", "2025", "u2", points.StatusConfirmed, 2*time.Hour),
			testMatch("m4", "2024", "u1", points.StatusConfirmed, 3*time.Hour),
		}
		recs[1].Points = nil
		for _, rec := range recs {
			if err := s.SaveMatch(ctx, rec); err != nil {
				t.Fatalf("save match: %v", err)
			}
		}

		all, err := s.ListMatches(ctx, "2025", RecordFilter{})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 3 || all[0].ID != "m3" || all[2].ID != "m1" {
			t.Fatalf("expected newest first within season, got %+v", ids(all))
		}

		confirmed, _ := s.ListMatches(ctx, "2025", RecordFilter{Status: points.StatusConfirmed})
		if len(confirmed) != 2 {
			t.Fatalf("expected 2 confirmed, got %+v", ids(confirmed))
		}

		mine, _ := s.ListMatches(ctx, "2025", RecordFilter{PlayerUID: "u1", Limit: 1})
		if len(mine) != 1 || mine[0].ID != "m2" {
			t.Fatalf("expected newest u1 match, got %+v", ids(mine))
		}

		got, err := s.GetMatch(ctx, "2025", "m2")
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Points != nil {
			t.Fatalf("expected nil stored points to survive, got %v", *got.Points)
		}
		if !got.CreatedAt.Equal(baseTime.Add(time.Hour)) {
			t.Fatalf("expected created time preserved, got %s", got.CreatedAt)
		}
		if _, err := s.GetMatch(ctx, "2024", "m2"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected season-scoped lookup to miss, got %v", err)
		}

		got.Status = points.StatusConfirmed
		got.Points = points.Float(0)
		if err := s.SaveMatch(ctx, got); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, _ = s.GetMatch(ctx, "2025", "m2")
		if got.Status != points.StatusConfirmed || got.Points == nil || *got.Points != 0 {
			t.Fatalf("expected update to persist, got %+v", got)
		}

		if err := s.DeleteMatch(ctx, "2025", "m2"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if err := s.DeleteMatch(ctx, "2025", "m2"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("activities", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, rec := range []points.ActivityRecord{
			testActivity("a1", "2025", "u1", points.StatusPending, 0),
			testActivity("a2", "2025", "u2", points.StatusConfirmed, time.Minute),
		} {
			if err := s.SaveActivity(ctx, rec); err != nil {
				t.Fatalf("save activity: %v", err)
			}
		}

		pending, err := s.ListActivities(ctx, "2025", RecordFilter{Status: points.StatusPending})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(pending) != 1 || pending[0].ID != "a1" {
			t.Fatalf("unexpected pending activities %+v", pending)
		}
		if empty, _ := s.ListActivities(ctx, "2030", RecordFilter{}); len(empty) != 0 {
			t.Fatalf("expected no activities for other season")
		}

		got, err := s.GetActivity(ctx, "2025", "a2")
		if err != nil || got.ActivityType != "정기모임" || got.Points == nil || *got.Points != 1 {
			t.Fatalf("unexpected activity %+v (%v)", got, err)
		}
		if err := s.DeleteActivity(ctx, "2025", "a2"); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := s.GetActivity(ctx, "2025", "a2"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
	})

	t.Run("adjustments", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		adjs := []points.Adjustment{
			{ID: "j1", SeasonID: "2025", PlayerName: "Kim", ApplyTo: "total", Type: "bonus", Points: 5, CreatedAt: baseTime},
			{ID: "j2", SeasonID: "2025", PlayerName: "Lee", ApplyTo: "match", Type: "penalty", Points: -3, Note: "late", CreatedAt: baseTime.Add(time.Hour)},
			{ID: "j3", SeasonID: "2024", PlayerName: "Kim", ApplyTo: "total", Type: "bonus", Points: 1, CreatedAt: baseTime},
		}
		for _, adj := range adjs {
			if err := s.AddAdjustment(ctx, adj); err != nil {
				t.Fatalf("add adjustment: %v", err)
			}
		}

		got, err := s.ListAdjustments(ctx, "2025")
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(got) != 2 || got[0].ID != "j2" || got[0].Points != -3 || got[0].Note != "late" {
			t.Fatalf("unexpected adjustments %+v", got)
		}
	})

	t.Run("ping and close", func(t *testing.T) {
		s := newStore(t)
		if err := s.Ping(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}

func ids(recs []points.MatchRecord) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}
