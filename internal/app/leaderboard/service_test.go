package leaderboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/metrics"
	"github.com/preston-bernstein/club-rank-service/internal/scoring"
	"github.com/preston-bernstein/club-rank-service/internal/store"
)

type stubResolver struct {
	season points.Season
	err    error
	asked  string
}

func (r *stubResolver) Resolve(_ context.Context, id string) (points.Season, error) {
	r.asked = id
	return r.season, r.err
}

type failingStore struct {
	*store.MemoryStore
	err error
}

func (f *failingStore) ListAdjustments(context.Context, string) ([]points.Adjustment, error) {
	return nil, f.err
}

func season() points.Season {
	return points.Season{
		ID:    "2025",
		Title: "2025 Season",
		PointRules: points.PointRules{
			Match:    map[string]map[string]float64{scoring.CompetitionDomestic: {scoring.RankWinner: 3, scoring.RankRunnerUp: 2}},
			Activity: map[string]float64{"정기모임": 1},
		},
	}
}

func seeded(t *testing.T) *store.MemoryStore {
	t.Helper()
	ctx := context.Background()
	s := store.NewMemoryStore()
	matches := []points.MatchRecord{
		{ID: "m1", SeasonID: "2025", PlayerUID: "u1", PlayerName: "Kim", Type: "국내대회", Rank: "우승", Status: points.StatusConfirmed},
		{ID: "m2", SeasonID: "2025", PlayerUID: "u2", PlayerName: "Lee", Type: "국내대회", Rank: "준우승", Status: points.StatusConfirmed},
		{ID: "m3", SeasonID: "2025", PlayerUID: "u2", PlayerName: "Lee", Type: "국내대회", Rank: "우승", Status: points.StatusPending},
		{ID: "m4", SeasonID: "2024", PlayerUID: "u1", PlayerName: "Kim", Type: "국내대회", Rank: "우승", Status: points.StatusConfirmed},
	}
	for _, m := range matches {
		if err := s.SaveMatch(ctx, m); err != nil {
			t.Fatalf("seed match: %v", err)
		}
	}
	activities := []points.ActivityRecord{
		{ID: "a1", SeasonID: "2025", PlayerUID: "u1", PlayerName: "Kim", ActivityType: "정기모임", Status: points.StatusPending},
		{ID: "a2", SeasonID: "2025", PlayerUID: "u3", PlayerName: "Park", ActivityType: "정기모임", Status: points.StatusPending},
	}
	for _, a := range activities {
		if err := s.SaveActivity(ctx, a); err != nil {
			t.Fatalf("seed activity: %v", err)
		}
	}
	adjustments := []points.Adjustment{
		{ID: "j1", SeasonID: "2025", PlayerName: "Kim", ApplyTo: "total", Type: "bonus", Points: 5, Note: "host"},
		{ID: "j2", SeasonID: "2025", PlayerName: "Kim", ApplyTo: "match", Type: "penalty", Points: 1},
	}
	for _, a := range adjustments {
		if err := s.AddAdjustment(ctx, a); err != nil {
			t.Fatalf("seed adjustment: %v", err)
		}
	}
	return s
}

func rowByName(rows []points.LeaderboardRow, name string) (points.LeaderboardRow, bool) {
	for _, r := range rows {
		if r.PlayerName == name {
			return r, true
		}
	}
	return points.LeaderboardRow{}, false
}

func TestBuildFiltersConfirmedAndFallsBackToAll(t *testing.T) {
	rec := metrics.NewRecorder()
	resolver := &stubResolver{season: season()}
	svc := NewService(resolver, seeded(t), rec, nil)

	resp, err := svc.Build(context.Background(), "active")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if resolver.asked != "active" {
		t.Fatalf("expected season id to be passed to resolver, got %q", resolver.asked)
	}
	if resp.SeasonID != "2025" || resp.MatchWeight != 0.5 || resp.ActivityWeight != 0.5 {
		t.Fatalf("unexpected response header %+v", resp)
	}

	lee, ok := rowByName(resp.Rows, "Lee")
	if !ok {
		t.Fatalf("expected Lee in rows")
	}
	// Pending m3 is excluded because confirmed matches exist.
	if lee.MatchesCount != 1 || lee.MatchPointsBase != 2 {
		t.Fatalf("expected only confirmed matches for Lee, got %+v", lee)
	}

	// No activity is confirmed, so every activity counts.
	park, ok := rowByName(resp.Rows, "Park")
	if !ok || park.ActivitiesCount != 1 {
		t.Fatalf("expected pending activities to count when none are confirmed, got %+v", resp.Rows)
	}

	kim, _ := rowByName(resp.Rows, "Kim")
	// 3*0.5 + 1*0.5 - 1 + 5
	if kim.TotalPoints != 6 || kim.Rank != 1 {
		t.Fatalf("unexpected Kim row %+v", kim)
	}
	if resp.TotalPlayers != 3 || resp.TotalMatches != 2 || resp.TotalActivities != 2 {
		t.Fatalf("unexpected summary %+v", resp)
	}

	snap := rec.LeaderboardSnapshot()
	if snap.Builds != 1 || snap.Errors != 0 || snap.LastRows != 3 {
		t.Fatalf("unexpected metrics %+v", snap)
	}
}

func TestBuildEmptySeasonReturnsEmptyRows(t *testing.T) {
	svc := NewService(&stubResolver{season: season()}, store.NewMemoryStore(), nil, nil)

	resp, err := svc.Build(context.Background(), "2025")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if resp.Rows == nil || len(resp.Rows) != 0 {
		t.Fatalf("expected empty non-nil rows, got %+v", resp.Rows)
	}
}

func TestBuildPropagatesSeasonError(t *testing.T) {
	rec := metrics.NewRecorder()
	resolver := &stubResolver{err: scoring.ErrSeasonNotFound}
	svc := NewService(resolver, seeded(t), rec, nil)

	if _, err := svc.Build(context.Background(), ""); !errors.Is(err, scoring.ErrSeasonNotFound) {
		t.Fatalf("expected ErrSeasonNotFound, got %v", err)
	}
	if snap := rec.LeaderboardSnapshot(); snap.Errors != 1 {
		t.Fatalf("expected failed build to be recorded, got %+v", snap)
	}
}

func TestBuildFailsWholeRequestOnFetchError(t *testing.T) {
	boom := errors.New("store down")
	fs := &failingStore{MemoryStore: seeded(t), err: boom}
	svc := NewService(&stubResolver{season: season()}, fs, nil, nil)

	resp, err := svc.Build(context.Background(), "2025")
	if !errors.Is(err, boom) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	if len(resp.Rows) != 0 {
		t.Fatalf("expected no partial rows, got %+v", resp.Rows)
	}
}

func TestBuildRecordsLatency(t *testing.T) {
	rec := metrics.NewRecorder()
	svc := NewService(&stubResolver{season: season()}, store.NewMemoryStore(), rec, nil)
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	calls := 0
	svc.now = func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * 5 * time.Millisecond)
	}

	if _, err := svc.Build(context.Background(), "2025"); err != nil {
		t.Fatalf("build: %v", err)
	}
	if got := rec.LeaderboardSnapshot().LastLatency; got != 5*time.Millisecond {
		t.Fatalf("expected 5ms latency, got %s", got)
	}
}

func TestPlayerReturnsRowAndSignedAdjustments(t *testing.T) {
	svc := NewService(&stubResolver{season: season()}, seeded(t), nil, nil)

	standing, err := svc.Player(context.Background(), "2025", " Kim ")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if standing.Row.PlayerUID != "u1" || standing.SeasonTitle != "2025 Season" {
		t.Fatalf("unexpected standing %+v", standing)
	}
	if len(standing.Adjustments) != 2 {
		t.Fatalf("expected 2 adjustments, got %+v", standing.Adjustments)
	}
	var sum float64
	for _, adj := range standing.Adjustments {
		sum += adj.Points
	}
	if sum != 4 {
		t.Fatalf("expected signed adjustments to sum to 4, got %v", sum)
	}
}

func TestPlayerWithoutAdjustmentsHasEmptyDetails(t *testing.T) {
	svc := NewService(&stubResolver{season: season()}, seeded(t), nil, nil)

	standing, err := svc.Player(context.Background(), "2025", "Park")
	if err != nil {
		t.Fatalf("player: %v", err)
	}
	if standing.Adjustments == nil || len(standing.Adjustments) != 0 {
		t.Fatalf("expected empty adjustments, got %+v", standing.Adjustments)
	}
}

func TestPlayerNotFound(t *testing.T) {
	svc := NewService(&stubResolver{season: season()}, seeded(t), nil, nil)

	if _, err := svc.Player(context.Background(), "2025", "Nobody"); !errors.Is(err, ErrPlayerNotFound) {
		t.Fatalf("expected ErrPlayerNotFound, got %v", err)
	}
}

func TestConfirmedOrAll(t *testing.T) {
	status := func(s points.RecordStatus) points.RecordStatus { return s }

	mixed := confirmedOrAll([]points.RecordStatus{points.StatusPending, points.StatusConfirmed}, status)
	if len(mixed) != 1 || mixed[0] != points.StatusConfirmed {
		t.Fatalf("expected only confirmed, got %+v", mixed)
	}
	pending := confirmedOrAll([]points.RecordStatus{points.StatusPending, points.StatusPending}, status)
	if len(pending) != 2 {
		t.Fatalf("expected fallback to all, got %+v", pending)
	}
	if empty := confirmedOrAll([]points.RecordStatus{}, status); len(empty) != 0 {
		t.Fatalf("expected empty, got %+v", empty)
	}
}
