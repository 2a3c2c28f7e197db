package testutil

import (
	"context"
	"testing"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/store"
)

// OpenTestStore opens an in-memory sqlite store that is closed when the test ends.
func OpenTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	s, err := store.NewSQLiteStore(store.MemoryDSN)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s
}

// SeedStore writes a season and its records, failing the test on the first error.
func SeedStore(t *testing.T, s store.Store, season points.Season, matches []points.MatchRecord, activities []points.ActivityRecord) {
	t.Helper()
	ctx := context.Background()
	if err := s.SaveSeason(ctx, season); err != nil {
		t.Fatalf("seed season: %v", err)
	}
	for _, m := range matches {
		if err := s.SaveMatch(ctx, m); err != nil {
			t.Fatalf("seed match %s: %v", m.ID, err)
		}
	}
	for _, a := range activities {
		if err := s.SaveActivity(ctx, a); err != nil {
			t.Fatalf("seed activity %s: %v", a.ID, err)
		}
	}
}

// StubPinger reports Err from Ping and counts calls.
type StubPinger struct {
	Err   error
	Calls int
}

func (p *StubPinger) Ping(context.Context) error {
	p.Calls++
	return p.Err
}
