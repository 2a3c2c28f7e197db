package records

import (
	"context"
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/preston-bernstein/club-rank-service/internal/scoring"
	"github.com/preston-bernstein/club-rank-service/internal/store"
)

func TestPreviewMatchNormalizesAndScores(t *testing.T) {
	svc, ms := newTestService(t)

	preview, err := svc.PreviewMatch(context.Background(), "2025", MatchInput{
		Type:            "domestic",
		LeagueType:      "2부",
		Rank:            "1위",
		OtherClubMember: "yes",
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Type != scoring.CompetitionDomestic || preview.LeagueType != scoring.LeagueDivision2 || preview.Rank != scoring.RankWinner || !preview.OtherClubMember {
		t.Fatalf("unexpected normalization %+v", preview)
	}
	// 3 * 0.3 * 0.3
	if preview.Points != 0.27 || preview.RuleVersion != "v2" {
		t.Fatalf("unexpected preview %+v", preview)
	}

	if matches, _ := ms.ListMatches(context.Background(), "2025", store.RecordFilter{}); len(matches) != 0 {
		t.Fatalf("expected preview not to persist")
	}
	if _, err := svc.PreviewMatch(context.Background(), "2025", MatchInput{Type: "국내대회"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput without rank, got %v", err)
	}
}

func TestPreviewActivityKnownLabel(t *testing.T) {
	svc, _ := newTestService(t)

	preview, err := svc.PreviewActivity(context.Background(), "2025", "클럽내부대회")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !preview.Known || preview.ResolvedLabel != "내부리그 운영" || preview.Points != 2 {
		t.Fatalf("unexpected preview %+v", preview)
	}
	if len(preview.Suggestions) != 0 {
		t.Fatalf("expected no suggestions for a known label, got %v", preview.Suggestions)
	}
}

func TestPreviewActivitySuggestsForUnknownLabel(t *testing.T) {
	svc, _ := newTestService(t)

	preview, err := svc.PreviewActivity(context.Background(), "2025", "정기")
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if preview.Known || preview.Points != 0 {
		t.Fatalf("expected unknown label, got %+v", preview)
	}
	if !slices.Contains(preview.Suggestions, "정기모임") {
		t.Fatalf("expected 정기모임 among suggestions, got %v", preview.Suggestions)
	}
	if len(preview.Suggestions) > maxSuggestions {
		t.Fatalf("expected at most %d suggestions, got %d", maxSuggestions, len(preview.Suggestions))
	}

	if _, err := svc.PreviewActivity(context.Background(), "2025", "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestParseMagnitude(t *testing.T) {
	good := map[any]float64{
		3.5:     3.5,
		7:       7,
		" 2 ":   2,
		"-1.25": -1.25,
	}
	for in, want := range good {
		got, err := parseMagnitude(in)
		if err != nil || got != want {
			t.Fatalf("parseMagnitude(%v) = %v, %v; want %v", in, got, err, want)
		}
	}
	bad := []any{nil, "", "abc", true, math.NaN(), math.Inf(1), []int{1}}
	for _, in := range bad {
		if _, err := parseMagnitude(in); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput for %v, got %v", in, err)
		}
	}
}
