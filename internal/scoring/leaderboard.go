package scoring

import (
	"cmp"
	"errors"
	"math"
	"slices"
	"strings"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
)

// ErrSeasonNotFound signals that no season could be resolved for a computation.
var ErrSeasonNotFound = errors.New("no active or default season is configured")

// AdjustmentTotals accumulates one player's adjustments per bucket.
type AdjustmentTotals struct {
	Match    float64
	Activity float64
	Total    float64
	// Details holds each applied adjustment with its signed points.
	Details []points.Adjustment
}

// SignedAdjustmentPoints forces penalties negative and everything else positive.
func SignedAdjustmentPoints(adj points.Adjustment) float64 {
	pts := math.Abs(adj.Points)
	if strings.EqualFold(strings.TrimSpace(adj.Type), points.AdjustmentPenalty) {
		return -pts
	}
	return pts
}

// AdjustmentBucket returns the bucket an adjustment applies to, defaulting to total.
func AdjustmentBucket(adj points.Adjustment) string {
	switch strings.ToLower(strings.TrimSpace(adj.ApplyTo)) {
	case points.ApplyToMatch:
		return points.ApplyToMatch
	case points.ApplyToActivity:
		return points.ApplyToActivity
	default:
		return points.ApplyToTotal
	}
}

// IndexAdjustments groups adjustments by trimmed player name, skipping blank names.
func IndexAdjustments(adjustments []points.Adjustment) map[string]*AdjustmentTotals {
	index := make(map[string]*AdjustmentTotals)
	for _, adj := range adjustments {
		name := strings.TrimSpace(adj.PlayerName)
		if name == "" {
			continue
		}
		pts := SignedAdjustmentPoints(adj)
		totals, ok := index[name]
		if !ok {
			totals = &AdjustmentTotals{}
			index[name] = totals
		}
		switch AdjustmentBucket(adj) {
		case points.ApplyToMatch:
			totals.Match += pts
		case points.ApplyToActivity:
			totals.Activity += pts
		default:
			totals.Total += pts
		}
		applied := adj
		applied.Points = pts
		totals.Details = append(totals.Details, applied)
	}
	return index
}

type bucket struct {
	points float64
	count  int
	uid    string
}

// BuildLeaderboard folds the season's records into ranked per-player rows.
// Rows are ordered by total points descending, then player name ascending.
func BuildLeaderboard(season *points.Season, matches []points.MatchRecord, activities []points.ActivityRecord, adjustments []points.Adjustment) ([]points.LeaderboardRow, error) {
	if season == nil {
		return nil, ErrSeasonNotFound
	}
	rules := season.PointRules
	matchWeight, activityWeight := season.Weights()

	matchIndex := make(map[string]*bucket)
	for _, m := range matches {
		if strings.TrimSpace(m.PlayerName) == "" {
			continue
		}
		b := ensureBucket(matchIndex, m.PlayerName, m.PlayerUID)
		b.points += ComputeMatchPoints(m, rules)
		b.count++
	}

	activityIndex := make(map[string]*bucket)
	for _, a := range activities {
		if strings.TrimSpace(a.PlayerName) == "" {
			continue
		}
		b := ensureBucket(activityIndex, a.PlayerName, a.PlayerUID)
		b.points += ComputeActivityPoints(a, rules)
		b.count++
	}

	adjustIndex := IndexAdjustments(adjustments)

	names := make(map[string]struct{}, len(matchIndex)+len(activityIndex)+len(adjustIndex))
	for name := range matchIndex {
		names[name] = struct{}{}
	}
	for name := range activityIndex {
		names[name] = struct{}{}
	}
	for name := range adjustIndex {
		names[name] = struct{}{}
	}

	rows := make([]points.LeaderboardRow, 0, len(names))
	for name := range names {
		m := valueOrZero(matchIndex[name])
		a := valueOrZero(activityIndex[name])
		adj := AdjustmentTotals{}
		if found, ok := adjustIndex[name]; ok {
			adj = *found
		}

		uid := m.uid
		if uid == "" {
			uid = a.uid
		}

		total := m.points*matchWeight + a.points*activityWeight + adj.Match + adj.Activity + adj.Total
		rows = append(rows, points.LeaderboardRow{
			PlayerUID:          uid,
			PlayerName:         name,
			MatchPointsBase:    m.points,
			ActivityPointsBase: a.points,
			MatchAdjustment:    adj.Match,
			ActivityAdjustment: adj.Activity,
			TotalAdjustment:    adj.Total,
			MatchesCount:       m.count,
			ActivitiesCount:    a.count,
			TotalPoints:        points.Round2(total),
		})
	}

	slices.SortFunc(rows, func(x, y points.LeaderboardRow) int {
		if c := cmp.Compare(y.TotalPoints, x.TotalPoints); c != 0 {
			return c
		}
		return cmp.Compare(x.PlayerName, y.PlayerName)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func ensureBucket(index map[string]*bucket, name, uid string) *bucket {
	b, ok := index[name]
	if !ok {
		b = &bucket{uid: uid}
		index[name] = b
	}
	return b
}

func valueOrZero(b *bucket) bucket {
	if b == nil {
		return bucket{}
	}
	return *b
}
