package scoring

import (
	"fmt"
	"testing"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
)

func BenchmarkBuildLeaderboard(b *testing.B) {
	season := sampleSeason()
	season.PointRules.OtherClubMemberPenalty = points.Float(0.5)

	var (
		matches     []points.MatchRecord
		activities  []points.ActivityRecord
		adjustments []points.Adjustment
	)
	for p := 0; p < 100; p++ {
		uid := fmt.Sprintf("u%03d", p)
		name := fmt.Sprintf("Player %03d", p)
		for i := 0; i < 10; i++ {
			matches = append(matches, points.MatchRecord{
				PlayerUID:       uid,
				PlayerName:      name,
				Type:            "국내대회",
				LeagueType:      "2부리그",
				Rank:            "준우승",
				OtherClubMember: "예",
			})
			activities = append(activities, points.ActivityRecord{PlayerUID: uid, PlayerName: name, ActivityType: "정기 모임"})
		}
		adjustments = append(adjustments, points.Adjustment{PlayerUID: uid, PlayerName: name, ApplyTo: points.ApplyToTotal, Type: points.AdjustmentBonus, Points: 1})
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := BuildLeaderboard(season, matches, activities, adjustments); err != nil {
			b.Fatalf("build leaderboard: %v", err)
		}
	}
}
