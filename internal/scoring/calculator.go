package scoring

import (
	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
)

const (
	// Division2Factor scales the open-division table value for domestic division-2 results.
	Division2Factor = 0.3
	// DefaultOtherClubFactor applies when a season configures no other-club penalty.
	DefaultOtherClubFactor = 0.3
)

// MatchInput holds the categorical fields that determine a match result's points.
type MatchInput struct {
	Type            string
	LeagueType      string
	Rank            string
	OtherClubMember string
}

// MatchInputFrom extracts the scoring fields of a stored record.
func MatchInputFrom(rec points.MatchRecord) MatchInput {
	return MatchInput{
		Type:            rec.Type,
		LeagueType:      rec.LeagueType,
		Rank:            rec.Rank,
		OtherClubMember: rec.OtherClubMember,
	}
}

// MatchPoints computes a match result's points from the rule table.
// The result is rounded to two decimals and may be negative when an additive penalty
// exceeds the base value.
func MatchPoints(in MatchInput, rules points.PointRules) float64 {
	typeKey := NormalizeCompetitionType(in.Type)
	rankKey := NormalizeRank(in.Rank)
	leagueKey := NormalizeLeagueType(in.LeagueType)

	base := lookupMatch(rules.Match, typeKey, rankKey)
	if typeKey == CompetitionDomestic && leagueKey == LeagueDivision2 {
		base *= Division2Factor
	}

	if NormalizeOtherClubFlag(in.OtherClubMember) {
		base = applyOtherClubPenalty(base, rules.OtherClubMemberPenalty)
	}

	return points.Round2(base)
}

// ComputeMatchPoints prefers the record's stored points and falls back to the rule table.
func ComputeMatchPoints(rec points.MatchRecord, rules points.PointRules) float64 {
	if rec.Points != nil {
		return *rec.Points
	}
	return MatchPoints(MatchInputFrom(rec), rules)
}

// ActivityPoints resolves the label's alias and looks it up in the activity table.
func ActivityPoints(label string, rules points.PointRules) float64 {
	if rules.Activity == nil {
		return 0
	}
	return rules.Activity[ResolveActivityLabel(label)]
}

// ComputeActivityPoints prefers the record's stored points and falls back to the rule table.
func ComputeActivityPoints(rec points.ActivityRecord, rules points.PointRules) float64 {
	if rec.Points != nil {
		return *rec.Points
	}
	return ActivityPoints(rec.ActivityType, rules)
}

// HasActivityRule reports whether the label resolves to a configured activity.
func HasActivityRule(label string, rules points.PointRules) bool {
	_, ok := rules.Activity[ResolveActivityLabel(label)]
	return ok
}

func lookupMatch(table map[string]map[string]float64, typeKey, rankKey string) float64 {
	byRank, ok := table[typeKey]
	if !ok {
		return 0
	}
	return byRank[rankKey]
}

func applyOtherClubPenalty(base float64, penalty *float64) float64 {
	if penalty == nil {
		return base * DefaultOtherClubFactor
	}
	p := *penalty
	if p > 0 && p < 1 {
		return base * p
	}
	return base - p
}
