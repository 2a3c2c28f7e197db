package records

import (
	"context"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/scoring"
)

const maxSuggestions = 5

// MatchPreview is the would-be score of a match result plus the categories it normalized to.
type MatchPreview struct {
	SeasonID        string  `json:"seasonId"`
	RuleVersion     string  `json:"ruleVersion"`
	Type            string  `json:"type"`
	LeagueType      string  `json:"leagueType"`
	Rank            string  `json:"rank"`
	OtherClubMember bool    `json:"otherClubMember"`
	Points          float64 `json:"points"`
}

// ActivityPreview is the would-be score of an activity label. Suggestions are offered
// when the label resolves to no rule.
type ActivityPreview struct {
	SeasonID      string   `json:"seasonId"`
	RuleVersion   string   `json:"ruleVersion"`
	Label         string   `json:"label"`
	ResolvedLabel string   `json:"resolvedLabel"`
	Known         bool     `json:"known"`
	Points        float64  `json:"points"`
	Suggestions   []string `json:"suggestions,omitempty"`
}

// PreviewMatch computes points for a match without storing anything.
func (s *Service) PreviewMatch(ctx context.Context, seasonID string, in MatchInput) (MatchPreview, error) {
	if strings.TrimSpace(in.Type) == "" || strings.TrimSpace(in.Rank) == "" {
		return MatchPreview{}, invalid("type and rank are required")
	}
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return MatchPreview{}, err
	}
	input := scoring.MatchInput{
		Type:            in.Type,
		LeagueType:      in.LeagueType,
		Rank:            in.Rank,
		OtherClubMember: in.OtherClubMember,
	}
	return MatchPreview{
		SeasonID:        season.ID,
		RuleVersion:     season.RulesVersion,
		Type:            scoring.NormalizeCompetitionType(in.Type),
		LeagueType:      scoring.NormalizeLeagueType(in.LeagueType),
		Rank:            scoring.NormalizeRank(in.Rank),
		OtherClubMember: scoring.NormalizeOtherClubFlag(in.OtherClubMember),
		Points:          scoring.MatchPoints(input, season.PointRules),
	}, nil
}

// PreviewActivity computes points for an activity label without storing anything.
func (s *Service) PreviewActivity(ctx context.Context, seasonID, label string) (ActivityPreview, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return ActivityPreview{}, invalid("activityType is required")
	}
	season, err := s.seasons.Resolve(ctx, seasonID)
	if err != nil {
		return ActivityPreview{}, err
	}

	preview := ActivityPreview{
		SeasonID:      season.ID,
		RuleVersion:   season.RulesVersion,
		Label:         label,
		ResolvedLabel: scoring.ResolveActivityLabel(label),
		Known:         scoring.HasActivityRule(label, season.PointRules),
		Points:        scoring.ActivityPoints(label, season.PointRules),
	}
	if !preview.Known {
		preview.Suggestions = suggestLabels(label, season.PointRules)
	}
	return preview, nil
}

// suggestLabels fuzzy-matches label against alias names and the season's activity keys.
func suggestLabels(label string, rules points.PointRules) []string {
	seen := make(map[string]struct{})
	var candidates []string
	add := func(v string) {
		if _, ok := seen[v]; ok {
			return
		}
		seen[v] = struct{}{}
		candidates = append(candidates, v)
	}
	for alias := range scoring.ActivityAliases() {
		add(alias)
	}
	for key := range rules.Activity {
		add(key)
	}
	slices.Sort(candidates)

	matches := fuzzy.Find(label, candidates)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		out = append(out, m.Str)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}

// parseMagnitude accepts JSON numbers and numeric strings. Missing, blank or
// non-numeric values are rejected.
func parseMagnitude(v any) (float64, error) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, invalid("points must be numeric")
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, invalid("points must be numeric")
		}
		f = parsed
	case nil:
		return 0, invalid("points is required")
	default:
		return 0, invalid("points must be numeric")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid("points must be finite")
	}
	return f, nil
}
