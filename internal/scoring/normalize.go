package scoring

import (
	"strings"
	"unicode"
)

// Canonical competition types. The rule table is keyed by these labels.
const (
	CompetitionInternational = "국제대회"
	CompetitionDomestic      = "국내대회"
)

// Canonical ranks.
const (
	RankWinner        = "winner"
	RankRunnerUp      = "runner-up"
	RankThird         = "third"
	RankParticipation = "participation"
)

// Canonical league divisions.
const (
	LeagueOpen      = "open"
	LeagueDivision2 = "division2"
)

var (
	competitionSynonyms = map[string][]string{
		CompetitionInternational: {"국제", "국제대회", "international", "intl", "inter"},
		CompetitionDomestic:      {"국내", "국내대회", "domestic", "local"},
	}
	competitionOrder = []string{CompetitionInternational, CompetitionDomestic}

	rankSynonyms = map[string][]string{
		RankWinner:        {"winner", "win", "champ", "우승", "1", "1등", "1위", "first"},
		RankRunnerUp:      {"runnerup", "runner-up", "ru", "준우승", "2", "2등", "2위", "second"},
		RankThird:         {"third", "3", "3등", "3위", "bronze", "동", "동메달"},
		RankParticipation: {"participation", "참가", "참여"},
	}
	rankOrder = []string{RankWinner, RankRunnerUp, RankThird, RankParticipation}

	leagueSynonyms = map[string][]string{
		LeagueOpen:      {"open", "오픈", "오픈부", "open부"},
		LeagueDivision2: {"2", "2부", "2부리그", "division2", "d2", "div2", "2nd"},
	}
	leagueOrder = []string{LeagueOpen, LeagueDivision2}

	affirmative = []string{"예", "yes", "y", "true", "1", "on"}
)

// activityAliases maps granular activity labels onto the categories the rule table scores.
var activityAliases = map[string]string{
	"정기모임":         "정기모임",
	"훈련":           "훈련",
	"지각":           "지각",
	"조퇴":           "조퇴",
	"클럽내부대회":       "내부리그 운영",
	"외부교류전":        "외부교류전",
	"외부대회참여":       "외부교류전",
	"대회스태프":        "봉사/운영",
	"행사참여":         "봉사/운영",
	"신입회원교육":       "홍보/콘텐츠",
	"멘토링":          "홍보/콘텐츠",
	"장비정리":         "봉사/운영",
	"코트정리":         "봉사/운영",
	"홍보참여":         "홍보/콘텐츠",
	"운영진활동":        "내부리그 운영",
	"신규회원추천":       "홍보/콘텐츠",
	"클럽주관대회입상_우승":  "내부리그 운영",
	"클럽주관대회입상_준우승": "내부리그 운영",
	"클럽주관대회입상_3등":  "내부리그 운영",
	"외부대회입상_우승":    "외부교류전",
	"외부대회입상_준우승":   "외부교류전",
	"외부대회입상_3등":    "외부교류전",
	"MVP":          "홍보/콘텐츠",
	"무단불참3회":       "봉사/운영",
	"비매너":          "봉사/운영",
	"기물파손":         "봉사/운영",
}

// NormalizeText trims, lowercases and strips whitespace, underscores and hyphens.
func NormalizeText(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			return -1
		}
		return r
	}, s)
}

// NormalizeCompetitionType maps synonyms onto the canonical competition labels.
// Unrecognized input is returned unchanged.
func NormalizeCompetitionType(s string) string {
	return canonicalize(s, competitionOrder, competitionSynonyms)
}

// NormalizeRank maps synonyms onto the canonical ranks. Unrecognized input is returned unchanged.
func NormalizeRank(s string) string {
	return canonicalize(s, rankOrder, rankSynonyms)
}

// NormalizeLeagueType maps synonyms onto open / division2. Unrecognized input is returned unchanged.
func NormalizeLeagueType(s string) string {
	return canonicalize(s, leagueOrder, leagueSynonyms)
}

// NormalizeOtherClubFlag reports whether s is an affirmative answer. Anything else is false.
func NormalizeOtherClubFlag(s string) bool {
	return containsNormalized(affirmative, NormalizeText(s))
}

// ResolveActivityLabel returns the scoring category for a label, or the label itself
// when it has no alias.
func ResolveActivityLabel(label string) string {
	if canonical, ok := activityAliases[label]; ok && canonical != "" {
		return canonical
	}
	return label
}

// ActivityAliases returns a copy of the alias table.
func ActivityAliases() map[string]string {
	out := make(map[string]string, len(activityAliases))
	for k, v := range activityAliases {
		out[k] = v
	}
	return out
}

func canonicalize(s string, order []string, synonyms map[string][]string) string {
	v := NormalizeText(s)
	for _, canonical := range order {
		if containsNormalized(synonyms[canonical], v) {
			return canonical
		}
	}
	return s
}

// containsNormalized compares against normalized synonyms so entries like "runner-up"
// still match after hyphens are stripped.
func containsNormalized(set []string, v string) bool {
	if v == "" {
		return false
	}
	for _, candidate := range set {
		if NormalizeText(candidate) == v {
			return true
		}
	}
	return false
}
