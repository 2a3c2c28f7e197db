package points

import "time"

// DefaultSeasonID is the well-known season used when no season is flagged active.
const DefaultSeasonID = "2025"

// DefaultWeight applies to both the match and activity buckets when a season leaves them unset.
const DefaultWeight = 0.5

// RecordStatus mirrors the lifecycle of a submitted record.
type RecordStatus string

const (
	StatusPending   RecordStatus = "pending"
	StatusConfirmed RecordStatus = "confirmed"
)

// Adjustment buckets.
const (
	ApplyToMatch    = "match"
	ApplyToActivity = "activity"
	ApplyToTotal    = "total"
)

// Adjustment classes.
const (
	AdjustmentBonus   = "bonus"
	AdjustmentPenalty = "penalty"
)

// PointRules is a season's rule table.
type PointRules struct {
	// Match maps competition type -> rank -> open-division points.
	Match map[string]map[string]float64 `json:"match,omitempty" yaml:"match" bson:"match,omitempty"`
	// Activity maps a canonical activity name to its points.
	Activity map[string]float64 `json:"activity,omitempty" yaml:"activity" bson:"activity,omitempty"`
	// OtherClubMemberPenalty is a factor when strictly between 0 and 1, otherwise a subtraction.
	OtherClubMemberPenalty *float64 `json:"otherClubMemberPenalty,omitempty" yaml:"otherClubMemberPenalty" bson:"otherClubMemberPenalty,omitempty"`
}

// Season is a named scoring period with its own rule table.
type Season struct {
	ID             string     `json:"id" yaml:"id" bson:"_id"`
	Title          string     `json:"title,omitempty" yaml:"title" bson:"title,omitempty"`
	IsActive       bool       `json:"isActive" yaml:"isActive" bson:"isActive"`
	MatchWeight    *float64   `json:"matchWeight,omitempty" yaml:"matchWeight" bson:"matchWeight,omitempty"`
	ActivityWeight *float64   `json:"activityWeight,omitempty" yaml:"activityWeight" bson:"activityWeight,omitempty"`
	PointRules     PointRules `json:"pointRules" yaml:"pointRules" bson:"pointRules"`
	RulesVersion   string     `json:"rulesVersion,omitempty" yaml:"rulesVersion" bson:"rulesVersion,omitempty"`
}

// Weights resolves the match and activity weights, falling back to DefaultWeight.
func (s Season) Weights() (match, activity float64) {
	match, activity = DefaultWeight, DefaultWeight
	if s.MatchWeight != nil {
		match = *s.MatchWeight
	}
	if s.ActivityWeight != nil {
		activity = *s.ActivityWeight
	}
	return match, activity
}

// DisplayTitle returns the title or the id when no title is set.
func (s Season) DisplayTitle() string {
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

// MatchRecord is one competitive result for one player within a season.
type MatchRecord struct {
	ID              string       `json:"id" bson:"_id"`
	SeasonID        string       `json:"seasonId" bson:"seasonId"`
	PlayerUID       string       `json:"playerUid,omitempty" bson:"playerUid,omitempty"`
	PlayerName      string       `json:"playerName" bson:"playerName"`
	CompetitionName string       `json:"competitionName" bson:"competitionName"`
	Type            string       `json:"type" bson:"type"`
	LeagueType      string       `json:"leagueType,omitempty" bson:"leagueType,omitempty"`
	Rank            string       `json:"rank" bson:"rank"`
	OtherClubMember string       `json:"otherClubMember" bson:"otherClubMember"`
	Points          *float64     `json:"points,omitempty" bson:"points,omitempty"`
	RuleVersion     string       `json:"ruleVersion" bson:"ruleVersion"`
	Status          RecordStatus `json:"status" bson:"status"`
	EventDate       string       `json:"eventDate,omitempty" bson:"eventDate,omitempty"`
	CreatedByUID    string       `json:"createdByUid,omitempty" bson:"createdByUid,omitempty"`
	CreatedAt       time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// ActivityRecord is one participation or contribution event for a player.
type ActivityRecord struct {
	ID           string       `json:"id" bson:"_id"`
	SeasonID     string       `json:"seasonId" bson:"seasonId"`
	PlayerUID    string       `json:"playerUid,omitempty" bson:"playerUid,omitempty"`
	PlayerName   string       `json:"playerName" bson:"playerName"`
	ActivityType string       `json:"activityType" bson:"activityType"`
	Points       *float64     `json:"points,omitempty" bson:"points,omitempty"`
	RuleVersion  string       `json:"ruleVersion" bson:"ruleVersion"`
	Status       RecordStatus `json:"status" bson:"status"`
	EventDate    string       `json:"eventDate,omitempty" bson:"eventDate,omitempty"`
	CreatedByUID string       `json:"createdByUid,omitempty" bson:"createdByUid,omitempty"`
	CreatedAt    time.Time    `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt,omitempty" bson:"updatedAt,omitempty"`
}

// Adjustment is a manual point correction. It has no update path once created.
type Adjustment struct {
	ID           string    `json:"id" bson:"_id"`
	SeasonID     string    `json:"seasonId" bson:"seasonId"`
	PlayerUID    string    `json:"playerUid,omitempty" bson:"playerUid,omitempty"`
	PlayerName   string    `json:"playerName" bson:"playerName"`
	ApplyTo      string    `json:"applyTo" bson:"applyTo"`
	Type         string    `json:"type" bson:"type"`
	Points       float64   `json:"points" bson:"points"`
	Note         string    `json:"note,omitempty" bson:"note,omitempty"`
	DateLabel    string    `json:"dateLabel,omitempty" bson:"dateLabel,omitempty"`
	CreatedByUID string    `json:"createdByUid,omitempty" bson:"createdByUid,omitempty"`
	CreatedAt    time.Time `json:"createdAt" bson:"createdAt"`
}

// LeaderboardRow is a derived per-player aggregate. It is never persisted.
type LeaderboardRow struct {
	Rank               int     `json:"rank"`
	PlayerUID          string  `json:"playerUid,omitempty"`
	PlayerName         string  `json:"playerName"`
	MatchPointsBase    float64 `json:"matchPointsBase"`
	ActivityPointsBase float64 `json:"activityPointsBase"`
	MatchAdjustment    float64 `json:"matchAdjustment"`
	ActivityAdjustment float64 `json:"activityAdjustment"`
	TotalAdjustment    float64 `json:"totalAdjustment"`
	MatchesCount       int     `json:"matchesCount"`
	ActivitiesCount    int     `json:"activitiesCount"`
	TotalPoints        float64 `json:"totalPoints"`
}

// LeaderboardResponse is the payload returned by /seasons/{id}/leaderboard.
type LeaderboardResponse struct {
	SeasonID        string           `json:"seasonId"`
	SeasonTitle     string           `json:"seasonTitle"`
	MatchWeight     float64          `json:"matchWeight"`
	ActivityWeight  float64          `json:"activityWeight"`
	TotalPlayers    int              `json:"totalPlayers"`
	TotalMatches    int              `json:"totalMatches"`
	TotalActivities int              `json:"totalActivities"`
	Rows            []LeaderboardRow `json:"rows"`
}

// NewLeaderboardResponse builds the response payload and its summary counters.
func NewLeaderboardResponse(season Season, rows []LeaderboardRow) LeaderboardResponse {
	mw, aw := season.Weights()
	resp := LeaderboardResponse{
		SeasonID:       season.ID,
		SeasonTitle:    season.DisplayTitle(),
		MatchWeight:    mw,
		ActivityWeight: aw,
		TotalPlayers:   len(rows),
		Rows:           rows,
	}
	if resp.Rows == nil {
		resp.Rows = []LeaderboardRow{}
	}
	for _, row := range rows {
		resp.TotalMatches += row.MatchesCount
		resp.TotalActivities += row.ActivitiesCount
	}
	return resp
}

// Float returns a pointer to v; handy for optional numeric fields.
func Float(v float64) *float64 {
	return &v
}
