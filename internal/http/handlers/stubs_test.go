package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/club-rank-service/internal/app/leaderboard"
	"github.com/preston-bernstein/club-rank-service/internal/app/records"
	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
)

type stubSeasons struct {
	list      []points.Season
	season    points.Season
	err       error
	gotID     string
	gotSaved  points.Season
	activated string
}

func (s *stubSeasons) List(context.Context) ([]points.Season, error) { return s.list, s.err }

func (s *stubSeasons) Get(_ context.Context, id string) (points.Season, error) {
	s.gotID = id
	return s.season, s.err
}

func (s *stubSeasons) Save(_ context.Context, season points.Season) (points.Season, error) {
	s.gotSaved = season
	return season, s.err
}

func (s *stubSeasons) Activate(_ context.Context, id string) (points.Season, error) {
	s.activated = id
	return s.season, s.err
}

type stubBoard struct {
	resp     points.LeaderboardResponse
	standing leaderboard.PlayerStanding
	err      error
	gotID    string
	gotName  string
}

func (b *stubBoard) Build(_ context.Context, seasonID string) (points.LeaderboardResponse, error) {
	b.gotID = seasonID
	return b.resp, b.err
}

func (b *stubBoard) Player(_ context.Context, seasonID, name string) (leaderboard.PlayerStanding, error) {
	b.gotID, b.gotName = seasonID, name
	return b.standing, b.err
}

type stubRecords struct {
	err error

	match      points.MatchRecord
	activity   points.ActivityRecord
	adjustment points.Adjustment
	recent     records.PlayerRecords

	gotSeason   string
	gotID       string
	gotLimit    int
	gotMatch    records.MatchInput
	gotActivity records.ActivityInput
	gotAdjust   records.AdjustmentInput
	gotLabel    string
	gotKind     records.Kind
}

func (s *stubRecords) SubmitMatch(_ context.Context, seasonID string, in records.MatchInput) (points.MatchRecord, error) {
	s.gotSeason, s.gotMatch = seasonID, in
	return s.match, s.err
}

func (s *stubRecords) UpdateMatch(_ context.Context, seasonID, id string, in records.MatchInput) (points.MatchRecord, error) {
	s.gotSeason, s.gotID, s.gotMatch = seasonID, id, in
	return s.match, s.err
}

func (s *stubRecords) DeleteMatch(_ context.Context, seasonID, id string) error {
	s.gotSeason, s.gotID = seasonID, id
	return s.err
}

func (s *stubRecords) SubmitActivity(_ context.Context, seasonID string, in records.ActivityInput) (points.ActivityRecord, error) {
	s.gotSeason, s.gotActivity = seasonID, in
	return s.activity, s.err
}

func (s *stubRecords) UpdateActivity(_ context.Context, seasonID, id string, in records.ActivityInput) (points.ActivityRecord, error) {
	s.gotSeason, s.gotID, s.gotActivity = seasonID, id, in
	return s.activity, s.err
}

func (s *stubRecords) DeleteActivity(_ context.Context, seasonID, id string) error {
	s.gotSeason, s.gotID = seasonID, id
	return s.err
}

func (s *stubRecords) PreviewMatch(_ context.Context, seasonID string, in records.MatchInput) (records.MatchPreview, error) {
	s.gotSeason, s.gotMatch = seasonID, in
	return records.MatchPreview{SeasonID: seasonID, Points: 0.9}, s.err
}

func (s *stubRecords) PreviewActivity(_ context.Context, seasonID, label string) (records.ActivityPreview, error) {
	s.gotSeason, s.gotLabel = seasonID, label
	return records.ActivityPreview{SeasonID: seasonID, Label: label, Suggestions: []string{"정기모임"}}, s.err
}

func (s *stubRecords) RecentForPlayer(_ context.Context, seasonID, playerUID string, limit int) (records.PlayerRecords, error) {
	s.gotSeason, s.gotID, s.gotLimit = seasonID, playerUID, limit
	return s.recent, s.err
}

func (s *stubRecords) AddAdjustment(_ context.Context, seasonID string, in records.AdjustmentInput) (points.Adjustment, error) {
	s.gotSeason, s.gotAdjust = seasonID, in
	return s.adjustment, s.err
}

func (s *stubRecords) Confirm(_ context.Context, seasonID string, kind records.Kind, id string) (any, error) {
	s.gotSeason, s.gotKind, s.gotID = seasonID, kind, id
	if s.err != nil {
		return nil, s.err
	}
	return s.match, nil
}

// call invokes fn directly with path values set the way ServeMux would set them.
func call(t *testing.T, fn http.HandlerFunc, method, target string, payload any, values map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Reader
	switch p := payload.(type) {
	case nil:
		body = bytes.NewReader(nil)
	case string:
		body = bytes.NewReader([]byte(p))
	default:
		data, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, target, body)
	for k, v := range values {
		req.SetPathValue(k, v)
	}
	rr := httptest.NewRecorder()
	fn(rr, req)
	return rr
}
