package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/preston-bernstein/club-rank-service/internal/app/records"
	"github.com/preston-bernstein/club-rank-service/internal/app/seasons"
	"github.com/preston-bernstein/club-rank-service/internal/scoring"
	"github.com/preston-bernstein/club-rank-service/internal/store"
	"github.com/preston-bernstein/club-rank-service/internal/testutil"
)

func newTestAdmin(token string) (*AdminHandler, *stubSeasons, *stubRecords) {
	seasonSvc := &stubSeasons{}
	recs := &stubRecords{}
	logger, _ := testutil.NewBufferLogger()
	return NewAdminHandler(seasonSvc, recs, token, logger), seasonSvc, recs
}

func TestGuardRejectsMissingOrWrongToken(t *testing.T) {
	admin, _, _ := newTestAdmin("secret")
	called := false
	guarded := admin.Guard(func(w http.ResponseWriter, r *http.Request) { called = true })

	for _, header := range []string{"", "Bearer wrong", "Basic secret"} {
		req := requestWithAuth(header)
		rr := testutil.ServeRequest(guarded, req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	}
	if called {
		t.Fatalf("expected handler not to run without a valid token")
	}

	rr := testutil.ServeRequest(guarded, requestWithAuth("Bearer secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !called {
		t.Fatalf("expected handler to run with a valid token")
	}
}

func TestGuardRejectsEverythingWithoutConfiguredToken(t *testing.T) {
	admin, _, _ := newTestAdmin("")
	guarded := admin.Guard(func(w http.ResponseWriter, r *http.Request) {})

	rr := testutil.ServeRequest(guarded, requestWithAuth("Bearer "))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
}

func TestSaveSeasonUsesPathID(t *testing.T) {
	admin, seasonSvc, _ := newTestAdmin("secret")
	values := map[string]string{"seasonID": "2026"}

	rr := call(t, admin.SaveSeason, http.MethodPut, "/", map[string]any{"title": "Next", "isActive": true}, values)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if seasonSvc.gotSaved.ID != "2026" || !seasonSvc.gotSaved.IsActive || seasonSvc.gotSaved.Title != "Next" {
		t.Fatalf("unexpected saved season %+v", seasonSvc.gotSaved)
	}

	rr = call(t, admin.SaveSeason, http.MethodPut, "/", map[string]any{"id": "2024"}, values)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	seasonSvc.err = fmt.Errorf("%w: matchWeight must not be negative", seasons.ErrInvalidSeason)
	rr = call(t, admin.SaveSeason, http.MethodPut, "/", map[string]any{"matchWeight": -1}, values)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestActivateSeason(t *testing.T) {
	admin, seasonSvc, _ := newTestAdmin("secret")
	values := map[string]string{"seasonID": "2025"}

	testutil.AssertStatus(t, call(t, admin.ActivateSeason, http.MethodPost, "/", nil, values), http.StatusOK)
	if seasonSvc.activated != "2025" {
		t.Fatalf("expected 2025 activated, got %q", seasonSvc.activated)
	}

	seasonSvc.err = fmt.Errorf("%w: season %q does not exist", scoring.ErrSeasonNotFound, "2025")
	testutil.AssertStatus(t, call(t, admin.ActivateSeason, http.MethodPost, "/", nil, values), http.StatusNotFound)
}

func TestAddAdjustment(t *testing.T) {
	admin, _, recs := newTestAdmin("secret")
	values := map[string]string{"seasonID": "2025"}

	rr := call(t, admin.AddAdjustment, http.MethodPost, "/", `{"playerName":"Kim","type":"penalty","applyTo":"match","points":"1.5"}`, values)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	if recs.gotAdjust.PlayerName != "Kim" || recs.gotAdjust.Points != "1.5" {
		t.Fatalf("unexpected adjustment input %+v", recs.gotAdjust)
	}

	rr = call(t, admin.AddAdjustment, http.MethodPost, "/", `{"playerName":"Kim","type":"bonus","points":2}`, values)
	testutil.AssertStatus(t, rr, http.StatusCreated)
	if recs.gotAdjust.Points != float64(2) {
		t.Fatalf("expected JSON number to arrive as float64, got %#v", recs.gotAdjust.Points)
	}

	recs.err = fmt.Errorf("%w: points must be numeric", records.ErrInvalidInput)
	testutil.AssertStatus(t, call(t, admin.AddAdjustment, http.MethodPost, "/", `{"points":"abc"}`, values), http.StatusBadRequest)
}

func TestConfirmRecord(t *testing.T) {
	admin, _, recs := newTestAdmin("secret")

	rr := call(t, admin.ConfirmRecord, http.MethodPost, "/", nil, map[string]string{"seasonID": "2025", "kind": "activities", "recordID": "a-1"})
	testutil.AssertStatus(t, rr, http.StatusOK)
	if recs.gotKind != records.KindActivity || recs.gotID != "a-1" {
		t.Fatalf("unexpected confirm call %q %q", recs.gotKind, recs.gotID)
	}

	rr = call(t, admin.ConfirmRecord, http.MethodPost, "/", nil, map[string]string{"seasonID": "2025", "kind": "adjustments", "recordID": "x"})
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	recs.err = fmt.Errorf("get match: %w", store.ErrNotFound)
	rr = call(t, admin.ConfirmRecord, http.MethodPost, "/", nil, map[string]string{"seasonID": "2025", "kind": "matches", "recordID": "missing"})
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	recs.err = errors.New("timeout")
	rr = call(t, admin.ConfirmRecord, http.MethodPost, "/", nil, map[string]string{"seasonID": "2025", "kind": "matches", "recordID": "m-1"})
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
}

func requestWithAuth(header string) *http.Request {
	req, _ := http.NewRequest(http.MethodPost, "/admin/seasons/2025/activate", strings.NewReader(""))
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	return req
}
