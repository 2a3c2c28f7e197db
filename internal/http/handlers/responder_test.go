package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/club-rank-service/internal/app/leaderboard"
	"github.com/preston-bernstein/club-rank-service/internal/app/records"
	"github.com/preston-bernstein/club-rank-service/internal/app/seasons"
	"github.com/preston-bernstein/club-rank-service/internal/http/middleware"
	"github.com/preston-bernstein/club-rank-service/internal/scoring"
	"github.com/preston-bernstein/club-rank-service/internal/store"
	"github.com/preston-bernstein/club-rank-service/internal/testutil"
)

func TestWriteErrorIncludesRequestID(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusTeapot, "boom", logger)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rr := testutil.ServeRequest(middleware.LoggingMiddleware(logger, nil, inner), req)

	if rr.Code != http.StatusTeapot {
		t.Fatalf("expected status 418, got %d", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != "application/json" {
		t.Fatalf("expected content type json, got %s", got)
	}
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["requestId"] != "abc123" || body["error"] != "boom" {
		t.Fatalf("unexpected error body %v", body)
	}
}

func TestWriteJSONLogsEncodeError(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rr := testutil.Serve(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, make(chan int), logger)
	}), http.MethodGet, "/encode-error", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status written even on encode error, got %d", rr.Code)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected logger to record encode error")
	}
}

func TestWriteErrorFallsBackToHeaderRequestID(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "header-id")
	writeError(rr, req, http.StatusTeapot, "boom", logger)
	if !bytes.Contains(rr.Body.Bytes(), []byte("header-id")) {
		t.Fatalf("expected header request id used when context missing")
	}
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("%w: rank is required", records.ErrInvalidInput), http.StatusBadRequest},
		{fmt.Errorf("%w: id is required", seasons.ErrInvalidSeason), http.StatusBadRequest},
		{fmt.Errorf("%w: 1999", scoring.ErrSeasonNotFound), http.StatusNotFound},
		{fmt.Errorf("get match: %w", store.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: Kim", leaderboard.ErrPlayerNotFound), http.StatusNotFound},
		{errors.New("connection refused"), http.StatusBadGateway},
		{context.DeadlineExceeded, http.StatusBadGateway},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Fatalf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestWriteServiceErrorLogsStoreFailures(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/seasons", nil)

	writeServiceError(rr, req, errors.New("list seasons: server selection timeout"), logger)

	testutil.AssertStatus(t, rr, http.StatusBadGateway)
	if !bytes.Contains(buf.Bytes(), []byte("server selection timeout")) {
		t.Fatalf("expected store error to be logged, got %s", buf.String())
	}
	if bytes.Contains(rr.Body.Bytes(), []byte("server selection")) {
		t.Fatalf("expected store error detail to stay out of the response")
	}
}
