package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/club-rank-service/internal/app/leaderboard"
	"github.com/preston-bernstein/club-rank-service/internal/app/records"
	"github.com/preston-bernstein/club-rank-service/internal/app/seasons"
	"github.com/preston-bernstein/club-rank-service/internal/http/middleware"
	"github.com/preston-bernstein/club-rank-service/internal/logging"
	"github.com/preston-bernstein/club-rank-service/internal/scoring"
	"github.com/preston-bernstein/club-rank-service/internal/store"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", "err", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeServiceError maps service errors onto status codes. Store failures are logged and
// reported without their detail.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	logger = loggerFromContext(r, logger)
	status := statusFor(err)
	if status == http.StatusBadGateway {
		logging.Warn(logger, "request failed", "err", err)
		writeError(w, r, status, "store unavailable", logger)
		return
	}
	writeError(w, r, status, err.Error(), logger)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, records.ErrInvalidInput), errors.Is(err, seasons.ErrInvalidSeason):
		return http.StatusBadRequest
	case errors.Is(err, scoring.ErrSeasonNotFound),
		errors.Is(err, store.ErrNotFound),
		errors.Is(err, leaderboard.ErrPlayerNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

// decodeBody reads a single JSON object from the request body.
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", records.ErrInvalidInput)
		}
		return fmt.Errorf("%w: malformed JSON body", records.ErrInvalidInput)
	}
	return nil
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
