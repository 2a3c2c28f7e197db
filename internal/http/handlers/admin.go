package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/club-rank-service/internal/app/records"
	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/http/requestutil"
	"github.com/preston-bernstein/club-rank-service/internal/logging"
)

// SeasonAdmin is the write side of the seasons service.
type SeasonAdmin interface {
	Save(ctx context.Context, season points.Season) (points.Season, error)
	Activate(ctx context.Context, id string) (points.Season, error)
}

// RecordAdmin covers record operations reserved for administrators.
type RecordAdmin interface {
	AddAdjustment(ctx context.Context, seasonID string, in records.AdjustmentInput) (points.Adjustment, error)
	Confirm(ctx context.Context, seasonID string, kind records.Kind, id string) (any, error)
}

// AdminHandler exposes admin-only endpoints guarded by a bearer token.
type AdminHandler struct {
	seasons SeasonAdmin
	records RecordAdmin
	token   string
	logger  *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. With an empty token every request is rejected.
func NewAdminHandler(seasons SeasonAdmin, recs RecordAdmin, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		seasons: seasons,
		records: recs,
		token:   token,
		logger:  logger,
	}
}

// Guard rejects requests without a valid bearer token with 401.
func (h *AdminHandler) Guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !h.authorize(r) {
			logging.Warn(loggerFromContext(r, h.logger), "admin unauthorized",
				slog.String(logging.FieldPath, r.URL.Path),
				slog.String("client_ip", requestutil.ClientIP(r)),
			)
			writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
			return
		}
		next(w, r)
	}
}

// SaveSeason creates or replaces the season named in the path.
func (h *AdminHandler) SaveSeason(w http.ResponseWriter, r *http.Request) {
	var season points.Season
	if err := decodeBody(w, r, &season); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	pathID := strings.TrimSpace(r.PathValue("seasonID"))
	if body := strings.TrimSpace(season.ID); body != "" && body != pathID {
		writeError(w, r, http.StatusBadRequest, "season id in body does not match path", h.logger)
		return
	}
	season.ID = pathID

	saved, err := h.seasons.Save(r.Context(), season)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, saved, h.logger)
}

// ActivateSeason flags the season as the single active one.
func (h *AdminHandler) ActivateSeason(w http.ResponseWriter, r *http.Request) {
	season, err := h.seasons.Activate(r.Context(), r.PathValue("seasonID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, season, h.logger)
}

// AddAdjustment stores a manual bonus or penalty.
func (h *AdminHandler) AddAdjustment(w http.ResponseWriter, r *http.Request) {
	var in records.AdjustmentInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	adj, err := h.records.AddAdjustment(r.Context(), r.PathValue("seasonID"), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, adj, h.logger)
}

// ConfirmRecord marks a match or activity record as confirmed.
func (h *AdminHandler) ConfirmRecord(w http.ResponseWriter, r *http.Request) {
	kind, err := records.ParseKind(r.PathValue("kind"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	rec, err := h.records.Confirm(r.Context(), r.PathValue("seasonID"), kind, r.PathValue("recordID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, rec, h.logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := requestutil.BearerToken(r)
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
