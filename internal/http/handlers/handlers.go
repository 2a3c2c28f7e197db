package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/preston-bernstein/club-rank-service/internal/app/leaderboard"
	"github.com/preston-bernstein/club-rank-service/internal/app/records"
	"github.com/preston-bernstein/club-rank-service/internal/domain/points"
	"github.com/preston-bernstein/club-rank-service/internal/logging"
)

// SeasonReader is the read side of the seasons service.
type SeasonReader interface {
	List(ctx context.Context) ([]points.Season, error)
	Get(ctx context.Context, id string) (points.Season, error)
}

// LeaderboardReader builds rankings.
type LeaderboardReader interface {
	Build(ctx context.Context, seasonID string) (points.LeaderboardResponse, error)
	Player(ctx context.Context, seasonID, name string) (leaderboard.PlayerStanding, error)
}

// RecordService is the member-facing record write path.
type RecordService interface {
	SubmitMatch(ctx context.Context, seasonID string, in records.MatchInput) (points.MatchRecord, error)
	UpdateMatch(ctx context.Context, seasonID, id string, in records.MatchInput) (points.MatchRecord, error)
	DeleteMatch(ctx context.Context, seasonID, id string) error
	SubmitActivity(ctx context.Context, seasonID string, in records.ActivityInput) (points.ActivityRecord, error)
	UpdateActivity(ctx context.Context, seasonID, id string, in records.ActivityInput) (points.ActivityRecord, error)
	DeleteActivity(ctx context.Context, seasonID, id string) error
	PreviewMatch(ctx context.Context, seasonID string, in records.MatchInput) (records.MatchPreview, error)
	PreviewActivity(ctx context.Context, seasonID, label string) (records.ActivityPreview, error)
	RecentForPlayer(ctx context.Context, seasonID, playerUID string, limit int) (records.PlayerRecords, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler wires public HTTP routes to the services.
type Handler struct {
	seasons     SeasonReader
	leaderboard LeaderboardReader
	records     RecordService
	pinger      Pinger
	logger      *slog.Logger
}

// NewHandler constructs a Handler. A nil pinger makes /ready always succeed.
func NewHandler(seasons SeasonReader, board LeaderboardReader, recs RecordService, pinger Pinger, logger *slog.Logger) *Handler {
	return &Handler{
		seasons:     seasons,
		leaderboard: board,
		records:     recs,
		pinger:      pinger,
		logger:      logger,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic: the store must answer a ping.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.pinger == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	if err := h.pinger.Ping(r.Context()); err != nil {
		logging.Warn(loggerFromContext(r, h.logger), "readiness check failed", "err", err)
		writeError(w, r, http.StatusServiceUnavailable, "store unavailable", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
}

// ListSeasons returns every season.
func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	list, err := h.seasons.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"seasons": list}, h.logger)
}

// GetSeason returns one season; "active" resolves to the active or fallback season.
func (h *Handler) GetSeason(w http.ResponseWriter, r *http.Request) {
	season, err := h.seasons.Get(r.Context(), r.PathValue("seasonID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, season, h.logger)
}

// Leaderboard returns the ranked rows for a season.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	resp, err := h.leaderboard.Build(r.Context(), r.PathValue("seasonID"))
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, resp, h.logger)
}

// PlayerStanding returns one player's row and the adjustments behind it.
func (h *Handler) PlayerStanding(w http.ResponseWriter, r *http.Request) {
	player := strings.TrimSpace(r.PathValue("player"))
	if player == "" {
		writeError(w, r, http.StatusBadRequest, "player is required", h.logger)
		return
	}
	standing, err := h.leaderboard.Player(r.Context(), r.PathValue("seasonID"), player)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, standing, h.logger)
}

// PlayerRecords returns a player's most recent matches and activities.
func (h *Handler) PlayerRecords(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, r, http.StatusBadRequest, "limit must be a positive integer", h.logger)
			return
		}
		limit = n
	}
	recs, err := h.records.RecentForPlayer(r.Context(), r.PathValue("seasonID"), r.PathValue("playerUID"), limit)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, recs, h.logger)
}
