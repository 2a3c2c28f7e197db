package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/club-rank-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. Admin routes are mounted only when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /ready", handler.Ready)

	mux.HandleFunc("GET /seasons", handler.ListSeasons)
	mux.HandleFunc("GET /seasons/{seasonID}", handler.GetSeason)
	mux.HandleFunc("GET /seasons/{seasonID}/leaderboard", handler.Leaderboard)
	mux.HandleFunc("GET /seasons/{seasonID}/leaderboard/{player}", handler.PlayerStanding)
	mux.HandleFunc("GET /seasons/{seasonID}/players/{playerUID}/records", handler.PlayerRecords)

	mux.HandleFunc("POST /seasons/{seasonID}/matches", handler.SubmitMatch)
	mux.HandleFunc("PUT /seasons/{seasonID}/matches/{recordID}", handler.UpdateMatch)
	mux.HandleFunc("DELETE /seasons/{seasonID}/matches/{recordID}", handler.DeleteMatch)
	mux.HandleFunc("POST /seasons/{seasonID}/activities", handler.SubmitActivity)
	mux.HandleFunc("PUT /seasons/{seasonID}/activities/{recordID}", handler.UpdateActivity)
	mux.HandleFunc("DELETE /seasons/{seasonID}/activities/{recordID}", handler.DeleteActivity)
	mux.HandleFunc("POST /seasons/{seasonID}/preview/match", handler.PreviewMatch)
	mux.HandleFunc("POST /seasons/{seasonID}/preview/activity", handler.PreviewActivity)

	if admin != nil {
		mux.HandleFunc("POST /seasons/{seasonID}/adjustments", admin.Guard(admin.AddAdjustment))
		mux.HandleFunc("PUT /admin/seasons/{seasonID}", admin.Guard(admin.SaveSeason))
		mux.HandleFunc("POST /admin/seasons/{seasonID}/activate", admin.Guard(admin.ActivateSeason))
		mux.HandleFunc("POST /admin/seasons/{seasonID}/{kind}/{recordID}/confirm", admin.Guard(admin.ConfirmRecord))
	}
	return mux
}
