package handlers

import (
	"net/http"

	"github.com/preston-bernstein/club-rank-service/internal/app/records"
)

type previewActivityRequest struct {
	ActivityType string `json:"activityType"`
}

// SubmitMatch stores a new pending match result.
func (h *Handler) SubmitMatch(w http.ResponseWriter, r *http.Request) {
	var in records.MatchInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	rec, err := h.records.SubmitMatch(r.Context(), r.PathValue("seasonID"), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, rec, h.logger)
}

// UpdateMatch replaces a match result and recomputes its points.
func (h *Handler) UpdateMatch(w http.ResponseWriter, r *http.Request) {
	var in records.MatchInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	rec, err := h.records.UpdateMatch(r.Context(), r.PathValue("seasonID"), r.PathValue("recordID"), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, rec, h.logger)
}

// DeleteMatch removes a match result.
func (h *Handler) DeleteMatch(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteMatch(r.Context(), r.PathValue("seasonID"), r.PathValue("recordID")); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SubmitActivity stores a new pending activity record.
func (h *Handler) SubmitActivity(w http.ResponseWriter, r *http.Request) {
	var in records.ActivityInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	rec, err := h.records.SubmitActivity(r.Context(), r.PathValue("seasonID"), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, rec, h.logger)
}

// UpdateActivity replaces an activity record and recomputes its points.
func (h *Handler) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var in records.ActivityInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	rec, err := h.records.UpdateActivity(r.Context(), r.PathValue("seasonID"), r.PathValue("recordID"), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, rec, h.logger)
}

// DeleteActivity removes an activity record.
func (h *Handler) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	if err := h.records.DeleteActivity(r.Context(), r.PathValue("seasonID"), r.PathValue("recordID")); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PreviewMatch scores a match without storing it.
func (h *Handler) PreviewMatch(w http.ResponseWriter, r *http.Request) {
	var in records.MatchInput
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	preview, err := h.records.PreviewMatch(r.Context(), r.PathValue("seasonID"), in)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, preview, h.logger)
}

// PreviewActivity scores an activity label and suggests close labels when it is unknown.
func (h *Handler) PreviewActivity(w http.ResponseWriter, r *http.Request) {
	var in previewActivityRequest
	if err := decodeBody(w, r, &in); err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	preview, err := h.records.PreviewActivity(r.Context(), r.PathValue("seasonID"), in.ActivityType)
	if err != nil {
		writeServiceError(w, r, err, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, preview, h.logger)
}
