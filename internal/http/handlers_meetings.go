package httpx

import (
	"errors"
	"net/http"
	"time"

	"github.com/hearthkeep/hearth/internal/adapters/remotefn"
)

// MeetingHandlers schedules and cancels video meetings through the remote
// secret-bearing function. The Zoom credential never reaches this process;
// calls forward the caller's own session so the remote side applies its own
// row-level authorization.
type MeetingHandlers struct {
	Remote remotefn.Config
}

type createMeetingRequest struct {
	Topic    string    `json:"topic"`
	StartsAt time.Time `json:"starts_at"`
	Duration int       `json:"duration_minutes"`
}

func (h *MeetingHandlers) zoomForRequest(w http.ResponseWriter, r *http.Request) (*remotefn.ZoomService, bool) {
	sessionID := cookieValue(r, SessionCookieName)
	inv, err := remotefn.NewForUser(h.Remote, sessionID)
	if err != nil {
		// The gate has already resolved this session, so a construction
		// failure here means misconfiguration, not a bad caller.
		RenderError(w, err)
		return nil, false
	}
	return remotefn.NewZoomService(inv, nil), true
}

// Create schedules a meeting.
// POST /api/meetings.
func (h *MeetingHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if req.Topic == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_failed",
			Err:     errors.New("topic is required and cannot be empty"),
		})
		return
	}
	if req.StartsAt.IsZero() {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_failed",
			Err:     errors.New("starts_at is required and cannot be empty"),
		})
		return
	}

	zoom, ok := h.zoomForRequest(w, r)
	if !ok {
		return
	}
	meeting, err := zoom.CreateMeeting(r.Context(), remotefn.CreateMeetingInput{
		Topic:    req.Topic,
		StartsAt: req.StartsAt,
		Duration: req.Duration,
	})
	if err != nil {
		RenderError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, map[string]string{
		"id":       meeting.ID,
		"join_url": meeting.JoinURL,
	})
}

// Delete cancels a meeting by id.
// DELETE /api/meetings/{id}.
func (h *MeetingHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation_failed",
			Err:     errors.New("id is required and cannot be empty"),
		})
		return
	}

	zoom, ok := h.zoomForRequest(w, r)
	if !ok {
		return
	}
	if err := zoom.DeleteMeeting(r.Context(), id); err != nil {
		RenderError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
