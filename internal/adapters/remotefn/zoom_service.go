package remotefn

import (
	"context"
	"time"
)

// ZoomService wraps the remote function holding the Zoom API credentials.
type ZoomService struct {
	inv  *Invoker
	eval Evaluator
}

// NewZoomService wraps an Invoker. A nil evaluator selects the library
// implementation.
func NewZoomService(inv *Invoker, eval Evaluator) *ZoomService {
	if eval == nil {
		eval = jmespathLibEvaluator{}
	}
	return &ZoomService{inv: inv, eval: eval}
}

// CreateMeetingInput describes the meeting to schedule.
type CreateMeetingInput struct {
	Topic    string    `json:"topic"`
	StartsAt time.Time `json:"starts_at"`
	Duration int       `json:"duration_minutes"`
}

// Meeting is the subset of the Zoom response the application uses.
type Meeting struct {
	ID      string
	JoinURL string
}

// CreateMeeting schedules a Zoom meeting through the remote function.
func (s *ZoomService) CreateMeeting(ctx context.Context, in CreateMeetingInput) (Meeting, error) {
	raw, err := s.inv.Invoke(ctx, "zoom/meetings", in)
	if err != nil {
		return Meeting{}, err
	}

	id, err := extractString(s.eval, raw, "meeting.id")
	if err != nil {
		return Meeting{}, err
	}
	joinURL, err := extractString(s.eval, raw, "meeting.join_url")
	if err != nil {
		return Meeting{}, err
	}
	return Meeting{ID: id, JoinURL: joinURL}, nil
}

// DeleteMeeting cancels a meeting by id.
func (s *ZoomService) DeleteMeeting(ctx context.Context, id string) error {
	_, err := s.inv.Invoke(ctx, "zoom/meetings/delete", map[string]string{"id": id})
	return err
}
