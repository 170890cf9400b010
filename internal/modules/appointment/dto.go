package appointment

import (
	"telecounsel/internal/domain"
)

type CreateAppointmentRequest struct {
	CounselorID int64  `json:"counselor_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // 2006-01-02
	Time        string `json:"time" binding:"required"` // free-text slot label, e.g. "14:00"
	SessionType string `json:"session_type" binding:"required,oneof=video chat email"`
	Notes       string `json:"notes"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type UpdateNotesRequest struct {
	SessionNotes string `json:"session_notes" binding:"required"`
}

type FeedbackRequest struct {
	Rating   int    `json:"rating" binding:"required,min=1,max=5"`
	Feedback string `json:"feedback"`
}

// PartyView carries the counterpart's display fields joined into a listing.
type PartyView struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Specialization string `json:"specialization,omitempty"`
	AvatarURL      string `json:"avatar_url,omitempty"`
}

type AppointmentView struct {
	domain.Appointment
	Counselor *PartyView `json:"counselor,omitempty"`
	Client    *PartyView `json:"client,omitempty"`
}

// MeetingResult reports which path produced the link so callers do not have
// to infer the provider from the URL.
type MeetingResult struct {
	MeetingLink string                   `json:"meeting_link"`
	MeetingID   string                   `json:"meeting_id"`
	StartURL    string                   `json:"start_url,omitempty"`
	Provider    string                   `json:"provider"`
	Status      domain.AppointmentStatus `json:"status"`
}
