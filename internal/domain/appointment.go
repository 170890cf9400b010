package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentStatus string

const (
	AppointmentScheduled  AppointmentStatus = "scheduled"
	AppointmentConfirmed  AppointmentStatus = "confirmed"
	AppointmentInProgress AppointmentStatus = "in-progress"
	AppointmentCompleted  AppointmentStatus = "completed"
	AppointmentCancelled  AppointmentStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

type SessionType string

const (
	SessionVideo SessionType = "video"
	SessionChat  SessionType = "chat"
	SessionEmail SessionType = "email"
)

const DefaultSessionDuration = 50 // minutes

type Appointment struct {
	ID          uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	ClientID    int64             `json:"client_id" gorm:"not null;index" validate:"required"`
	CounselorID int64             `json:"counselor_id" gorm:"not null;index" validate:"required"`
	Date        time.Time         `json:"date" validate:"required"`
	Time        string            `json:"time" validate:"required"`
	Duration    int               `json:"duration"`
	SessionType SessionType       `json:"session_type" gorm:"type:varchar(16)"`
	Status      AppointmentStatus `json:"status" gorm:"type:varchar(16);index"`

	// Amount is a snapshot of the counselor's hourly rate taken at booking
	// time. It is never recalculated.
	Amount        float64       `json:"amount"`
	PaymentStatus PaymentStatus `json:"payment_status" gorm:"type:varchar(16)"`

	Notes        string `json:"notes,omitempty" gorm:"type:text"`
	SessionNotes string `json:"session_notes,omitempty" gorm:"type:text"`
	Rating       *int   `json:"rating,omitempty"`
	Feedback     string `json:"feedback,omitempty" gorm:"type:text"`

	MeetingLink      string     `json:"meeting_link,omitempty"`
	MeetingID        string     `json:"meeting_id,omitempty"`
	StartURL         string     `json:"start_url,omitempty"`
	SessionStartTime *time.Time `json:"session_start_time,omitempty"`
	SessionEndTime   *time.Time `json:"session_end_time,omitempty"`
	SessionDuration  int        `json:"session_duration,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Appointment) TableName() string { return "appointments" }

func (a *Appointment) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// allowedTransitions is the status edge table. The terminal states completed
// and cancelled have no outgoing edges.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentScheduled:  {AppointmentConfirmed, AppointmentInProgress, AppointmentCancelled},
	AppointmentConfirmed:  {AppointmentInProgress, AppointmentCancelled},
	AppointmentInProgress: {AppointmentCompleted, AppointmentCancelled},
}

func ValidStatus(s AppointmentStatus) bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentInProgress,
		AppointmentCompleted, AppointmentCancelled:
		return true
	}
	return false
}

// CanTransition reports whether moving from one status to the next is an
// allowed edge.
func CanTransition(from, to AppointmentStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsParty reports whether the user is the bound client or counselor.
func (a *Appointment) IsParty(userID int64) bool {
	return a.ClientID == userID || a.CounselorID == userID
}
