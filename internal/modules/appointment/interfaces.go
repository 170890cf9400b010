package appointment

import (
	"context"

	"github.com/google/uuid"

	"telecounsel/internal/domain"
	"telecounsel/internal/meeting"
)

// AppointmentRepository defines the storage operations for appointments
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
	ListByClient(ctx context.Context, clientID int64) ([]domain.Appointment, error)
	ListByCounselor(ctx context.Context, counselorID int64) ([]domain.Appointment, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByIDs(ctx context.Context, ids []int64) (map[int64]domain.User, error)
}

// MeetingProvider is the external conferencing integration.
type MeetingProvider interface {
	Enabled() bool
	CreateMeeting(ctx context.Context, topic string, durationMinutes int) (meeting.Meeting, error)
}
