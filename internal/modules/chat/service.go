package chat

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"telecounsel/internal/domain"
)

type AppointmentRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error)
}

type MessageRepository interface {
	Create(ctx context.Context, m *domain.Message) error
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]domain.Message, error)
}

// Service persists per-appointment chat threads. Messages travel over plain
// REST; there is no push delivery.
type Service struct {
	appointments AppointmentRepository
	messages     MessageRepository
}

func NewService(appointments AppointmentRepository, messages MessageRepository) *Service {
	return &Service{appointments: appointments, messages: messages}
}

func (s *Service) Send(ctx context.Context, appointmentID uuid.UUID, senderID int64, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyBody
	}

	a, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !a.IsParty(senderID) {
		return nil, ErrForbidden
	}

	m := &domain.Message{
		AppointmentID: a.ID,
		SenderID:      senderID,
		Body:          body,
	}
	if err := s.messages.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// List returns the thread oldest-first.
func (s *Service) List(ctx context.Context, appointmentID uuid.UUID, userID int64) ([]domain.Message, error) {
	a, err := s.getAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !a.IsParty(userID) {
		return nil, ErrForbidden
	}

	return s.messages.ListByAppointment(ctx, a.ID)
}

func (s *Service) getAppointment(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	a, err := s.appointments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppointmentNotFound
		}
		return nil, err
	}
	return a, nil
}
