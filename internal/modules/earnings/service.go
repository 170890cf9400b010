package earnings

import (
	"context"
	"time"

	"telecounsel/internal/repository"
)

type AppointmentRepository interface {
	GetEarningsSummary(ctx context.Context, counselorID int64, monthStart time.Time) (*repository.EarningsSummary, error)
}

// Service derives a counselor's earnings from appointment amount snapshots.
type Service struct {
	appointments AppointmentRepository
	now          func() time.Time
}

func NewService(appointments AppointmentRepository) *Service {
	return &Service{appointments: appointments, now: time.Now}
}

func (s *Service) Summary(ctx context.Context, counselorID int64) (*repository.EarningsSummary, error) {
	now := s.now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return s.appointments.GetEarningsSummary(ctx, counselorID, monthStart)
}
