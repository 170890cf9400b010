package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"telecounsel/internal/domain"
)

type AppointmentRepository struct {
	db *gorm.DB
}

func NewAppointmentRepository(db *gorm.DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AppointmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Appointment, error) {
	var a domain.Appointment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AppointmentRepository) ListByClient(ctx context.Context, clientID int64) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

func (r *AppointmentRepository) ListByCounselor(ctx context.Context, counselorID int64) ([]domain.Appointment, error) {
	var out []domain.Appointment
	err := r.db.WithContext(ctx).
		Where("counselor_id = ?", counselorID).
		Order("date DESC").
		Find(&out).Error
	return out, err
}

// Update writes only the given columns. UpdatedAt is maintained by gorm.
func (r *AppointmentRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&domain.Appointment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// EarningsSummary aggregates a counselor's appointments by payment and
// lifecycle status. Amounts are the booking-time snapshots.
type EarningsSummary struct {
	TotalPaid     float64          `json:"total_paid"`
	PendingAmount float64          `json:"pending_amount"`
	MonthPaid     float64          `json:"month_paid"`
	StatusCounts  map[string]int64 `json:"status_counts"`
}

func (r *AppointmentRepository) GetEarningsSummary(ctx context.Context, counselorID int64, monthStart time.Time) (*EarningsSummary, error) {
	summary := &EarningsSummary{StatusCounts: make(map[string]int64)}

	type sumRow struct {
		Total float64
	}

	var paid sumRow
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(amount), 0) AS total
FROM appointments
WHERE counselor_id = ? AND payment_status = 'paid'
`, counselorID).Scan(&paid).Error
	if err != nil {
		return nil, err
	}
	summary.TotalPaid = paid.Total

	var pending sumRow
	err = r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(amount), 0) AS total
FROM appointments
WHERE counselor_id = ? AND payment_status = 'pending' AND status NOT IN ('cancelled')
`, counselorID).Scan(&pending).Error
	if err != nil {
		return nil, err
	}
	summary.PendingAmount = pending.Total

	var month sumRow
	err = r.db.WithContext(ctx).Raw(`
SELECT COALESCE(SUM(amount), 0) AS total
FROM appointments
WHERE counselor_id = ? AND payment_status = 'paid' AND created_at >= ?
`, counselorID, monthStart).Scan(&month).Error
	if err != nil {
		return nil, err
	}
	summary.MonthPaid = month.Total

	type countRow struct {
		Status string
		Cnt    int64
	}
	var counts []countRow
	err = r.db.WithContext(ctx).Raw(`
SELECT status, COUNT(1) AS cnt
FROM appointments
WHERE counselor_id = ?
GROUP BY status
`, counselorID).Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, row := range counts {
		summary.StatusCounts[row.Status] = row.Cnt
	}

	return summary, nil
}

// GetAverageRating returns the mean client rating over rated appointments and
// the number of ratings.
func (r *AppointmentRepository) GetAverageRating(ctx context.Context, counselorID int64) (float64, int64, error) {
	type ratingRow struct {
		Avg float64
		Cnt int64
	}
	var row ratingRow
	err := r.db.WithContext(ctx).Raw(`
SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(rating) AS cnt
FROM appointments
WHERE counselor_id = ? AND rating IS NOT NULL
`, counselorID).Scan(&row).Error
	if err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Cnt, nil
}
