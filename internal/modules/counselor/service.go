package counselor

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"telecounsel/internal/domain"
)

var ErrNotFound = errors.New("counselor not found")

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	ListCounselors(ctx context.Context, specialization string) ([]domain.User, error)
}

type RatingRepository interface {
	GetAverageRating(ctx context.Context, counselorID int64) (float64, int64, error)
}

type Service struct {
	users   UserRepository
	ratings RatingRepository
}

func NewService(users UserRepository, ratings RatingRepository) *Service {
	return &Service{users: users, ratings: ratings}
}

func (s *Service) List(ctx context.Context, specialization string) ([]CounselorView, error) {
	counselors, err := s.users.ListCounselors(ctx, specialization)
	if err != nil {
		return nil, err
	}

	out := make([]CounselorView, 0, len(counselors))
	for _, u := range counselors {
		view := toView(u)
		if avg, cnt, err := s.ratings.GetAverageRating(ctx, u.ID); err == nil {
			view.AverageRating = avg
			view.RatingCount = cnt
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*CounselorView, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if u.Role != domain.RoleCounselor {
		return nil, ErrNotFound
	}

	view := toView(*u)
	if avg, cnt, err := s.ratings.GetAverageRating(ctx, u.ID); err == nil {
		view.AverageRating = avg
		view.RatingCount = cnt
	}
	return &view, nil
}

func toView(u domain.User) CounselorView {
	return CounselorView{
		ID:             u.ID,
		Name:           u.Name,
		Specialization: u.Specialization,
		HourlyRate:     u.HourlyRate,
		AvatarURL:      u.AvatarURL,
		Bio:            u.Bio,
	}
}
