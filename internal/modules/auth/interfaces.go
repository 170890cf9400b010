package auth

import (
	"context"

	"telecounsel/internal/domain"
)

// UserRepository defines the storage operations needed by the auth service
type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, updates map[string]any) error
}

type jwtService interface {
	GenerateToken(userID int64, role string) (string, error)
}
