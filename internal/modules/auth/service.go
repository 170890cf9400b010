package auth

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"telecounsel/internal/domain"
	"telecounsel/internal/repository"
)

// Service contains all business logic for authentication
type Service struct {
	users UserRepository
	jwt   jwtService
}

type LoginResult struct {
	User        *domain.User
	AccessToken string
}

func NewService(users UserRepository, jwt jwtService) *Service {
	return &Service{users: users, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, error) {
	role := domain.UserRole(req.Role)
	if role != domain.RoleClient && role != domain.RoleCounselor {
		return nil, ErrValidation
	}
	if role == domain.RoleCounselor && (req.Specialization == "" || req.HourlyRate <= 0) {
		return nil, ErrValidation
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hashed),
		Name:         req.Name,
		Role:         role,
	}
	if role == domain.RoleCounselor {
		user.Specialization = req.Specialization
		user.HourlyRate = req.HourlyRate
		user.Bio = req.Bio
	}

	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return &LoginResult{User: user, AccessToken: token}, nil
}

// UpdateMe applies partial profile edits. Counselor-only fields require the
// counselor role; a new hourly rate only affects future bookings since the
// amount is snapshotted at creation.
func (s *Service) UpdateMe(ctx context.Context, userID int64, req UpdateProfileRequest) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		if *req.Name == "" {
			return nil, ErrValidation
		}
		updates["name"] = *req.Name
	}
	if req.AvatarURL != nil {
		updates["avatar_url"] = *req.AvatarURL
	}

	if req.Specialization != nil || req.HourlyRate != nil || req.Bio != nil {
		if user.Role != domain.RoleCounselor {
			return nil, ErrValidation
		}
		if req.Specialization != nil {
			if *req.Specialization == "" {
				return nil, ErrValidation
			}
			updates["specialization"] = *req.Specialization
		}
		if req.HourlyRate != nil {
			if *req.HourlyRate <= 0 {
				return nil, ErrValidation
			}
			updates["hourly_rate"] = *req.HourlyRate
		}
		if req.Bio != nil {
			updates["bio"] = *req.Bio
		}
	}

	if len(updates) > 0 {
		if err := s.users.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, err
		}
	}

	return s.Me(ctx, userID)
}

func (s *Service) Me(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}
