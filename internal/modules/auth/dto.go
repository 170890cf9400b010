package auth

type RegisterRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required,min=8"`
	Name     string `json:"name" binding:"required" validate:"required"`
	Role     string `json:"role" binding:"required" validate:"required,oneof=client counselor"`

	// Counselor registration only.
	Specialization string  `json:"specialization,omitempty"`
	HourlyRate     float64 `json:"hourly_rate,omitempty" validate:"gte=0"`
	Bio            string  `json:"bio,omitempty"`
}

// UpdateProfileRequest carries partial profile edits; nil fields are left
// untouched. The counselor-only fields are rejected for clients.
type UpdateProfileRequest struct {
	Name           *string  `json:"name,omitempty"`
	AvatarURL      *string  `json:"avatar_url,omitempty"`
	Specialization *string  `json:"specialization,omitempty"`
	HourlyRate     *float64 `json:"hourly_rate,omitempty"`
	Bio            *string  `json:"bio,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
