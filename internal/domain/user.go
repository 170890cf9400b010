package domain

import "time"

type UserRole string

const (
	RoleClient    UserRole = "client"
	RoleCounselor UserRole = "counselor"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"type:varchar(16);not null;index"`
	Name         string    `json:"name"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Counselor-only fields, zero-valued for clients.
	Specialization string  `json:"specialization,omitempty" gorm:"index"`
	HourlyRate     float64 `json:"hourly_rate,omitempty"`
	Bio            string  `json:"bio,omitempty" gorm:"type:text"`
}

func (User) TableName() string { return "users" }
