package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a chat message inside an appointment's thread. Delivery is plain
// REST; there is no push transport.
type Message struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	AppointmentID uuid.UUID `json:"appointment_id" gorm:"type:uuid;not null;index"`
	SenderID      int64     `json:"sender_id" gorm:"not null"`
	Body          string    `json:"body" gorm:"type:text"`
	CreatedAt     time.Time `json:"created_at"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
