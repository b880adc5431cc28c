package adapters

import (
	"time"

	"declutter_backend/internal/feature/auth/domain/entity"
)

// SessionModel is the sessions table row.
// ID is the refresh token, so the primary key lookup is the only read path for it.
type SessionModel struct {
	ID        string     `gorm:"primaryKey;size:64"`
	UserID    string     `gorm:"size:36;index;not null"`
	UserAgent string     `gorm:"size:512"`
	IPAddress string     `gorm:"size:45"` // IPv6 max length
	CreatedAt time.Time  `gorm:"not null"`
	ExpiresAt time.Time  `gorm:"index;not null"`
	RevokedAt *time.Time `gorm:"index"`
}

// TableName returns the table name for GORM.
func (SessionModel) TableName() string {
	return "sessions"
}

// ToEntity converts the row to a domain session.
func (m *SessionModel) ToEntity() *entity.Session {
	s := entity.Session(*m)
	return &s
}

// SessionModelFromEntity converts a domain session to a row.
func SessionModelFromEntity(s *entity.Session) *SessionModel {
	m := SessionModel(*s)
	return &m
}
