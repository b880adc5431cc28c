// Package entity defines the domain entities for the auth feature.
package entity

import (
	"strings"
	"time"
)

// User represents a registered user in the system.
// It contains authentication credentials and metadata for user management.
type User struct {
	// ID is an opaque, stable identifier (UUID string).
	ID string `gorm:"primaryKey;size:36"`

	// Username is the login name. Signup uses the email address.
	Username           string `gorm:"size:256;not null"`
	NormalizedUsername string `gorm:"size:256;uniqueIndex;not null"`

	// Email is the user's email address used for authentication.
	// NormalizedEmail carries the uniqueness constraint.
	Email           string `gorm:"size:256;not null"`
	NormalizedEmail string `gorm:"size:256;uniqueIndex;not null"`
	EmailConfirmed  bool   `gorm:"not null;default:false"`

	// PasswordHash is the bcrypt hash. Plaintext passwords are never stored.
	PasswordHash string `gorm:"size:255;not null"`

	// SecurityStamp changes whenever credentials change.
	SecurityStamp    string `gorm:"size:36"`
	ConcurrencyStamp string `gorm:"size:36"`

	PhoneNumber          string `gorm:"size:32"`
	PhoneNumberConfirmed bool   `gorm:"not null;default:false"`
	TwoFactorEnabled     bool   `gorm:"not null;default:false"`

	LockoutEnd        *time.Time
	LockoutEnabled    bool `gorm:"not null;default:true"`
	AccessFailedCount int  `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"not null"`

	FirstName      *string `gorm:"size:100"`
	LastName       *string `gorm:"size:100"`
	ProfilePicture []byte
}

// TableName returns the table name for GORM.
func (User) TableName() string {
	return "users"
}

// Normalize はユーザー名・メールアドレスの検索用の正規化値を返します。
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsLockedOut reports whether the account is locked at the given time.
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnabled && u.LockoutEnd != nil && u.LockoutEnd.After(now)
}
