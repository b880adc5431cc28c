package usecase

import (
	"context"

	"declutter_backend/internal/feature/auth/domain/entity"
)

// SessionRepository abstracts refresh-token session storage.
// Two implementations exist: the sessions table and Redis.
type SessionRepository interface {
	// Create stores a new session.
	Create(ctx context.Context, session *entity.Session) error

	// FindByID looks a session up by its refresh token.
	// Returns ErrSessionNotFound if absent.
	FindByID(ctx context.Context, id string) (*entity.Session, error)

	// FindByUserID returns the user's active sessions, oldest first.
	FindByUserID(ctx context.Context, userID string) ([]*entity.Session, error)

	// Revoke sets RevokedAt on one session.
	Revoke(ctx context.Context, id string) error

	// RevokeAllByUserID revokes every session of the user.
	RevokeAllByUserID(ctx context.Context, userID string) error

	// DeleteExpired purges expired sessions and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)

	// CountByUserID counts active sessions.
	CountByUserID(ctx context.Context, userID string) (int64, error)

	// DeleteOldestByUserID removes the user's oldest active session.
	DeleteOldestByUserID(ctx context.Context, userID string) error
}
