package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	// Create creates a new user, returning ErrEmailTaken on a duplicate email
	Create(ctx context.Context, user *User) error

	// GetByID retrieves a user by ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByEmail retrieves a user by email
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// SessionRepository defines the interface for login session storage
type SessionRepository interface {
	// Create stores a new session
	Create(ctx context.Context, session *Session) error

	// GetByID retrieves a session, returning ErrSessionNotFound when absent
	GetByID(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteExpired removes every session that expired before now
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
