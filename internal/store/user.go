package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/tasknest/tasknest-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// The user must already carry a hashed password; plaintext is never stored.
	// Returns ErrEmailExists if the email is already taken and
	// ErrUsernameExists if the username is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (exact match on the
	// lowercase-normalized form). Returns ErrUserNotFound if no user matches.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
