// Package store persists user records. The interface is the narrow contract
// the account service depends on; SQLite provides the production implementation.
package store

import (
	"context"
	"errors"

	"github.com/avelez/accountd/internal/models"
)

var (
	// ErrNotFound means no record matched the given email.
	ErrNotFound = errors.New("user not found")
	// ErrEmailExists means an insert hit the unique email constraint.
	ErrEmailExists = errors.New("email already exists")
)

// UserStore is the persistence contract for user records. Email uniqueness is
// enforced here; a duplicate-registration race is settled by the second insert
// failing with ErrEmailExists, never by in-process locking.
type UserStore interface {
	InsertUser(ctx context.Context, name, email, passwordHash string) error
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	UpdatePasswordHash(ctx context.Context, email, newHash string) error
	DeleteUser(ctx context.Context, email string) error
	ListUsers(ctx context.Context) ([]models.User, error)
}
