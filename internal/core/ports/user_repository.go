package ports

import (
	"context"

	"github.com/gitedu/docuvault/internal/core/domain"
)

// UserRepository defines persistence operations for user accounts.
//
// The storage layer must enforce uniqueness on both name and email; the
// service-level duplicate checks exist only to produce friendly errors and
// are racy under concurrent registration.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByName(ctx context.Context, name string) (*domain.User, error)
	// SetVerified flips the verification flag on the account.
	SetVerified(ctx context.Context, id string) error
	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id string, passwordHash string) error
	Delete(ctx context.Context, id string) error
}
