package ports

import (
	"context"

	"github.com/gitedu/docuvault/internal/core/domain"
)

// RegisterInput carries the fields of a new account registration.
type RegisterInput struct {
	Name       string
	Email      string
	Password   string
	Department string
	Role       string
}

// RegisterResult is returned after a successful registration. A session token
// is issued immediately, before email verification completes; this mirrors
// the original flow and is a deliberate, security-relevant choice.
type RegisterResult struct {
	User  *domain.User
	Token string
}

// LoginResult carries the authenticated identity summary and session token.
type LoginResult struct {
	User  *domain.User
	Token string
}

// AccountDeletionResult distinguishes full success from partial success. The
// identity deletion is irreversible; the document cascade can partially fail
// without rolling it back.
type AccountDeletionResult struct {
	IdentityDeleted   bool
	DocumentsRemoved  int
	DocumentsPartial  int
	CascadeRequested  bool
	CascadeIncomplete bool
}

// AccountService defines the account lifecycle use cases.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*RegisterResult, error)
	// VerifyEmail consumes the emailed code and marks the account verified.
	VerifyEmail(ctx context.Context, userID, code string) (*domain.User, error)
	Login(ctx context.Context, email, password, claimedRole string) (*LoginResult, error)
	// RequestPasswordChange issues a fresh code to a logged-in user.
	RequestPasswordChange(ctx context.Context, userID string) error
	// ChangePassword consumes the code and rehashes the new password.
	ChangePassword(ctx context.Context, userID, code, newPassword string) error
	// RequestPasswordReset issues a code to the account behind the email,
	// for users who cannot log in.
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, email, code, newPassword string) error
	DeleteAccount(ctx context.Context, userID string, deleteDocuments bool) (*AccountDeletionResult, error)
}
