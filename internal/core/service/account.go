package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/gitedu/docuvault/internal/core/domain"
	"github.com/gitedu/docuvault/internal/core/ports"
)

// AccountService implements the account lifecycle: registration, email
// verification, login, password flows, and deletion with document cascade.
type AccountService struct {
	users         ports.UserRepository
	tokens        ports.TokenService
	codes         ports.VerificationStore
	documents     ports.DocumentService
	mail          ports.NotificationEnqueuer
	allowedDomain string
	logger        zerolog.Logger
}

func NewAccountService(
	users ports.UserRepository,
	tokens ports.TokenService,
	codes ports.VerificationStore,
	documents ports.DocumentService,
	mail ports.NotificationEnqueuer,
	allowedDomain string,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		users:         users,
		tokens:        tokens,
		codes:         codes,
		documents:     documents,
		mail:          mail,
		allowedDomain: allowedDomain,
		logger:        logger,
	}
}

// Register creates an account, issues a verification code, and grants a
// session immediately. Students are verified automatically; everyone else has
// to consume the emailed code first.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*ports.RegisterResult, error) {
	if input.Name == "" || input.Email == "" || input.Password == "" || input.Department == "" || input.Role == "" {
		return nil, domain.ErrMissingParameters
	}
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrMissingParameters
	}
	if !strings.HasSuffix(input.Email, s.allowedDomain) {
		return nil, domain.ErrInvalidEmailDomain
	}

	// Friendly pre-checks; the unique indexes are the real guard.
	if _, err := s.users.FindByName(ctx, input.Name); err == nil {
		return nil, domain.ErrNameExists
	}
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
		Department:   input.Department,
		IsVerified:   input.Role == domain.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.issueCode(ctx, created, "Verify your email account", "account verification"); err != nil {
		// The account exists; the user can request a fresh code later.
		s.logger.Error().Err(err).Str("user", created.Name).Msg("verification code issue failed")
	}

	token, err := s.tokens.Issue(created.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", created.Name).Str("role", created.Role).Bool("verified", created.IsVerified).Msg("account created")

	return &ports.RegisterResult{User: created, Token: token}, nil
}

// VerifyEmail consumes the code and flips the verification flag.
func (s *AccountService) VerifyEmail(ctx context.Context, userID, code string) (*domain.User, error) {
	if userID == "" || code == "" {
		return nil, domain.ErrMissingParameters
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, domain.ErrAlreadyVerified
	}

	if err := s.codes.Consume(ctx, user.ID, code); err != nil {
		return nil, err
	}
	if err := s.users.SetVerified(ctx, user.ID); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", user.Name).Msg("email verified")
	user.IsVerified = true
	return user, nil
}

// Login authenticates the credentials, checks the claimed role against the
// stored one, and requires a verified account before issuing a session.
func (s *AccountService) Login(ctx context.Context, email, password, claimedRole string) (*ports.LoginResult, error) {
	if email == "" || password == "" || claimedRole == "" {
		return nil, domain.ErrMissingParameters
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Role != claimedRole {
		return nil, domain.ErrRoleMismatch
	}
	if !user.IsVerified {
		return nil, domain.ErrNotVerified
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info().Str("user", user.Name).Msg("logged in")
	return &ports.LoginResult{User: user, Token: token}, nil
}

// RequestPasswordChange issues a fresh code to an authenticated user.
func (s *AccountService) RequestPasswordChange(ctx context.Context, userID string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	return s.issueCode(ctx, user, "Password reset code", "password change")
}

// ChangePassword consumes the code and stores the rehashed password.
func (s *AccountService) ChangePassword(ctx context.Context, userID, code, newPassword string) error {
	if userID == "" || code == "" || newPassword == "" {
		return domain.ErrMissingParameters
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.codes.Consume(ctx, user.ID, code); err != nil {
		return err
	}
	return s.rehash(ctx, user, newPassword)
}

// RequestPasswordReset issues a code to the account behind the email. Used by
// users who cannot log in.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	if email == "" {
		return domain.ErrMissingParameters
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	return s.issueCode(ctx, user, "Password reset code", "forgot password")
}

// ResetPassword is the unauthenticated counterpart of ChangePassword.
func (s *AccountService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if email == "" || code == "" || newPassword == "" {
		return domain.ErrMissingParameters
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if err := s.codes.Consume(ctx, user.ID, code); err != nil {
		return err
	}
	return s.rehash(ctx, user, newPassword)
}

// DeleteAccount removes the identity and, when requested, cascades into the
// owner's documents. The identity deletion is not rolled back when the
// cascade fails; the result tells the caller what remains to clean up.
func (s *AccountService) DeleteAccount(ctx context.Context, userID string, deleteDocuments bool) (*ports.AccountDeletionResult, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return nil, err
	}

	result := &ports.AccountDeletionResult{
		IdentityDeleted:  true,
		CascadeRequested: deleteDocuments,
	}

	if deleteDocuments {
		// Cascade keys on the display name as it is right now.
		cascade, err := s.documents.DeleteAllByOwner(ctx, user.Name)
		if err != nil {
			s.logger.Error().Err(err).Str("user", user.Name).Msg("document cascade failed after identity deletion")
			result.CascadeIncomplete = true
			return result, nil
		}
		result.DocumentsRemoved = cascade.Removed
		result.DocumentsPartial = cascade.Partial
		result.CascadeIncomplete = cascade.Partial > 0
	}

	s.logger.Info().Str("user", user.Name).Bool("cascade", deleteDocuments).
		Int("removed", result.DocumentsRemoved).Int("partial", result.DocumentsPartial).
		Msg("account deleted")
	return result, nil
}

func (s *AccountService) rehash(ctx context.Context, user *domain.User, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	s.logger.Info().Str("user", user.Name).Msg("password changed")
	return nil
}

// issueCode generates an OTP, persists it, and enqueues delivery. Delivery is
// fire-and-forget; only code persistence can fail the caller.
func (s *AccountService) issueCode(ctx context.Context, user *domain.User, subject, purpose string) error {
	code, err := generateOTP()
	if err != nil {
		return err
	}
	if err := s.codes.Save(ctx, user.ID, code); err != nil {
		return err
	}

	s.mail.Enqueue(ports.Notification{
		To:      user.Email,
		Subject: subject,
		Body:    fmt.Sprintf("<h1>%s</h1>", code),
	})

	s.logger.Info().Str("user", user.Name).Str("purpose", purpose).Msg("verification code issued")
	return nil
}

// generateOTP returns a 4-digit human-enterable code.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
