package ports

import "context"

// VerificationStore persists one-time codes for email verification and
// password resets, keyed by the owning user.
//
// Codes never expire on their own (a deliberate compatibility choice; adding
// a TTL is a hardening opportunity). Consume must be exact-match and atomic:
// a code succeeds at most once, a second consume fails.
type VerificationStore interface {
	Save(ctx context.Context, ownerID, code string) error
	// Consume deletes the code on match and fails with domain.ErrInvalidToken
	// when no matching {owner, code} record exists.
	Consume(ctx context.Context, ownerID, code string) error
}
