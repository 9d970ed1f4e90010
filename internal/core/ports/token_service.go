package ports

import "time"

// TokenClaims is the verified payload of a session token.
type TokenClaims struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies signed, time-limited session tokens.
// Transport (the session cookie) is the caller's responsibility.
type TokenService interface {
	Issue(userID string) (string, error)
	// Verify fails with domain.ErrInvalidToken on a malformed, forged, or
	// expired token. It never fails open.
	Verify(token string) (*TokenClaims, error)
	// TTL is the validity window tokens are issued with, exposed so cookie
	// expiry can match token expiry.
	TTL() time.Duration
}
