package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/gitedu/docuvault/internal/core/domain"
)

// VerificationStore keeps one-time verification codes in Redis.
// Key format: verify:<owner_id>:<code>
//
// Codes carry no TTL: they stay valid until consumed, matching the historical
// behavior clients depend on. Adding an expiry is a known hardening
// opportunity. Consume relies on DEL's returned count, so a code can be
// redeemed at most once even under concurrent attempts.
type VerificationStore struct {
	client *redis.Client
}

// NewVerificationStore creates a VerificationStore wrapping the given client.
func NewVerificationStore(client *redis.Client) *VerificationStore {
	return &VerificationStore{client: client}
}

// Save persists the code for the owner. Issuing a new code does not revoke
// older pending ones; each remains independently redeemable.
func (s *VerificationStore) Save(ctx context.Context, ownerID, code string) error {
	if err := s.client.Set(ctx, s.key(ownerID, code), "1", 0).Err(); err != nil {
		return fmt.Errorf("verification save: %w", err)
	}
	return nil
}

// Consume deletes the exact {owner, code} record. A zero delete count means
// no such code was pending, which reports as an invalid token.
func (s *VerificationStore) Consume(ctx context.Context, ownerID, code string) error {
	n, err := s.client.Del(ctx, s.key(ownerID, code)).Result()
	if err != nil {
		return fmt.Errorf("verification consume: %w", err)
	}
	if n == 0 {
		return domain.ErrInvalidToken
	}
	return nil
}

func (s *VerificationStore) key(ownerID, code string) string {
	return fmt.Sprintf("verify:%s:%s", ownerID, code)
}
