package ports

import (
	"context"

	"github.com/gitedu/docuvault/internal/core/domain"
)

// SchemeService manages the scheme/subject taxonomy and answers the pair
// check that gates document uploads.
type SchemeService interface {
	Create(ctx context.Context, scheme string, subjects []string) (*domain.Scheme, error)
	List(ctx context.Context) ([]*domain.Scheme, error)
	Delete(ctx context.Context, scheme string) error
	// Check reports whether the (scheme, subject) pair is registered.
	Check(ctx context.Context, scheme, subject string) (bool, error)
}
