package ports

import (
	"context"

	"github.com/gitedu/docuvault/internal/core/domain"
)

// SchemeRepository defines persistence operations for the taxonomy.
type SchemeRepository interface {
	Create(ctx context.Context, scheme *domain.Scheme) error
	FindByName(ctx context.Context, scheme string) (*domain.Scheme, error)
	List(ctx context.Context) ([]*domain.Scheme, error)
	DeleteByName(ctx context.Context, scheme string) error
}
