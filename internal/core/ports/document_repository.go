package ports

import (
	"context"

	"github.com/gitedu/docuvault/internal/core/domain"
)

// DocumentRepository defines persistence operations for document metadata.
//
// The storage layer must enforce uniqueness on the document name; the upload
// pre-check is only an optimization for a friendly error message.
type DocumentRepository interface {
	Create(ctx context.Context, doc *domain.Document) error
	FindByName(ctx context.Context, name string) (*domain.Document, error)
	// DeleteByStorageKey removes the metadata record matching the key and
	// fails with domain.ErrDocumentNotFound when none matches.
	DeleteByStorageKey(ctx context.Context, storageKey string) error
	// ListByOwner returns the owner's documents, newest first.
	ListByOwner(ctx context.Context, owner string) ([]*domain.Document, error)
	ListByScheme(ctx context.Context, scheme string) ([]*domain.Document, error)
	ListBySubject(ctx context.Context, subject string) ([]*domain.Document, error)
	ListAll(ctx context.Context) ([]*domain.Document, error)
}
