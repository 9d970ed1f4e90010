package ports

import (
	"context"

	"github.com/gitedu/docuvault/internal/core/domain"
)

// UploadDocumentInput carries all data needed to store a new document.
type UploadDocumentInput struct {
	// OwnerName is the uploading user's display name as resolved by the
	// access gate; it is denormalized onto the document record.
	OwnerName   string
	Name        string
	Scheme      string
	Subject     string
	Content     []byte
	ContentType string
}

// CascadeResult reports the outcome of a bulk owner deletion. Removed counts
// documents whose blob and metadata were both deleted; Partial counts
// documents whose metadata was removed while the blob deletion failed.
type CascadeResult struct {
	Removed int
	Partial int
}

// DocumentService defines the document lifecycle use cases.
type DocumentService interface {
	Upload(ctx context.Context, input UploadDocumentInput) (*domain.Document, error)
	// Download returns a time-limited signed URL for the storage key. The
	// metadata record is deliberately not consulted first.
	Download(ctx context.Context, storageKey string) (string, error)
	// Delete removes the blob first, then the metadata record. A blob
	// failure leaves the document intact; a metadata failure after a
	// successful blob delete surfaces as domain.ErrMetadataResidue.
	Delete(ctx context.Context, storageKey string) error
	// DeleteAllByOwner removes every document owned by the given display
	// name, continuing past individual blob failures.
	DeleteAllByOwner(ctx context.Context, ownerName string) (*CascadeResult, error)
	ListByOwner(ctx context.Context, owner string) ([]*domain.Document, error)
	ListByScheme(ctx context.Context, scheme string) ([]*domain.Document, error)
	ListBySubject(ctx context.Context, subject string) ([]*domain.Document, error)
	ListAll(ctx context.Context) ([]*domain.Document, error)
}
