package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gitedu/docuvault/internal/api/metrics"
	"github.com/gitedu/docuvault/internal/core/domain"
	"github.com/gitedu/docuvault/internal/core/ports"
)

// DocumentService coordinates the blob store and the metadata store for the
// document lifecycle. Ordering is fixed: blobs are written before metadata
// (an orphaned blob is invisible; a record without a blob is not) and deleted
// before metadata (a record must never point at a missing blob silently).
type DocumentService struct {
	repo    ports.DocumentRepository
	blobs   ports.BlobStore
	schemes ports.SchemeService
	logger  zerolog.Logger
}

func NewDocumentService(repo ports.DocumentRepository, blobs ports.BlobStore, schemes ports.SchemeService, logger zerolog.Logger) *DocumentService {
	return &DocumentService{repo: repo, blobs: blobs, schemes: schemes, logger: logger}
}

// Upload validates the taxonomy pair and name uniqueness, writes the blob,
// then persists metadata. A metadata failure after a successful blob write
// leaves an orphaned blob behind, which is logged and otherwise inert.
func (s *DocumentService) Upload(ctx context.Context, input ports.UploadDocumentInput) (*domain.Document, error) {
	if input.Name == "" || input.Scheme == "" || input.Subject == "" || input.OwnerName == "" || len(input.Content) == 0 {
		return nil, domain.ErrMissingParameters
	}

	ok, err := s.schemes.Check(ctx, input.Scheme, input.Subject)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrInvalidScheme
	}

	// Friendly pre-check; the unique index on name is the real guard.
	if _, err := s.repo.FindByName(ctx, input.Name); err == nil {
		return nil, domain.ErrDocumentExists
	}

	doc := &domain.Document{
		Name:       input.Name,
		StorageKey: generateStorageKey(),
		Owner:      input.OwnerName,
		Scheme:     input.Scheme,
		Subject:    input.Subject,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.blobs.Upload(ctx, doc.StorageKey, input.Content, input.ContentType); err != nil {
		s.logger.Error().Err(err).Str("storage_key", doc.StorageKey).Msg("blob upload failed")
		return nil, err
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		// The blob is now orphaned. It is unreachable (downloads resolve
		// through metadata) but worth surfacing for cleanup.
		s.logger.Error().Err(err).Str("storage_key", doc.StorageKey).Str("name", doc.Name).Msg("metadata insert failed, blob orphaned")
		return nil, err
	}

	metrics.DocumentsUploadedTotal.WithLabelValues(doc.Scheme).Inc()
	s.logger.Info().Str("name", doc.Name).Str("owner", doc.Owner).Str("storage_key", doc.StorageKey).Msg("document uploaded")
	return doc, nil
}

// Download presigns a download URL for the storage key. Metadata is not
// consulted: a key whose record was deleted but whose blob survived can still
// be presigned, so each issued URL is logged for reconciliation.
func (s *DocumentService) Download(ctx context.Context, storageKey string) (string, error) {
	if storageKey == "" {
		return "", domain.ErrMissingParameters
	}
	url, err := s.blobs.SignedURL(ctx, storageKey)
	if err != nil {
		return "", err
	}
	metrics.SignedURLsIssuedTotal.Inc()
	s.logger.Info().Str("storage_key", storageKey).Msg("download url issued")
	return url, nil
}

// Delete removes the blob, then the metadata record. If the blob deletion
// fails the record stays and the caller sees the error; if the metadata
// deletion fails afterwards the dangling record is reported as
// ErrMetadataResidue so it can be reconciled.
func (s *DocumentService) Delete(ctx context.Context, storageKey string) error {
	if storageKey == "" {
		return domain.ErrMissingParameters
	}

	if err := s.blobs.Delete(ctx, storageKey); err != nil {
		s.logger.Error().Err(err).Str("storage_key", storageKey).Msg("blob delete failed, metadata kept")
		metrics.DocumentDeletesTotal.WithLabelValues("blob_failed").Inc()
		return err
	}

	if err := s.repo.DeleteByStorageKey(ctx, storageKey); err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			// Re-deleting an already-deleted key ends up here: the blob
			// delete is a no-op upstream and no record matches.
			return domain.ErrDocumentNotFound
		}
		s.logger.Error().Err(err).Str("storage_key", storageKey).Msg("metadata delete failed after blob delete")
		metrics.DocumentDeletesTotal.WithLabelValues("residue").Inc()
		return domain.ErrMetadataResidue
	}

	metrics.DocumentDeletesTotal.WithLabelValues("ok").Inc()
	s.logger.Info().Str("storage_key", storageKey).Msg("document deleted")
	return nil
}

// DeleteAllByOwner bulk-deletes the owner's documents, blob first per record.
// A failed blob delete does not stop the sweep: the metadata record is still
// removed so the document becomes unlistable, and the record counts as
// partial instead of removed.
func (s *DocumentService) DeleteAllByOwner(ctx context.Context, ownerName string) (*ports.CascadeResult, error) {
	if ownerName == "" {
		return nil, domain.ErrMissingParameters
	}

	docs, err := s.repo.ListByOwner(ctx, ownerName)
	if err != nil {
		return nil, err
	}

	result := &ports.CascadeResult{}
	for _, doc := range docs {
		blobErr := s.blobs.Delete(ctx, doc.StorageKey)
		if blobErr != nil {
			s.logger.Error().Err(blobErr).Str("storage_key", doc.StorageKey).Str("owner", ownerName).Msg("cascade blob delete failed")
		}
		if err := s.repo.DeleteByStorageKey(ctx, doc.StorageKey); err != nil {
			s.logger.Error().Err(err).Str("storage_key", doc.StorageKey).Str("owner", ownerName).Msg("cascade metadata delete failed")
			return result, err
		}
		if blobErr != nil {
			result.Partial++
		} else {
			result.Removed++
		}
	}

	outcome := "full"
	if result.Partial > 0 {
		outcome = "partial"
	}
	metrics.CascadeDeletesTotal.WithLabelValues(outcome).Inc()
	s.logger.Info().Str("owner", ownerName).Int("removed", result.Removed).Int("partial", result.Partial).Msg("owner documents deleted")
	return result, nil
}

func (s *DocumentService) ListByOwner(ctx context.Context, owner string) ([]*domain.Document, error) {
	if owner == "" {
		return nil, domain.ErrMissingParameters
	}
	return s.repo.ListByOwner(ctx, owner)
}

func (s *DocumentService) ListByScheme(ctx context.Context, scheme string) ([]*domain.Document, error) {
	if scheme == "" {
		return nil, domain.ErrMissingParameters
	}
	return s.repo.ListByScheme(ctx, scheme)
}

func (s *DocumentService) ListBySubject(ctx context.Context, subject string) ([]*domain.Document, error) {
	if subject == "" {
		return nil, domain.ErrMissingParameters
	}
	return s.repo.ListBySubject(ctx, subject)
}

func (s *DocumentService) ListAll(ctx context.Context) ([]*domain.Document, error) {
	return s.repo.ListAll(ctx)
}

// generateStorageKey returns an opaque, date-sharded blob key. Collisions are
// treated as effectively impossible; name uniqueness, not key uniqueness, is
// what the store enforces.
func generateStorageKey() string {
	d := time.Now().UTC()
	return fmt.Sprintf("documents/%d/%d/%d/%s", d.Year(), d.Month(), d.Day(), uuid.New())
}
