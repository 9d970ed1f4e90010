package ports

import "context"

// BlobStore is the external byte storage behind document uploads. Keys are
// opaque and system-generated; retrieval goes through pre-signed URLs that
// expire on their own.
type BlobStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// SignedURL returns a time-limited download URL for the key. The blob is
	// not checked for existence; a URL for a missing key 404s at the store.
	SignedURL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}
