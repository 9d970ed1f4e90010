package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gitedu/docuvault/internal/core/domain"
	"github.com/gitedu/docuvault/internal/core/ports"
)

type stubDocRepo struct {
	mu        sync.Mutex
	docs      map[string]*domain.Document // keyed by storage key
	createErr error
	deleteErr error
	staleRead bool // FindByName misses even for stored names
}

func newStubDocRepo() *stubDocRepo {
	return &stubDocRepo{docs: make(map[string]*domain.Document)}
}

func (r *stubDocRepo) Create(_ context.Context, doc *domain.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, d := range r.docs {
		if d.Name == doc.Name {
			return domain.ErrDocumentExists
		}
	}
	copy := *doc
	r.docs[doc.StorageKey] = &copy
	return nil
}

func (r *stubDocRepo) FindByName(_ context.Context, name string) (*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.staleRead {
		return nil, domain.ErrDocumentNotFound
	}
	for _, d := range r.docs {
		if d.Name == name {
			copy := *d
			return &copy, nil
		}
	}
	return nil, domain.ErrDocumentNotFound
}

func (r *stubDocRepo) DeleteByStorageKey(_ context.Context, storageKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.docs[storageKey]; !ok {
		return domain.ErrDocumentNotFound
	}
	delete(r.docs, storageKey)
	return nil
}

func (r *stubDocRepo) ListByOwner(_ context.Context, owner string) ([]*domain.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Document
	for _, d := range r.docs {
		if d.Owner == owner {
			copy := *d
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubDocRepo) ListByScheme(_ context.Context, scheme string) ([]*domain.Document, error) {
	var out []*domain.Document
	for _, d := range r.docs {
		if d.Scheme == scheme {
			copy := *d
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubDocRepo) ListBySubject(_ context.Context, subject string) ([]*domain.Document, error) {
	var out []*domain.Document
	for _, d := range r.docs {
		if d.Subject == subject {
			copy := *d
			out = append(out, &copy)
		}
	}
	return out, nil
}

func (r *stubDocRepo) ListAll(_ context.Context) ([]*domain.Document, error) {
	var out []*domain.Document
	for _, d := range r.docs {
		copy := *d
		out = append(out, &copy)
	}
	return out, nil
}

// stubBlobStore records blob state and can be told to fail per key.
type stubBlobStore struct {
	mu        sync.Mutex
	blobs     map[string][]byte
	uploadErr error
	failKeys  map[string]bool // Delete fails for these keys
}

func newStubBlobStore() *stubBlobStore {
	return &stubBlobStore{blobs: make(map[string][]byte), failKeys: make(map[string]bool)}
}

func (b *stubBlobStore) Upload(_ context.Context, key string, data []byte, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.uploadErr != nil {
		return b.uploadErr
	}
	b.blobs[key] = data
	return nil
}

func (b *stubBlobStore) SignedURL(_ context.Context, key string) (string, error) {
	return "https://blobs.test/" + key + "?signed=1", nil
}

func (b *stubBlobStore) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failKeys[key] {
		return errors.New("blob store unavailable")
	}
	// Deleting a missing key succeeds, like S3.
	delete(b.blobs, key)
	return nil
}

func (b *stubBlobStore) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.blobs)
}

type stubSchemeChecker struct {
	pairs map[string]bool
}

func (s *stubSchemeChecker) Create(context.Context, string, []string) (*domain.Scheme, error) {
	return nil, errors.New("not implemented")
}
func (s *stubSchemeChecker) List(context.Context) ([]*domain.Scheme, error) { return nil, nil }
func (s *stubSchemeChecker) Delete(context.Context, string) error           { return nil }
func (s *stubSchemeChecker) Check(_ context.Context, scheme, subject string) (bool, error) {
	return s.pairs[scheme+"/"+subject], nil
}

type documentFixture struct {
	svc   *DocumentService
	repo  *stubDocRepo
	blobs *stubBlobStore
}

func newDocumentFixture() *documentFixture {
	f := &documentFixture{
		repo:  newStubDocRepo(),
		blobs: newStubBlobStore(),
	}
	schemes := &stubSchemeChecker{pairs: map[string]bool{
		"btech/maths":   true,
		"btech/physics": true,
	}}
	f.svc = NewDocumentService(f.repo, f.blobs, schemes, zerolog.Nop())
	return f
}

func upload(t *testing.T, f *documentFixture, owner, name string) *domain.Document {
	t.Helper()
	doc, err := f.svc.Upload(context.Background(), ports.UploadDocumentInput{
		OwnerName:   owner,
		Name:        name,
		Scheme:      "btech",
		Subject:     "maths",
		Content:     []byte("notes"),
		ContentType: "application/pdf",
	})
	if err != nil {
		t.Fatalf("upload %s failed: %v", name, err)
	}
	return doc
}

func TestDocumentService_UploadDownload(t *testing.T) {
	f := newDocumentFixture()

	doc := upload(t, f, "alice", "calc-notes")
	if doc.StorageKey == "" {
		t.Fatalf("no storage key assigned")
	}
	if string(f.blobs.blobs[doc.StorageKey]) != "notes" {
		t.Fatalf("blob content not stored under the key")
	}
	if _, ok := f.repo.docs[doc.StorageKey]; !ok {
		t.Fatalf("metadata record not persisted")
	}

	url, err := f.svc.Download(context.Background(), doc.StorageKey)
	if err != nil {
		t.Fatalf("download failed: %v", err)
	}
	if url != "https://blobs.test/"+doc.StorageKey+"?signed=1" {
		t.Fatalf("unexpected url: %s", url)
	}
}

func TestDocumentService_Upload_Rejections(t *testing.T) {
	f := newDocumentFixture()
	upload(t, f, "alice", "calc-notes")

	if _, err := f.svc.Upload(context.Background(), ports.UploadDocumentInput{
		OwnerName: "bob", Name: "calc-notes", Scheme: "btech", Subject: "maths", Content: []byte("x"),
	}); err != domain.ErrDocumentExists {
		t.Fatalf("expected ErrDocumentExists, got %v", err)
	}

	if _, err := f.svc.Upload(context.Background(), ports.UploadDocumentInput{
		OwnerName: "bob", Name: "other", Scheme: "btech", Subject: "history", Content: []byte("x"),
	}); err != domain.ErrInvalidScheme {
		t.Fatalf("expected ErrInvalidScheme for unknown subject, got %v", err)
	}

	if _, err := f.svc.Upload(context.Background(), ports.UploadDocumentInput{
		OwnerName: "bob", Name: "other", Scheme: "mtech", Subject: "maths", Content: []byte("x"),
	}); err != domain.ErrInvalidScheme {
		t.Fatalf("expected ErrInvalidScheme for unknown scheme, got %v", err)
	}

	if _, err := f.svc.Upload(context.Background(), ports.UploadDocumentInput{
		OwnerName: "bob", Name: "other", Scheme: "btech", Subject: "maths",
	}); err != domain.ErrMissingParameters {
		t.Fatalf("expected ErrMissingParameters for empty content, got %v", err)
	}
}

func TestDocumentService_Upload_StoreResolvesDuplicateAfterStalePreCheck(t *testing.T) {
	f := newDocumentFixture()
	upload(t, f, "alice", "calc-notes")

	// The name pre-check misses, as it does when a racing upload commits
	// between the check and the insert. The unique index is what decides.
	f.repo.staleRead = true

	_, err := f.svc.Upload(context.Background(), ports.UploadDocumentInput{
		OwnerName: "bob", Name: "calc-notes", Scheme: "btech", Subject: "maths", Content: []byte("x"),
	})
	if err != domain.ErrDocumentExists {
		t.Fatalf("expected ErrDocumentExists from the store, got %v", err)
	}

	// The loser's blob was written before the insert failed and stays behind
	// as an orphan; the winner's record is untouched.
	if f.blobs.count() != 2 {
		t.Fatalf("expected winner blob plus orphan, got %d blobs", f.blobs.count())
	}
	if len(f.repo.docs) != 1 {
		t.Fatalf("expected a single metadata record, got %d", len(f.repo.docs))
	}
}

func TestDocumentService_Upload_ConcurrentDuplicateName(t *testing.T) {
	f := newDocumentFixture()
	// Both pre-checks run before either insert commits.
	f.repo.staleRead = true

	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := f.svc.Upload(context.Background(), ports.UploadDocumentInput{
				OwnerName: "alice", Name: "calc-notes", Scheme: "btech", Subject: "maths", Content: []byte("x"),
			})
			errs <- err
		}()
	}

	var succeeded, conflicted int
	for i := 0; i < 2; i++ {
		switch err := <-errs; err {
		case nil:
			succeeded++
		case domain.ErrDocumentExists:
			conflicted++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || conflicted != 1 {
		t.Fatalf("want exactly one winner and one conflict, got %d/%d", succeeded, conflicted)
	}
	if len(f.repo.docs) != 1 {
		t.Fatalf("expected a single metadata record, got %d", len(f.repo.docs))
	}
}

func TestDocumentService_Upload_BlobFailureWritesNoMetadata(t *testing.T) {
	f := newDocumentFixture()
	f.blobs.uploadErr = errors.New("blob store unavailable")

	_, err := f.svc.Upload(context.Background(), ports.UploadDocumentInput{
		OwnerName: "alice", Name: "calc-notes", Scheme: "btech", Subject: "maths", Content: []byte("x"),
	})
	if err == nil {
		t.Fatalf("expected upload to fail")
	}
	if len(f.repo.docs) != 0 {
		t.Fatalf("metadata written despite blob failure")
	}
}

func TestDocumentService_Upload_MetadataFailureLeavesOrphanBlob(t *testing.T) {
	f := newDocumentFixture()
	f.repo.createErr = errors.New("metadata store unavailable")

	_, err := f.svc.Upload(context.Background(), ports.UploadDocumentInput{
		OwnerName: "alice", Name: "calc-notes", Scheme: "btech", Subject: "maths", Content: []byte("x"),
	})
	if err == nil {
		t.Fatalf("expected upload to fail")
	}
	// The blob stays behind but is unreachable through metadata.
	if len(f.blobs.blobs) != 1 {
		t.Fatalf("expected one orphaned blob, got %d", len(f.blobs.blobs))
	}
}

func TestDocumentService_Delete_Ordering(t *testing.T) {
	f := newDocumentFixture()
	doc := upload(t, f, "alice", "calc-notes")

	// Blob delete failure keeps the metadata record.
	f.blobs.failKeys[doc.StorageKey] = true
	if err := f.svc.Delete(context.Background(), doc.StorageKey); err == nil {
		t.Fatalf("expected delete to fail")
	}
	if _, ok := f.repo.docs[doc.StorageKey]; !ok {
		t.Fatalf("metadata removed despite blob failure")
	}

	// With the blob store healthy again, the delete goes through.
	delete(f.blobs.failKeys, doc.StorageKey)
	if err := f.svc.Delete(context.Background(), doc.StorageKey); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(f.repo.docs) != 0 || len(f.blobs.blobs) != 0 {
		t.Fatalf("stores not empty after delete")
	}

	// A second delete reports not found via the metadata store.
	if err := f.svc.Delete(context.Background(), doc.StorageKey); err != domain.ErrDocumentNotFound {
		t.Fatalf("expected ErrDocumentNotFound on re-delete, got %v", err)
	}
}

func TestDocumentService_Delete_MetadataResidue(t *testing.T) {
	f := newDocumentFixture()
	doc := upload(t, f, "alice", "calc-notes")
	f.repo.deleteErr = errors.New("metadata store unavailable")

	if err := f.svc.Delete(context.Background(), doc.StorageKey); err != domain.ErrMetadataResidue {
		t.Fatalf("expected ErrMetadataResidue, got %v", err)
	}
	// The blob is gone; the dangling record remains for reconciliation.
	if len(f.blobs.blobs) != 0 {
		t.Fatalf("blob not removed")
	}
	if _, ok := f.repo.docs[doc.StorageKey]; !ok {
		t.Fatalf("dangling record unexpectedly removed")
	}
}

func TestDocumentService_DeleteAllByOwner(t *testing.T) {
	f := newDocumentFixture()
	a := upload(t, f, "alice", "calc-notes")
	upload(t, f, "alice", "physics-notes")
	upload(t, f, "alice", "lab-report")
	bobs := upload(t, f, "bob", "bob-notes")

	// One of alice's blobs refuses to go.
	f.blobs.failKeys[a.StorageKey] = true

	result, err := f.svc.DeleteAllByOwner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("cascade failed: %v", err)
	}
	if result.Removed != 2 || result.Partial != 1 {
		t.Fatalf("expected 2 removed and 1 partial, got %+v", result)
	}

	// Every one of alice's records is gone, stuck blob or not.
	docs, err := f.svc.ListByOwner(context.Background(), "alice")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(docs) != 0 {
		t.Fatalf("alice still lists %d documents", len(docs))
	}

	// Bob is untouched.
	if _, ok := f.repo.docs[bobs.StorageKey]; !ok {
		t.Fatalf("cascade crossed owner boundary")
	}
}

func TestDocumentService_Lists(t *testing.T) {
	f := newDocumentFixture()
	upload(t, f, "alice", "calc-notes")
	doc, err := f.svc.Upload(context.Background(), ports.UploadDocumentInput{
		OwnerName: "bob", Name: "mechanics", Scheme: "btech", Subject: "physics", Content: []byte("x"),
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	byScheme, err := f.svc.ListByScheme(context.Background(), "btech")
	if err != nil || len(byScheme) != 2 {
		t.Fatalf("ListByScheme: %d docs, err %v", len(byScheme), err)
	}
	bySubject, err := f.svc.ListBySubject(context.Background(), "physics")
	if err != nil || len(bySubject) != 1 || bySubject[0].Name != doc.Name {
		t.Fatalf("ListBySubject returned wrong set")
	}
	all, err := f.svc.ListAll(context.Background())
	if err != nil || len(all) != 2 {
		t.Fatalf("ListAll: %d docs, err %v", len(all), err)
	}
	if _, err := f.svc.ListByOwner(context.Background(), ""); err != domain.ErrMissingParameters {
		t.Fatalf("expected ErrMissingParameters for empty owner, got %v", err)
	}
}
