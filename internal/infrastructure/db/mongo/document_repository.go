package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gitedu/docuvault/internal/core/domain"
)

const collectionDocuments = "documents"

type DocumentRepository struct {
	col *mongo.Collection
}

func NewDocumentRepository(db *mongo.Database) *DocumentRepository {
	return &DocumentRepository{col: db.Collection(collectionDocuments)}
}

// Create inserts a document metadata record. The unique index on name is the
// authoritative guard against concurrent uploads with the same display name.
func (r *DocumentRepository) Create(ctx context.Context, doc *domain.Document) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDocumentExists
		}
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *DocumentRepository) FindByName(ctx context.Context, name string) (*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc domain.Document
	err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("find document: %w", err)
	}
	return &doc, nil
}

func (r *DocumentRepository) DeleteByStorageKey(ctx context.Context, storageKey string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"storage_key": storageKey})
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (r *DocumentRepository) ListByOwner(ctx context.Context, owner string) ([]*domain.Document, error) {
	return r.list(ctx, bson.M{"owner": owner})
}

func (r *DocumentRepository) ListByScheme(ctx context.Context, scheme string) ([]*domain.Document, error) {
	return r.list(ctx, bson.M{"scheme": scheme})
}

func (r *DocumentRepository) ListBySubject(ctx context.Context, subject string) ([]*domain.Document, error) {
	return r.list(ctx, bson.M{"subject": subject})
}

func (r *DocumentRepository) ListAll(ctx context.Context) ([]*domain.Document, error) {
	return r.list(ctx, bson.M{})
}

// list returns matching documents sorted newest first.
func (r *DocumentRepository) list(ctx context.Context, filter bson.M) ([]*domain.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cur.Close(ctx)

	docs := make([]*domain.Document, 0)
	for cur.Next(ctx) {
		var doc domain.Document
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		docs = append(docs, &doc)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// EnsureIndexes creates necessary indexes on the documents collection.
func (r *DocumentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "storage_key", Value: 1}}},
		{Keys: bson.D{{Key: "owner", Value: 1}}},
		{Keys: bson.D{{Key: "scheme", Value: 1}}},
		{Keys: bson.D{{Key: "subject", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
