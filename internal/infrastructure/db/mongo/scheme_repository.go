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

const collectionSchemes = "schemes"

type SchemeRepository struct {
	col *mongo.Collection
}

func NewSchemeRepository(db *mongo.Database) *SchemeRepository {
	return &SchemeRepository{col: db.Collection(collectionSchemes)}
}

func (r *SchemeRepository) Create(ctx context.Context, scheme *domain.Scheme) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, scheme)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrSchemeExists
		}
		return fmt.Errorf("insert scheme: %w", err)
	}
	return nil
}

func (r *SchemeRepository) FindByName(ctx context.Context, scheme string) (*domain.Scheme, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var s domain.Scheme
	err := r.col.FindOne(ctx, bson.M{"scheme": scheme}).Decode(&s)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSchemeNotFound
		}
		return nil, fmt.Errorf("find scheme: %w", err)
	}
	return &s, nil
}

func (r *SchemeRepository) List(ctx context.Context) ([]*domain.Scheme, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	defer cur.Close(ctx)

	schemes := make([]*domain.Scheme, 0)
	for cur.Next(ctx) {
		var s domain.Scheme
		if err := cur.Decode(&s); err != nil {
			return nil, fmt.Errorf("decode scheme: %w", err)
		}
		schemes = append(schemes, &s)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("list schemes: %w", err)
	}
	return schemes, nil
}

func (r *SchemeRepository) DeleteByName(ctx context.Context, scheme string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"scheme": scheme})
	if err != nil {
		return fmt.Errorf("delete scheme: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrSchemeNotFound
	}
	return nil
}

// EnsureIndexes creates the unique index on the scheme name.
func (r *SchemeRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "scheme", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
