// Package mongo implements the metadata repositories on top of MongoDB.
// Uniqueness of user names, emails, document names, and scheme names is
// enforced here through unique indexes, not in the services.
package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// defaultTimeout bounds the initial connect and every repository operation.
const defaultTimeout = 10 * time.Second

// Config captures the settings for the metadata-store connection.
type Config struct {
	URI      string
	Database string
}

// Connect establishes the client, verifies connectivity with a ping, and
// returns both the client and the selected database. The client is needed for
// the shutdown disconnect; everything else works off the database handle.
func Connect(ctx context.Context, cfg Config) (*mongo.Client, *mongo.Database, error) {
	connectCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, client.Database(cfg.Database), nil
}
