// Package mongodb implements the user and post repositories on MongoDB.
package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Store bundles the MongoDB client and the repositories built on it.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	Users  *UserRepo
	Posts  *PostRepo
}

// Connect dials MongoDB, verifies the connection, and builds the
// repositories against the named database.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to MongoDB")
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "failed to ping MongoDB")
	}

	db := client.Database(dbName)
	users := NewUserRepo(db)

	return &Store{
		client: client,
		db:     db,
		Users:  users,
		Posts:  NewPostRepo(db, users),
	}, nil
}

// Close disconnects from MongoDB.
func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
