package mongodb

import (
	"context"
	"time"

	"github.com/inkpress/go-blog-server/users"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ users.UserRepo = (*UserRepo)(nil)

type userDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Username  string             `bson:"username"`
	Password  string             `bson:"password"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *userDoc) toUser() *users.User {
	return &users.User{
		ID:           d.ID.Hex(),
		Username:     d.Username,
		PasswordHash: d.Password,
		CreatedAt:    d.CreatedAt,
	}
}

// UserRepo persists users in the "users" collection. Username uniqueness is
// enforced by a unique index, so concurrent registrations of the same name
// race safely at the store level.
type UserRepo struct {
	collection *mongo.Collection
}

func NewUserRepo(db *mongo.Database) *UserRepo {
	collection := db.Collection("users")

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	indexModel := mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := collection.Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Warn().Err(err).Msg("failed to create unique index on username")
	}

	return &UserRepo{collection: collection}
}

func (r *UserRepo) Create(ctx context.Context, username, passwordHash string) (*users.User, error) {
	doc := &userDoc{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Password:  passwordHash,
		CreatedAt: time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, users.UsernameTakenErr
		}
		return nil, errors.Wrap(err, "failed to create user")
	}

	return doc.toUser(), nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	var doc userDoc
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, users.UserNotFoundErr
		}
		return nil, errors.Wrap(err, "failed to find user")
	}
	return doc.toUser(), nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, users.UserNotFoundErr
	}

	var doc userDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, users.UserNotFoundErr
		}
		return nil, errors.Wrap(err, "failed to find user")
	}
	return doc.toUser(), nil
}
