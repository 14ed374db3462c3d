package mongodb

import (
	"context"
	"time"

	"github.com/inkpress/go-blog-server/posts"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ posts.PostRepo = (*PostRepo)(nil)

type postDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Summary   string             `bson:"summary"`
	Content   string             `bson:"content"`
	Cover     string             `bson:"cover"`
	Author    primitive.ObjectID `bson:"author"`
	CreatedAt time.Time          `bson:"created_at"`
}

func (d *postDoc) toPost() *posts.Post {
	return &posts.Post{
		ID:        d.ID.Hex(),
		Title:     d.Title,
		Summary:   d.Summary,
		Content:   d.Content,
		Cover:     d.Cover,
		AuthorID:  d.Author.Hex(),
		CreatedAt: d.CreatedAt,
	}
}

// PostRepo persists posts in the "posts" collection. The author field holds
// the user's ObjectID so authorship checks compare native identifiers.
type PostRepo struct {
	collection *mongo.Collection
	userRepo   *UserRepo
}

func NewPostRepo(db *mongo.Database, userRepo *UserRepo) *PostRepo {
	return &PostRepo{
		collection: db.Collection("posts"),
		userRepo:   userRepo,
	}
}

func (r *PostRepo) Create(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	authorID, err := primitive.ObjectIDFromHex(post.AuthorID)
	if err != nil {
		return nil, errors.Wrap(err, "invalid author id")
	}

	doc := &postDoc{
		ID:        primitive.NewObjectID(),
		Title:     post.Title,
		Summary:   post.Summary,
		Content:   post.Content,
		Cover:     post.Cover,
		Author:    authorID,
		CreatedAt: time.Now(),
	}

	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, errors.Wrap(err, "failed to create post")
	}

	return doc.toPost(), nil
}

func (r *PostRepo) GetByID(ctx context.Context, id string) (*posts.Post, error) {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, posts.PostNotFoundErr
	}

	var doc postDoc
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, posts.PostNotFoundErr
		}
		return nil, errors.Wrap(err, "failed to find post")
	}

	post := doc.toPost()
	r.resolveAuthors(ctx, post)
	return post, nil
}

func (r *PostRepo) ListRecent(ctx context.Context, limit int) ([]*posts.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list posts")
	}
	defer cursor.Close(ctx)

	var docs []*postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "failed to decode posts")
	}

	listed := make([]*posts.Post, 0, len(docs))
	for _, doc := range docs {
		listed = append(listed, doc.toPost())
	}
	r.resolveAuthors(ctx, listed...)
	return listed, nil
}

func (r *PostRepo) Update(ctx context.Context, post *posts.Post) (*posts.Post, error) {
	objectID, err := primitive.ObjectIDFromHex(post.ID)
	if err != nil {
		return nil, posts.PostNotFoundErr
	}

	update := bson.M{"$set": bson.M{
		"title":   post.Title,
		"summary": post.Summary,
		"content": post.Content,
		"cover":   post.Cover,
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc postDoc
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, update, opts).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, posts.PostNotFoundErr
		}
		return nil, errors.Wrap(err, "failed to update post")
	}

	updated := doc.toPost()
	r.resolveAuthors(ctx, updated)
	return updated, nil
}

// resolveAuthors attaches public author fields to the given posts with a
// single keyed lookup per distinct author.
func (r *PostRepo) resolveAuthors(ctx context.Context, list ...*posts.Post) {
	ids := make([]primitive.ObjectID, 0, len(list))
	seen := make(map[string]struct{}, len(list))
	for _, p := range list {
		if _, ok := seen[p.AuthorID]; ok {
			continue
		}
		seen[p.AuthorID] = struct{}{}
		if objectID, err := primitive.ObjectIDFromHex(p.AuthorID); err == nil {
			ids = append(ids, objectID)
		}
	}
	if len(ids) == 0 {
		return
	}

	cursor, err := r.userRepo.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return
	}
	defer cursor.Close(ctx)

	var authors []*userDoc
	if err := cursor.All(ctx, &authors); err != nil {
		return
	}

	byID := make(map[string]*posts.Author, len(authors))
	for _, a := range authors {
		byID[a.ID.Hex()] = &posts.Author{ID: a.ID.Hex(), Username: a.Username}
	}
	for _, p := range list {
		p.Author = byID[p.AuthorID]
	}
}
