package posts

import (
	"context"
	"io"

	"github.com/inkpress/go-blog-server/blob"
	"github.com/inkpress/go-blog-server/token"
	"github.com/pkg/errors"
)

var MissingUploadErr = errors.New("cover image file is required")

// Service implements the post write and read paths. Every mutation passes
// through AuthorizeMutation before the content store is touched, and a failed
// upload aborts the request before any post document is written.
type Service struct {
	posts PostRepo
	blobs blob.Store
}

// NewService initializes the post service with its injected dependencies.
func NewService(postRepo PostRepo, blobStore blob.Store) (*Service, error) {
	if postRepo == nil {
		return nil, errors.New("[posts.NewService] post repo is required")
	}
	if blobStore == nil {
		return nil, errors.New("[posts.NewService] blob store is required")
	}

	return &Service{
		posts: postRepo,
		blobs: blobStore,
	}, nil
}

// Create stores the uploaded cover, then writes a post whose author is the
// verified token subject. The cover upload is mandatory on creation.
func (s *Service) Create(ctx context.Context, claims *token.Claims, fields Fields, uploadName string, upload io.Reader) (*Post, error) {
	if claims == nil {
		return nil, UnauthorizedErr
	}
	if upload == nil {
		return nil, MissingUploadErr
	}

	locator, err := s.blobs.Put(uploadName, upload)
	if err != nil {
		return nil, err
	}

	post := &Post{
		Title:    fields.Title,
		Summary:  fields.Summary,
		Content:  fields.Content,
		Cover:    locator,
		AuthorID: claims.UserID,
	}
	return s.posts.Create(ctx, post)
}

// Update replaces the text fields of a post after proving the requester is
// its author. The cover is replaced only when a new upload accompanies the
// request; a text-only edit never clears it.
func (s *Service) Update(ctx context.Context, claims *token.Claims, id string, fields Fields, uploadName string, upload io.Reader) (*Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := AuthorizeMutation(claims, post); err != nil {
		return nil, err
	}

	cover := post.Cover
	if upload != nil {
		cover, err = s.blobs.Put(uploadName, upload)
		if err != nil {
			return nil, err
		}
	}

	post.Title = fields.Title
	post.Summary = fields.Summary
	post.Content = fields.Content
	post.Cover = cover
	return s.posts.Update(ctx, post)
}

// ListRecent returns the newest posts, capped at RecentPostsLimit, each with
// its author resolved to public fields only.
func (s *Service) ListRecent(ctx context.Context) ([]*Post, error) {
	return s.posts.ListRecent(ctx, RecentPostsLimit)
}

// GetByID returns a single post or PostNotFoundErr.
func (s *Service) GetByID(ctx context.Context, id string) (*Post, error) {
	return s.posts.GetByID(ctx, id)
}
