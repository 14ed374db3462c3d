package posts

import (
	"context"

	"github.com/pkg/errors"
)

var PostNotFoundErr = errors.New("post not found")

// RecentPostsLimit caps how many posts the recent listing returns.
const RecentPostsLimit = 20

// PostRepo is the port for post persistence. ListRecent returns posts newest
// first, each with its author resolved, and never more than limit entries.
type PostRepo interface {
	Create(ctx context.Context, post *Post) (*Post, error)
	GetByID(ctx context.Context, id string) (*Post, error)
	ListRecent(ctx context.Context, limit int) ([]*Post, error)
	Update(ctx context.Context, post *Post) (*Post, error)
}
