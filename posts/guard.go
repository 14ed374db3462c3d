package posts

import (
	"github.com/inkpress/go-blog-server/token"
	"github.com/pkg/errors"
)

var (
	UnauthorizedErr = errors.New("missing or invalid session token")
	ForbiddenErr    = errors.New("you are not the author")
)

// AuthorizeMutation decides whether the holder of the given claims may change
// the given post. Claims must already have passed token verification; a nil
// claims value means the requester never presented a valid token.
func AuthorizeMutation(claims *token.Claims, post *Post) error {
	if claims == nil {
		return UnauthorizedErr
	}
	if claims.UserID != post.AuthorID {
		return ForbiddenErr
	}
	return nil
}
