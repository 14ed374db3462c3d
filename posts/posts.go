// Package posts holds the blog post entity, its persistence port, and the
// authorship rules that gate every mutation.
package posts

import "time"

// Author is the subset of a user attached to a post when it is read back.
// The password hash never travels with a post.
type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Post struct {
	ID        string    `json:"id,omitempty"` // Unique identifier assigned by the store
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Content   string    `json:"content"`
	Cover     string    `json:"cover"`            // Locator of the cover image: local path or remote URL
	AuthorID  string    `json:"-"`                // Set once at creation from the verified token subject
	Author    *Author   `json:"author,omitempty"` // Resolved on reads only
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Fields are the mutable parts of a post supplied by a create or update
// request. An empty Cover on update means "keep the existing cover".
type Fields struct {
	Title   string
	Summary string
	Content string
	Cover   string
}
