// Package blob abstracts where uploaded cover images are durably saved. A
// store accepts a file and returns a locator - a relative path for the local
// variant, a public URL for the remote one - that clients later use to fetch
// the image.
package blob

import (
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var UploadFailedErr = errors.New("upload failed")

// Store is the port for cover image persistence.
type Store interface {
	// Put saves the reader's contents under a name derived from the
	// original filename and returns the durable locator.
	Put(originalName string, r io.Reader) (string, error)
}

// uniqueName keeps the original file extension but replaces the base name,
// so concurrent uploads of identically named files never collide.
func uniqueName(originalName string) string {
	ext := strings.ToLower(path.Ext(path.Base(originalName)))
	return uuid.New().String() + ext
}
