package blob

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

var _ Store = (*DiskStore)(nil)

// DiskStore writes uploads to a local folder. Locators are relative paths of
// the form "uploads/<name>", matching the route the server serves them from.
type DiskStore struct {
	folder string
}

// NewDiskStore creates the uploads folder if needed and returns a store
// writing into it.
func NewDiskStore(folder string) (*DiskStore, error) {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return nil, errors.Wrap(err, "failed to resolve uploads folder")
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create uploads folder")
	}
	return &DiskStore{folder: abs}, nil
}

func (ds *DiskStore) Put(originalName string, r io.Reader) (string, error) {
	name := uniqueName(originalName)

	dst, err := os.Create(filepath.Join(ds.folder, name))
	if err != nil {
		return "", errors.Wrap(UploadFailedErr, err.Error())
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		_ = os.Remove(dst.Name())
		return "", errors.Wrap(UploadFailedErr, err.Error())
	}

	return "uploads/" + name, nil
}

// Folder returns the absolute path uploads are written to, for static serving.
func (ds *DiskStore) Folder() string {
	return ds.folder
}
