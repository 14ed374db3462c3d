package config

import (
	"net/url"
	"strings"
)

// StorageConfig selects where uploaded cover images are persisted.
// Provider "filesystem" keeps files under the uploads folder; "s3" pushes them
// to an S3-compatible object store configured by a single connection string.
type StorageConfig interface {
	GetStorageProvider() string
	GetUploadsFolder() string
	GetStorageURL() string
}

type Storage struct{}

var _ StorageConfig = Storage{}

func (Storage) GetStorageProvider() string {
	return GetEnv("STORAGE_PROVIDER", "filesystem")
}

func (Storage) GetUploadsFolder() string {
	return GetEnv("UPLOADS_FOLDER", "./uploads")
}

func (Storage) GetStorageURL() string {
	return GetEnv("STORAGE_URL", "")
}

// StorageCredentials holds the pieces of a parsed storage connection string.
type StorageCredentials struct {
	AccessID string
	Secret   string
	Region   string
	Bucket   string
}

// ParseStorageURL splits a connection string of the form
// s3://<access-id>:<secret>@<region>/<bucket> into its credential parts.
func ParseStorageURL(raw string) (*StorageCredentials, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil || u.Host == "" {
		return nil, false
	}
	secret, _ := u.User.Password()
	bucket := strings.TrimPrefix(u.Path, "/")
	if u.User.Username() == "" || secret == "" || bucket == "" {
		return nil, false
	}
	return &StorageCredentials{
		AccessID: u.User.Username(),
		Secret:   secret,
		Region:   u.Host,
		Bucket:   bucket,
	}, true
}
