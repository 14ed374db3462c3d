package blob

import (
	"fmt"
	"io"

	aws3 "github.com/aws/aws-sdk-go/service/s3"
	"github.com/casdoor/oss/s3"
	"github.com/pkg/errors"
)

var _ Store = (*RemoteStore)(nil)

// RemoteStore pushes uploads to an S3-compatible object store. Objects are
// written world-readable and the locator is their public URL.
type RemoteStore struct {
	client *s3.Client
}

// RemoteConfig holds the credentials parsed from the storage connection string.
type RemoteConfig struct {
	AccessID string
	Secret   string
	Region   string
	Bucket   string
}

// NewRemoteStore creates a store backed by the configured bucket.
func NewRemoteStore(cfg RemoteConfig) *RemoteStore {
	client := s3.New(&s3.Config{
		AccessID:  cfg.AccessID,
		AccessKey: cfg.Secret,
		Region:    cfg.Region,
		Bucket:    cfg.Bucket,
		ACL:       aws3.BucketCannedACLPublicRead,
	})
	return &RemoteStore{client: client}
}

func (rs *RemoteStore) Put(originalName string, r io.Reader) (string, error) {
	name := uniqueName(originalName)

	object, err := rs.client.Put(name, r)
	if err != nil {
		return "", errors.Wrap(UploadFailedErr, err.Error())
	}

	return fmt.Sprintf("https://%s/%s", rs.client.GetEndpoint(), object.Path), nil
}
