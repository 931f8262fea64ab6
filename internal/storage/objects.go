package storage

import (
	"context"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"cryptidwatch/pkg/utils"
)

var allowedImageExts = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// ObjectStore uploads sighting photos into a bucket and hands back the
// opaque keys that sightings reference.
type ObjectStore struct {
	client *minio.Client
	bucket string
}

// NewObjectStore connects to the object store and makes sure the bucket
// exists.
func NewObjectStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*ObjectStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
	}

	return &ObjectStore{client: client, bucket: bucket}, nil
}

// Upload stores one photo and returns its generated object key. The key is
// a fresh UUID with the original extension so nothing user-controlled ends
// up in the path.
func (s *ObjectStore) Upload(ctx context.Context, filename string, size int64, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := allowedImageExts[ext]
	if !ok {
		return "", utils.ValidationError("Unsupported image type", "allowed extensions: jpg, jpeg, png, gif, webp")
	}

	key := uuid.New().String() + ext
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", utils.DependencyError("Photo upload failed").WithCause(err)
	}
	return key, nil
}
