package media

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Storage keeps the flat store as top-level objects of a single bucket.
type S3Storage struct {
	client *minio.Client
	bucket string
}

func NewS3Storage(config *BackendConfig) (*S3Storage, error) {
	if config.S3Endpoint == "" || config.S3Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires an endpoint and a bucket")
	}

	client, err := minio.New(config.S3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.S3AccessKey, config.S3SecretKey, ""),
		Secure: config.S3UseSSL,
		Region: config.S3Region,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, config.S3Bucket)
	if err != nil {
		return nil, err
	}

	if !exists {
		if err := client.MakeBucket(ctx, config.S3Bucket, minio.MakeBucketOptions{Region: config.S3Region}); err != nil {
			return nil, err
		}
	}

	return &S3Storage{
		client: client,
		bucket: config.S3Bucket,
	}, nil
}

func (s *S3Storage) Store(ctx context.Context, name string, reader io.Reader) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, reader, -1, minio.PutObjectOptions{
		ContentType: ContentTypeFor(name),
	})
	return err
}

func (s *S3Storage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}

	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}

	return obj, nil
}

func (s *S3Storage) Stat(ctx context.Context, name string) (*ObjectInfo, error) {
	info, err := s.client.StatObject(ctx, s.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	return &ObjectInfo{Name: name, Size: info.Size, CreatedAt: info.LastModified}, nil
}

func (s *S3Storage) List(ctx context.Context) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		objects = append(objects, ObjectInfo{
			Name:      obj.Key,
			Size:      obj.Size,
			CreatedAt: obj.LastModified,
		})
	}
	return objects, nil
}
