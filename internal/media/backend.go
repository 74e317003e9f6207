package media

import (
	"context"
	"io"
)

type Backend interface {
	Store(ctx context.Context, name string, reader io.Reader) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	Stat(ctx context.Context, name string) (*ObjectInfo, error)
	List(ctx context.Context) ([]ObjectInfo, error)
}

type StorageType string

const (
	StorageTypeLocal StorageType = "local"
	StorageTypeS3    StorageType = "s3"
)

type BackendConfig struct {
	Type        StorageType `mapstructure:"type"`
	LocalPath   string      `mapstructure:"local_path"`
	S3Endpoint  string      `mapstructure:"s3_endpoint"`
	S3Bucket    string      `mapstructure:"s3_bucket"`
	S3AccessKey string      `mapstructure:"s3_access_key"`
	S3SecretKey string      `mapstructure:"s3_secret_key"`
	S3Region    string      `mapstructure:"s3_region"`
	S3UseSSL    bool        `mapstructure:"s3_use_ssl"`
}

func NewBackend(config *BackendConfig) (Backend, error) {
	switch config.Type {
	case StorageTypeS3:
		return NewS3Storage(config)
	default:
		return NewLocalStorage(config)
	}
}
