package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalStorage keeps every file flat in one directory.
type LocalStorage struct {
	basePath string
}

func NewLocalStorage(config *BackendConfig) (*LocalStorage, error) {
	basePath := config.LocalPath
	if basePath == "" {
		basePath = "./media"
	}
	basePath = filepath.Clean(basePath)

	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create media directory: %w", err)
	}

	probe, err := os.CreateTemp(basePath, ".probe-*")
	if err != nil {
		return nil, fmt.Errorf("media directory is not writable: %w", err)
	}
	probe.Close()
	os.Remove(probe.Name())

	return &LocalStorage{basePath: basePath}, nil
}

func (s *LocalStorage) Store(ctx context.Context, name string, reader io.Reader) error {
	fullPath := filepath.Join(s.basePath, name)

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		os.Remove(fullPath)
		return err
	}

	if err := file.Close(); err != nil {
		os.Remove(fullPath)
		return err
	}
	return nil
}

func (s *LocalStorage) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(s.basePath, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	return file, nil
}

func (s *LocalStorage) Stat(ctx context.Context, name string) (*ObjectInfo, error) {
	info, err := os.Stat(filepath.Join(s.basePath, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return &ObjectInfo{Name: name, Size: info.Size(), CreatedAt: info.ModTime()}, nil
}

// List stats every regular file in the directory. Any read or stat failure
// fails the whole listing.
func (s *LocalStorage) List(ctx context.Context) ([]ObjectInfo, error) {
	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, err
	}

	objects := make([]ObjectInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		if !info.Mode().IsRegular() {
			continue
		}
		objects = append(objects, ObjectInfo{
			Name:      entry.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}
	return objects, nil
}
