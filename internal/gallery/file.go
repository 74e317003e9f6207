package gallery

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/weddingshare/weddingshare_server/internal/media"
)

// File is one local file selected for upload.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

func FileFromPath(path string) (File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return File{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return File{}, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	return File{
		Name:        name,
		ContentType: media.ContentTypeFor(name),
		Size:        info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// IsMedia is the client-side type check run before anything is sent.
func (f File) IsMedia() bool {
	ct := strings.ToLower(f.ContentType)
	return strings.HasPrefix(ct, "image/") || strings.HasPrefix(ct, "video/")
}

type Progress struct {
	Sent  int64
	Total int64
}

func (p Progress) Percent() int {
	if p.Total <= 0 {
		return 0
	}
	if p.Sent >= p.Total {
		return 100
	}
	return int(p.Sent * 100 / p.Total)
}
