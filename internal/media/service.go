package media

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp"
)

const (
	defaultMaxFileSize = 500 * 1024 * 1024

	maxThumbnailWidth  = 300
	maxThumbnailHeight = 300
)

type Service struct {
	backend     Backend
	names       *NameGenerator
	maxFileSize int64
}

func NewService(backend Backend, maxFileSize int64) *Service {
	if maxFileSize <= 0 {
		maxFileSize = defaultMaxFileSize
	}
	return &Service{
		backend:     backend,
		names:       NewNameGenerator(),
		maxFileSize: maxFileSize,
	}
}

func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// List returns a descriptor for every stored file on the image or video
// allow-list. Other files are skipped.
func (s *Service) List(ctx context.Context) ([]Descriptor, error) {
	objects, err := s.backend.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read media directory: %w", err)
	}

	descriptors := make([]Descriptor, 0, len(objects))
	for _, obj := range objects {
		mediaType, ok := ClassifyName(obj.Name)
		if !ok {
			continue
		}
		descriptors = append(descriptors, Descriptor{
			ID:        obj.Name,
			Type:      mediaType,
			URL:       mediaURL(obj.Name),
			Title:     obj.Name,
			Size:      obj.Size,
			CreatedAt: obj.CreatedAt,
		})
	}
	return descriptors, nil
}

func (s *Service) Upload(ctx context.Context, req *UploadRequest, data io.Reader) (*Descriptor, error) {
	contentType, err := AcceptContentType(req.ContentType)
	if err != nil {
		return nil, err
	}

	if req.SizeBytes > s.maxFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrTooLarge, req.SizeBytes, s.maxFileSize)
	}

	id := s.names.Generate(req.Filename)
	limited := &limitedReader{r: data, remaining: s.maxFileSize}
	if err := s.backend.Store(ctx, id, limited); err != nil {
		return nil, fmt.Errorf("failed to store file: %w", err)
	}

	info, err := s.backend.Stat(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to stat stored file: %w", err)
	}

	log.Info().
		Str("id", id).
		Str("title", req.Filename).
		Str("contentType", contentType).
		Int64("size", info.Size).
		Msg("Stored media file")

	return &Descriptor{
		ID:        id,
		Type:      typeFor(id, contentType),
		URL:       mediaURL(id),
		Title:     req.Filename,
		Size:      info.Size,
		CreatedAt: info.CreatedAt,
	}, nil
}

func (s *Service) Open(ctx context.Context, id string) (io.ReadCloser, *ObjectInfo, error) {
	if !validID(id) {
		return nil, nil, fmt.Errorf("%w: %q", ErrInvalidID, id)
	}

	info, err := s.backend.Stat(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.backend.Open(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return reader, info, nil
}

// Thumbnail renders a JPEG preview of an image. Nothing is written to the
// store, so listings never see thumbnails.
func (s *Service) Thumbnail(ctx context.Context, id string) ([]byte, error) {
	if mediaType, ok := ClassifyName(id); !ok || mediaType != TypeImage {
		return nil, fmt.Errorf("%w: %s", ErrNoThumbnail, id)
	}

	reader, _, err := s.Open(ctx, id)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	img, err := imaging.Decode(reader, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to decode image: %v", ErrNoThumbnail, err)
	}

	thumb := imaging.Fit(img, maxThumbnailWidth, maxThumbnailHeight, imaging.Lanczos)

	var thumbBuf bytes.Buffer
	if err := imaging.Encode(&thumbBuf, thumb, imaging.JPEG, imaging.JPEGQuality(80)); err != nil {
		return nil, fmt.Errorf("failed to encode thumbnail: %w", err)
	}
	return thumbBuf.Bytes(), nil
}

func (s *Service) Stats(ctx context.Context) (*StoreStats, error) {
	descriptors, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	stats := &StoreStats{}
	for _, d := range descriptors {
		switch d.Type {
		case TypeImage:
			stats.Images++
		case TypeVideo:
			stats.Videos++
		}
		stats.TotalBytes += d.Size
	}
	return stats, nil
}

// limitedReader fails with ErrTooLarge once more than remaining bytes
// have been read.
type limitedReader struct {
	r         io.Reader
	remaining int64
}

func (l *limitedReader) Read(p []byte) (int, error) {
	n, err := l.r.Read(p)
	l.remaining -= int64(n)
	if l.remaining < 0 {
		return n, fmt.Errorf("%w: exceeds limit", ErrTooLarge)
	}
	return n, err
}
