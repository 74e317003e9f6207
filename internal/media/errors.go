package media

import "errors"

var (
	ErrUnsupportedType = errors.New("only images and videos are allowed")
	ErrTooLarge        = errors.New("file too large")
	ErrNotFound        = errors.New("media not found")
	ErrInvalidID       = errors.New("invalid media id")
	ErrNoThumbnail     = errors.New("no thumbnail available")
)
