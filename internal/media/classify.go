package media

import (
	"fmt"
	"mime"
	"path/filepath"
	"strings"
)

var imageExtensions = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
}

var videoExtensions = map[string]string{
	"mp4":  "video/mp4",
	"webm": "video/webm",
	"ogg":  "video/ogg",
}

func extension(name string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
}

// ClassifyName reports the media type of a stored file by its extension.
// Files outside both allow-lists are not media.
func ClassifyName(name string) (Type, bool) {
	ext := extension(name)
	if _, ok := videoExtensions[ext]; ok {
		return TypeVideo, true
	}
	if _, ok := imageExtensions[ext]; ok {
		return TypeImage, true
	}
	return "", false
}

func detectContentType(filename string) string {
	ext := extension(filename)
	if ct, ok := imageExtensions[ext]; ok {
		return ct
	}
	if ct, ok := videoExtensions[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// AcceptContentType is the upload filter. Only the declared type counts:
// it returns the normalized media type when it is image/* or video/*.
func AcceptContentType(declared string) (string, error) {
	clean := strings.TrimSpace(declared)
	mediaType, _, err := mime.ParseMediaType(clean)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, clean)
	}
	mediaType = strings.ToLower(mediaType)

	if strings.HasPrefix(mediaType, "image/") || strings.HasPrefix(mediaType, "video/") {
		return mediaType, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedType, mediaType)
}

// typeFor classifies an uploaded file, preferring the extension and
// falling back to the accepted content type.
func typeFor(name, contentType string) Type {
	if t, ok := ClassifyName(name); ok {
		return t
	}
	if strings.HasPrefix(contentType, "video/") {
		return TypeVideo
	}
	return TypeImage
}

// ContentTypeFor returns the MIME type served for a stored file.
func ContentTypeFor(name string) string {
	if ct := detectContentType(name); ct != "application/octet-stream" {
		return ct
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
