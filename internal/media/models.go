package media

import "time"

type Type string

const (
	TypeImage Type = "image"
	TypeVideo Type = "video"
)

// Descriptor is the JSON shape returned by the list and upload endpoints.
type Descriptor struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"createdAt"`
}

type ObjectInfo struct {
	Name      string
	Size      int64
	CreatedAt time.Time
}

type UploadRequest struct {
	Filename    string
	ContentType string
	SizeBytes   int64
}

type StoreStats struct {
	Images     int   `json:"images"`
	Videos     int   `json:"videos"`
	TotalBytes int64 `json:"totalBytes"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

const URLPrefix = "/api/media/"

// MessageUnsupportedType is the error body for a rejected content type.
const MessageUnsupportedType = "Only images and videos are allowed!"

func mediaURL(id string) string {
	return URLPrefix + id
}
