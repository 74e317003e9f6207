package media

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyName(t *testing.T) {
	tests := []struct {
		name     string
		wantType Type
		wantOK   bool
	}{
		{"photo.jpg", TypeImage, true},
		{"photo.JPEG", TypeImage, true},
		{"scan.png", TypeImage, true},
		{"loop.gif", TypeImage, true},
		{"modern.webp", TypeImage, true},
		{"clip.mp4", TypeVideo, true},
		{"clip.WebM", TypeVideo, true},
		{"clip.ogg", TypeVideo, true},
		{"notes.txt", "", false},
		{"clip.mov", "", false},
		{"noextension", "", false},
		{".jpg.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotOK := ClassifyName(tt.name)
			assert.Equal(t, tt.wantType, gotType)
			assert.Equal(t, tt.wantOK, gotOK)
		})
	}
}

func TestAcceptContentType_ShouldAcceptAnyImageOrVideo(t *testing.T) {
	for _, declared := range []string{"image/png", "image/heic", "video/quicktime", "IMAGE/JPEG", "image/jpeg; charset=binary"} {
		got, err := AcceptContentType(declared)
		assert.NoError(t, err, declared)
		assert.NotEmpty(t, got)
	}
}

func TestAcceptContentType_ShouldRejectOtherTypes(t *testing.T) {
	for _, declared := range []string{"text/plain", "application/pdf", "audio/ogg", "not a mime type"} {
		_, err := AcceptContentType(declared)
		assert.True(t, errors.Is(err, ErrUnsupportedType), declared)
	}
}

func TestAcceptContentType_ShouldRejectMissingOrGenericDeclaration(t *testing.T) {
	// given an image or video named correctly but declared without a media type

	// when
	_, emptyErr := AcceptContentType("")
	_, octetErr := AcceptContentType("application/octet-stream")

	// then
	assert.ErrorIs(t, emptyErr, ErrUnsupportedType)
	assert.ErrorIs(t, octetErr, ErrUnsupportedType)
}

func TestTypeFor_ShouldPreferExtensionThenContentType(t *testing.T) {
	assert.Equal(t, TypeVideo, typeFor("1-2.mp4", "image/png"))
	assert.Equal(t, TypeVideo, typeFor("1-2.mov", "video/quicktime"))
	assert.Equal(t, TypeImage, typeFor("1-2.heic", "image/heic"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.JPG"))
	assert.Equal(t, "video/ogg", ContentTypeFor("a.ogg"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("a"))
}
