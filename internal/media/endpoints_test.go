package media

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func newTestEndpoints(t *testing.T) (*Endpoints, string) {
	t.Helper()
	service, dir := newTestService(t, 64)
	return NewEndpoints(service), dir
}

func newRequestCtx(method, uri string) *fasthttp.RequestCtx {
	var req fasthttp.Request
	req.Header.SetMethod(method)
	req.SetRequestURI(uri)
	ctx := &fasthttp.RequestCtx{}
	ctx.Init(&req, nil, nil)
	return ctx
}

func newUploadCtx(t *testing.T, field, filename, contentType string, content []byte) *fasthttp.RequestCtx {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if field != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, field, filename))
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField("caption", "no file here"))
	}
	require.NoError(t, writer.Close())

	ctx := newRequestCtx(fasthttp.MethodPost, "/api/media")
	ctx.Request.Header.SetContentType(writer.FormDataContentType())
	ctx.Request.SetBody(body.Bytes())
	return ctx
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) string {
	t.Helper()
	var response ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
	return response.Error
}

func TestEndpointsList_ShouldReturnJSONArray(t *testing.T) {
	// given
	endpoints, dir := newTestEndpoints(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "photo.jpg"), []byte("jpg"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("txt"), 0644))
	ctx := newRequestCtx(fasthttp.MethodGet, "/api/media")

	// when
	endpoints.List(ctx)

	// then
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
	var descriptors []Descriptor
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &descriptors))
	require.Len(t, descriptors, 1)
	assert.Equal(t, "photo.jpg", descriptors[0].ID)
}

func TestEndpointsList_EmptyStoreShouldReturnEmptyArray(t *testing.T) {
	endpoints, _ := newTestEndpoints(t)
	ctx := newRequestCtx(fasthttp.MethodGet, "/api/media")

	endpoints.List(ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "[]", string(ctx.Response.Body()))
}

func TestEndpointsList_UnreadableStoreShouldReturn500(t *testing.T) {
	// given
	endpoints, dir := newTestEndpoints(t)
	require.NoError(t, os.RemoveAll(dir))
	ctx := newRequestCtx(fasthttp.MethodGet, "/api/media")

	// when
	endpoints.List(ctx)

	// then
	assert.Equal(t, fasthttp.StatusInternalServerError, ctx.Response.StatusCode())
	assert.Equal(t, "Error reading media directory", decodeError(t, ctx))
}

func TestEndpointsUpload_ShouldStoreAndDescribe(t *testing.T) {
	// given
	endpoints, dir := newTestEndpoints(t)
	ctx := newUploadCtx(t, "file", "a.png", "image/png", []byte("0123456789"))

	// when
	endpoints.Upload(ctx)

	// then
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))
	var descriptor Descriptor
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &descriptor))
	assert.Equal(t, TypeImage, descriptor.Type)
	assert.Equal(t, int64(10), descriptor.Size)
	assert.Equal(t, "a.png", descriptor.Title)
	assert.FileExists(t, filepath.Join(dir, descriptor.ID))
}

func TestEndpointsUpload_MissingFileShouldReturn400(t *testing.T) {
	// given
	endpoints, dir := newTestEndpoints(t)
	ctx := newUploadCtx(t, "", "", "", nil)

	// when
	endpoints.Upload(ctx)

	// then
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, "No file uploaded", decodeError(t, ctx))
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestEndpointsUpload_NonMultipartShouldReturn400(t *testing.T) {
	// given
	endpoints, _ := newTestEndpoints(t)
	ctx := newRequestCtx(fasthttp.MethodPost, "/api/media")
	ctx.Request.Header.SetContentType("application/json")
	ctx.Request.SetBodyString(`{"file":"a.png"}`)

	// when
	endpoints.Upload(ctx)

	// then
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, "No file uploaded", decodeError(t, ctx))
}

func TestEndpointsUpload_TextPlainShouldBeRejectedBeforeWriting(t *testing.T) {
	// given
	endpoints, dir := newTestEndpoints(t)
	ctx := newUploadCtx(t, "file", "notes.txt", "text/plain", []byte("hello"))

	// when
	endpoints.Upload(ctx)

	// then
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, MessageUnsupportedType, decodeError(t, ctx))
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestEndpointsUpload_OctetStreamShouldBeRejectedBeforeWriting(t *testing.T) {
	// given a png declared as a generic binary
	endpoints, dir := newTestEndpoints(t)
	ctx := newUploadCtx(t, "file", "a.png", "application/octet-stream", []byte("0123456789"))

	// when
	endpoints.Upload(ctx)

	// then
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, MessageUnsupportedType, decodeError(t, ctx))
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestEndpointsUpload_OversizeShouldReturn413(t *testing.T) {
	// given
	endpoints, dir := newTestEndpoints(t)
	ctx := newUploadCtx(t, "file", "big.jpg", "image/jpeg", bytes.Repeat([]byte("x"), 65))

	// when
	endpoints.Upload(ctx)

	// then
	assert.Equal(t, fasthttp.StatusRequestEntityTooLarge, ctx.Response.StatusCode())
	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestEndpointsGetFile_ShouldStreamBytesWithContentType(t *testing.T) {
	// given
	endpoints, dir := newTestEndpoints(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "1-2.webm"), []byte("webm-bytes"), 0644))
	ctx := newRequestCtx(fasthttp.MethodGet, "/api/media/1-2.webm")
	ctx.SetUserValue("mediaID", "1-2.webm")

	// when
	endpoints.GetFile(ctx)

	// then
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "video/webm", string(ctx.Response.Header.ContentType()))
	assert.Equal(t, "webm-bytes", string(ctx.Response.Body()))
}

func TestEndpointsGetFile_ShouldReturn404(t *testing.T) {
	endpoints, _ := newTestEndpoints(t)

	for _, id := range []string{"missing.jpg", "..", ""} {
		ctx := newRequestCtx(fasthttp.MethodGet, "/api/media/"+id)
		ctx.SetUserValue("mediaID", id)

		endpoints.GetFile(ctx)

		assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode(), id)
	}
}

func TestEndpointsGetThumbnail(t *testing.T) {
	// given
	endpoints, dir := newTestEndpoints(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tiny.png"), pngBytes(t, 8, 8), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clip.mp4"), []byte("mp4"), 0644))

	image := newRequestCtx(fasthttp.MethodGet, "/api/media/tiny.png/thumb")
	image.SetUserValue("mediaID", "tiny.png")
	video := newRequestCtx(fasthttp.MethodGet, "/api/media/clip.mp4/thumb")
	video.SetUserValue("mediaID", "clip.mp4")

	// when
	endpoints.GetThumbnail(image)
	endpoints.GetThumbnail(video)

	// then
	assert.Equal(t, fasthttp.StatusOK, image.Response.StatusCode())
	assert.Equal(t, "image/jpeg", string(image.Response.Header.ContentType()))
	assert.NotEmpty(t, image.Response.Body())
	assert.Equal(t, fasthttp.StatusNotFound, video.Response.StatusCode())
}
