package media

import (
	"errors"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"

	"github.com/weddingshare/weddingshare_server/internal/metrics"
)

type Endpoints struct {
	service *Service
}

func NewEndpoints(service *Service) *Endpoints {
	return &Endpoints{
		service: service,
	}
}

func (e *Endpoints) List(ctx *fasthttp.RequestCtx) {
	descriptors, err := e.service.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error reading media directory")
		writeError(ctx, "Error reading media directory", fasthttp.StatusInternalServerError)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, descriptors)
}

func (e *Endpoints) Upload(ctx *fasthttp.RequestCtx) {
	form, err := ctx.MultipartForm()
	if err != nil {
		if errors.Is(err, fasthttp.ErrNoMultipartForm) {
			metrics.UploadRejected("no_file")
			writeError(ctx, "No file uploaded", fasthttp.StatusBadRequest)
			return
		}
		log.Warn().Err(err).Msg("Failed to parse multipart form")
		writeError(ctx, "Failed to parse multipart form", fasthttp.StatusBadRequest)
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		metrics.UploadRejected("no_file")
		writeError(ctx, "No file uploaded", fasthttp.StatusBadRequest)
		return
	}

	fileHeader := files[0]
	req := &UploadRequest{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		SizeBytes:   fileHeader.Size,
	}

	if _, err := AcceptContentType(req.ContentType); err != nil {
		metrics.UploadRejected("unsupported_type")
		writeError(ctx, MessageUnsupportedType, fasthttp.StatusBadRequest)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		writeError(ctx, "Error uploading file", fasthttp.StatusInternalServerError)
		return
	}
	defer file.Close()

	stored, err := e.service.Upload(ctx, req, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrTooLarge):
			metrics.UploadRejected("too_large")
			writeError(ctx, "File too large", fasthttp.StatusRequestEntityTooLarge)
		case errors.Is(err, ErrUnsupportedType):
			metrics.UploadRejected("unsupported_type")
			writeError(ctx, MessageUnsupportedType, fasthttp.StatusBadRequest)
		default:
			log.Error().Err(err).Msg("Error uploading file")
			metrics.UploadRejected("storage_error")
			writeError(ctx, "Error uploading file", fasthttp.StatusInternalServerError)
		}
		return
	}

	metrics.UploadAccepted(string(stored.Type), stored.Size)
	writeJSON(ctx, fasthttp.StatusOK, stored)
}

func (e *Endpoints) GetFile(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("mediaID").(string)

	reader, info, err := e.service.Open(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) {
			ctx.Error("Not Found", fasthttp.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("id", id).Msg("Failed to open media file")
		ctx.Error("Failed to retrieve file", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType(ContentTypeFor(id))
	ctx.Response.Header.Set("Cache-Control", "public, max-age=31536000, immutable")
	ctx.SetStatusCode(fasthttp.StatusOK)
	// fasthttp closes the reader once the body has been written.
	ctx.SetBodyStream(reader, int(info.Size))
}

func (e *Endpoints) GetThumbnail(ctx *fasthttp.RequestCtx) {
	id, _ := ctx.UserValue("mediaID").(string)

	thumb, err := e.service.Thumbnail(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidID) || errors.Is(err, ErrNoThumbnail) {
			ctx.Error("Thumbnail not available", fasthttp.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("id", id).Msg("Failed to render thumbnail")
		ctx.Error("Failed to render thumbnail", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetContentType("image/jpeg")
	ctx.Response.Header.Set("Cache-Control", "public, max-age=86400")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(thumb)
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, message string, status int) {
	writeJSON(ctx, status, ErrorResponse{Error: message})
}
