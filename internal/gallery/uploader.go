package gallery

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
	"golang.org/x/sync/errgroup"

	"github.com/weddingshare/weddingshare_server/internal/media"
)

type MediaUploader interface {
	Upload(ctx context.Context, file File, onProgress func(Progress)) (*media.Descriptor, error)
}

// UploadResult is the row shown for one selected file.
type UploadResult struct {
	File       File
	Descriptor *media.Descriptor
	Progress   Progress
	Err        error
	// Message is the localized inline error, empty on success.
	Message string
}

type Uploader struct {
	api        MediaUploader
	gallery    *Gallery
	translator *Translator
}

func NewUploader(api MediaUploader, gallery *Gallery, translator *Translator) *Uploader {
	return &Uploader{
		api:        api,
		gallery:    gallery,
		translator: translator,
	}
}

// UploadAll sends every file concurrently. Files fail independently and
// each success is prepended to the gallery as soon as it completes.
// onProgress may be called from several goroutines at once.
func (u *Uploader) UploadAll(ctx context.Context, files []File, onProgress func(index int, p Progress)) []UploadResult {
	results := make([]UploadResult, len(files))

	var group errgroup.Group
	for i, file := range files {
		results[i].File = file

		if !file.IsMedia() {
			results[i].Err = media.ErrUnsupportedType
			results[i].Message = u.translator.T(KeyUploadUnsupported, file.Name)
			continue
		}

		i, file := i, file
		group.Go(func() error {
			result := &results[i]
			descriptor, err := u.api.Upload(ctx, file, func(p Progress) {
				result.Progress = p
				if onProgress != nil {
					onProgress(i, p)
				}
			})
			if err != nil {
				log.Warn().Err(err).Str("file", file.Name).Msg("Upload failed")
				result.Err = err
				result.Message = u.failureMessage(file, err)
				return nil
			}

			result.Descriptor = descriptor
			result.Progress = Progress{Sent: file.Size, Total: file.Size}
			u.gallery.Prepend(*descriptor)
			return nil
		})
	}

	// goroutines never return errors; failures live in results
	_ = group.Wait()
	return results
}

func (u *Uploader) failureMessage(file File, err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case fasthttp.StatusRequestEntityTooLarge:
			return u.translator.T(KeyUploadTooLarge, file.Name)
		case fasthttp.StatusBadRequest:
			if apiErr.Message == media.MessageUnsupportedType {
				return u.translator.T(KeyUploadUnsupported, file.Name)
			}
		}
	}
	return u.translator.T(KeyUploadFailed, file.Name)
}
