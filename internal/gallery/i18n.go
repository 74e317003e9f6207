package gallery

import (
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	KeyWeddingTitle      = "common.weddingTitle"
	KeyNavHome           = "nav.home"
	KeyNavGallery        = "nav.gallery"
	KeyGalleryTitle      = "gallery.title"
	KeyGalleryLoading    = "gallery.loading"
	KeyGalleryEmpty      = "gallery.empty"
	KeyGalleryLoadFailed = "gallery.loadFailed"
	KeyUploadTitle       = "upload.title"
	KeyUploadProgress    = "upload.progress"
	KeyUploadDone        = "upload.done"
	KeyUploadFailed      = "upload.failed"
	KeyUploadUnsupported = "upload.unsupportedType"
	KeyUploadTooLarge    = "upload.tooLarge"
	KeyMediaImage        = "media.image"
	KeyMediaVideo        = "media.video"
)

var supported = []language.Tag{language.English, language.Turkish}

var messages = map[language.Tag]map[string]string{
	language.English: {
		KeyWeddingTitle:      "Our Wedding",
		KeyNavHome:           "Upload",
		KeyNavGallery:        "Gallery",
		KeyGalleryTitle:      "Wedding Gallery",
		KeyGalleryLoading:    "Loading photos...",
		KeyGalleryEmpty:      "No photos or videos yet. Be the first to share!",
		KeyGalleryLoadFailed: "Could not load the gallery. Please try again later.",
		KeyUploadTitle:       "Share your photos and videos",
		KeyUploadProgress:    "%s: %d%%",
		KeyUploadDone:        "%s uploaded",
		KeyUploadFailed:      "%s could not be uploaded",
		KeyUploadUnsupported: "%s is not a photo or video",
		KeyUploadTooLarge:    "%s is too large",
		KeyMediaImage:        "photo",
		KeyMediaVideo:        "video",
	},
	language.Turkish: {
		KeyWeddingTitle:      "Düğünümüz",
		KeyNavHome:           "Yükle",
		KeyNavGallery:        "Galeri",
		KeyGalleryTitle:      "Düğün Galerisi",
		KeyGalleryLoading:    "Fotoğraflar yükleniyor...",
		KeyGalleryEmpty:      "Henüz fotoğraf veya video yok. İlk paylaşan siz olun!",
		KeyGalleryLoadFailed: "Galeri yüklenemedi. Lütfen daha sonra tekrar deneyin.",
		KeyUploadTitle:       "Fotoğraf ve videolarınızı paylaşın",
		KeyUploadProgress:    "%s: %%%d",
		KeyUploadDone:        "%s yüklendi",
		KeyUploadFailed:      "%s yüklenemedi",
		KeyUploadUnsupported: "%s bir fotoğraf veya video değil",
		KeyUploadTooLarge:    "%s çok büyük",
		KeyMediaImage:        "fotoğraf",
		KeyMediaVideo:        "video",
	},
}

var (
	messageCatalog = buildCatalog()
	matcher        = language.NewMatcher(supported)
)

func buildCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, entries := range messages {
		for key, msg := range entries {
			// keys are static and messages are plain format strings
			_ = builder.SetString(tag, key, msg)
		}
	}
	return builder
}

// Translator renders catalog messages in the active language. It is safe
// for concurrent use.
type Translator struct {
	mu      sync.RWMutex
	tag     language.Tag
	printer *message.Printer
}

// NewTranslator picks English or Turkish for a preference such as the
// value of $LANG ("tr_TR.UTF-8") or a BCP 47 tag ("tr").
func NewTranslator(preferred string) *Translator {
	t := &Translator{}
	t.set(Match(preferred))
	return t
}

func Match(preferred string) language.Tag {
	clean := strings.TrimSpace(preferred)
	if i := strings.IndexAny(clean, ".@"); i >= 0 {
		clean = clean[:i]
	}
	clean = strings.ReplaceAll(clean, "_", "-")

	tag, _, _ := matcher.Match(language.Make(clean))
	base, _ := tag.Base()
	for _, s := range supported {
		if b, _ := s.Base(); b == base {
			return s
		}
	}
	return language.English
}

func (t *Translator) set(tag language.Tag) {
	t.tag = tag
	t.printer = message.NewPrinter(tag, message.Catalog(messageCatalog))
}

func (t *Translator) Language() language.Tag {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.tag
}

func (t *Translator) SetLanguage(preferred string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.set(Match(preferred))
}

// Toggle switches between English and Turkish and returns the new language.
func (t *Translator) Toggle() language.Tag {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.tag == language.English {
		t.set(language.Turkish)
	} else {
		t.set(language.English)
	}
	return t.tag
}

func (t *Translator) T(key string, args ...any) string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.printer.Sprintf(key, args...)
}
