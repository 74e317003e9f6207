package gallery

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/weddingshare/weddingshare_server/internal/media"
)

type Lister interface {
	List(ctx context.Context) ([]media.Descriptor, error)
}

// Gallery is the client-side copy of the media list. It is seeded by one
// Load and afterwards only grows through Prepend; it is never reconciled
// with the server, so uploads from other guests stay invisible until the
// next Load.
type Gallery struct {
	mu         sync.RWMutex
	items      []media.Descriptor
	loading    bool
	err        string
	translator *Translator
}

func NewGallery(translator *Translator) *Gallery {
	return &Gallery{
		loading:    true,
		translator: translator,
	}
}

func (g *Gallery) Load(ctx context.Context, lister Lister) error {
	g.mu.Lock()
	g.loading = true
	g.err = ""
	g.mu.Unlock()

	items, err := lister.List(ctx)

	g.mu.Lock()
	defer g.mu.Unlock()
	g.loading = false
	if err != nil {
		log.Error().Err(err).Msg("Error fetching media")
		g.err = g.translator.T(KeyGalleryLoadFailed)
		return err
	}
	g.items = append([]media.Descriptor(nil), items...)
	return nil
}

func (g *Gallery) Prepend(d media.Descriptor) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.items = append([]media.Descriptor{d}, g.items...)
}

// Items returns the gallery newest first. Sorting happens on every call;
// the stored order is insertion order.
func (g *Gallery) Items() []media.Descriptor {
	g.mu.RLock()
	items := append([]media.Descriptor(nil), g.items...)
	g.mu.RUnlock()

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items
}

func (g *Gallery) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.items)
}

func (g *Gallery) Loading() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.loading
}

// Err is a display-only message for the last failed Load.
func (g *Gallery) Err() string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.err
}
