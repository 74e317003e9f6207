package gallery

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/weddingshare/weddingshare_server/internal/media"
)

// Render writes the gallery page: a title and one row per item, newest
// first.
func Render(w io.Writer, g *Gallery, t *Translator, baseURL string) error {
	if _, err := fmt.Fprintf(w, "%s\n\n", t.T(KeyGalleryTitle)); err != nil {
		return err
	}

	switch {
	case g.Loading():
		_, err := fmt.Fprintln(w, t.T(KeyGalleryLoading))
		return err
	case g.Err() != "":
		_, err := fmt.Fprintln(w, g.Err())
		return err
	}

	items := g.Items()
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, t.T(KeyGalleryEmpty))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s%s\n",
			item.CreatedAt.Local().Format(time.DateTime),
			typeLabel(t, item.Type),
			humanize.Bytes(uint64(item.Size)),
			item.Title,
			baseURL,
			item.URL,
		)
	}
	return tw.Flush()
}

func typeLabel(t *Translator, mediaType media.Type) string {
	if mediaType == media.TypeVideo {
		return t.T(KeyMediaVideo)
	}
	return t.T(KeyMediaImage)
}
