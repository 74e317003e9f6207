package media

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"
)

const randomSuffixLimit = 1_000_000_000

// NameGenerator builds stored filenames of the form <epoch-ms>-<random><ext>.
type NameGenerator struct {
	now  func() time.Time
	intn func(int) int
}

func NewNameGenerator() *NameGenerator {
	return &NameGenerator{
		now:  time.Now,
		intn: rand.Intn,
	}
}

func (g *NameGenerator) Generate(originalName string) string {
	return fmt.Sprintf("%d-%d%s", g.now().UnixMilli(), g.intn(randomSuffixLimit), sanitizeExtension(originalName))
}

func sanitizeExtension(name string) string {
	ext := filepath.Ext(filepath.Base(name))
	if ext == "" {
		return ""
	}
	var b strings.Builder
	b.WriteByte('.')
	for _, r := range ext[1:] {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 1 {
		return ""
	}
	return b.String()
}

// validID reports whether id is a bare filename inside the store.
func validID(id string) bool {
	if id == "" || id == "." || id == ".." {
		return false
	}
	if strings.ContainsAny(id, `/\`) {
		return false
	}
	return filepath.Base(id) == id
}
