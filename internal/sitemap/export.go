package sitemap

import (
	"fmt"
	"time"

	rxsitemap "go.rumenx.com/sitemap"

	"github.com/romangod6/catalog-sitemap/internal/models"
)

// Export formats understood by Export.
const (
	FormatTXT  = "txt"
	FormatHTML = "html"
	FormatJSON = "json"
)

var lastModLayouts = []string{
	time.RFC3339Nano,
	models.CKANTimeLayout,
	"2006-01-02",
}

// Export renders doc in an alternate format for operators. lastmod values
// that do not parse are dropped from the output; doc itself is untouched.
func Export(doc *models.URLSet, format string) ([]byte, error) {
	sm := rxsitemap.NewWithOptions(&rxsitemap.Options{
		MaxURLs:     len(doc.URLs) + 1,
		PreAllocate: true,
	})
	for _, u := range doc.URLs {
		if err := sm.AddItem(rxsitemap.Item{
			URL:     u.Loc,
			LastMod: parseLastMod(u.LastMod),
		}); err != nil {
			return nil, fmt.Errorf("export %s: %w", u.Loc, err)
		}
	}

	switch format {
	case FormatTXT:
		return sm.TXT()
	case FormatHTML:
		return sm.HTML()
	case FormatJSON:
		return sm.JSON()
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

func parseLastMod(v string) time.Time {
	if v == "" {
		return time.Time{}
	}
	for _, layout := range lastModLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}
