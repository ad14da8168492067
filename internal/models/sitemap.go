// internal/models/sitemap.go
package models

import "encoding/xml"

const (
	SitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLNS   = "http://www.w3.org/1999/xhtml"
)

// URLSet represents the structure of an XML sitemap.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr,omitempty"`
	XHTML   string   `xml:"xmlns:xhtml,attr,omitempty"`
	URLs    []URL    `xml:"url"`
}

// URL represents a single URL entry in the sitemap.
type URL struct {
	Loc     string `xml:"loc"`
	LastMod string `xml:"lastmod,omitempty"`
}

// NewURLSet returns an empty document with both namespaces declared.
func NewURLSet() *URLSet {
	return &URLSet{
		Xmlns: SitemapNS,
		XHTML: XHTMLNS,
	}
}

// Add appends a url entry. An empty lastMod is omitted from the output.
func (s *URLSet) Add(loc, lastMod string) {
	s.URLs = append(s.URLs, URL{Loc: loc, LastMod: lastMod})
}
