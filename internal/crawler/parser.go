package crawler

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// PageInfo holds what the link check reads from a catalog page.
type PageInfo struct {
	Title     string
	Canonical string
	NoIndex   bool
}

// ParsePage extracts the title, canonical link and robots directives from
// an HTML document.
func ParsePage(body []byte) (*PageInfo, error) {
	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("error parsing HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	info := &PageInfo{
		Title: collapseSpace(doc.Find("title").First().Text()),
	}
	if info.Title == "" {
		info.Title = collapseSpace(doc.Find("h1").First().Text())
	}

	doc.Find("link[rel='canonical']").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if href, ok := s.Attr("href"); ok {
			info.Canonical = strings.TrimSpace(href)
			return false
		}
		return true
	})

	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		if !strings.EqualFold(name, "robots") {
			return
		}
		if content, ok := s.Attr("content"); ok && hasNoIndex(content) {
			info.NoIndex = true
		}
	})

	return info, nil
}

// hasNoIndex reports whether a robots directive list contains noindex or
// none.
func hasNoIndex(directives string) bool {
	for _, d := range strings.Split(directives, ",") {
		switch strings.ToLower(strings.TrimSpace(d)) {
		case "noindex", "none":
			return true
		}
	}
	return false
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
