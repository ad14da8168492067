// Package sitemap builds the catalog sitemap and decides when the cached
// copy must be regenerated.
package sitemap

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"

	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/routes"
	"github.com/romangod6/catalog-sitemap/internal/search"
	"github.com/romangod6/catalog-sitemap/internal/utils"
)

// StaticRoutes are listed first in every sitemap, in this order.
var StaticRoutes = []string{
	routes.HomeIndex,
	routes.DatasetSearch,
	routes.OrganizationIndex,
	routes.GroupIndex,
}

const datasetType = "dataset"

type BuilderConfig struct {
	PageSize int
	MaxPages int
	// User is passed to the search backend; empty for anonymous access.
	User string
}

type Builder struct {
	searcher search.Searcher
	urls     routes.URLGenerator
	cfg      BuilderConfig
	logger   utils.Logger
}

func NewBuilder(s search.Searcher, urls routes.URLGenerator, cfg BuilderConfig, logger utils.Logger) *Builder {
	if cfg.PageSize <= 0 {
		cfg.PageSize = search.DefaultPageSize
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = search.DefaultMaxPages
	}
	if logger == nil {
		logger = utils.Discard()
	}
	return &Builder{searcher: s, urls: urls, cfg: cfg, logger: logger}
}

// Build assembles the document: static routes, then one entry per public
// dataset followed by one per resource of that dataset.
func (b *Builder) Build(ctx context.Context) (*models.URLSet, error) {
	doc := models.NewURLSet()

	for _, name := range StaticRoutes {
		loc, err := b.urls.URL(name, nil)
		if err != nil {
			return nil, err
		}
		doc.Add(loc, "")
	}

	pager := search.NewPager(b.searcher, b.cfg.PageSize, b.cfg.MaxPages)
	pkgs, err := pager.All(ctx, search.Query{
		Q:              search.MatchAll,
		Type:           datasetType,
		IncludePrivate: false,
		User:           b.cfg.User,
	})
	if err != nil {
		return nil, fmt.Errorf("search datasets: %w", err)
	}
	b.logger.LogDebug("fetched %d datasets in %d page requests", len(pkgs), pager.Requests())

	site := b.urls.SiteURL()
	for _, pkg := range pkgs {
		path, err := b.urls.Path(routes.DatasetRead, map[string]string{"id": pkg.Name})
		if err != nil {
			return nil, fmt.Errorf("dataset %q: %w", pkg.Name, err)
		}
		doc.Add(site+path, pkg.MetadataModified)

		for _, res := range pkg.Resources {
			path, err := b.urls.Path(routes.ResourceRead, map[string]string{
				"id":          pkg.Name,
				"resource_id": res.ID,
			})
			if err != nil {
				return nil, fmt.Errorf("resource %q of %q: %w", res.ID, pkg.Name, err)
			}
			doc.Add(site+path, res.LastMod())
		}
	}

	return doc, nil
}

// BuildXML builds and serializes the document.
func (b *Builder) BuildXML(ctx context.Context) ([]byte, error) {
	doc, err := b.Build(ctx)
	if err != nil {
		return nil, err
	}
	return Marshal(doc)
}

// Marshal renders doc as indented UTF-8 XML with an XML declaration.
func Marshal(doc *models.URLSet) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(xml.Header)

	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Unmarshal parses a serialized sitemap.
func Unmarshal(b []byte) (*models.URLSet, error) {
	var doc models.URLSet
	if err := xml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse sitemap: %w", err)
	}
	return &doc, nil
}
