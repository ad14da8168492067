package app

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/romangod6/catalog-sitemap/config"
	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/sitemap"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{}
	cfg.Site.URL = "https://data.example.org"
	cfg.Search.Backend = "sqlite"
	cfg.Database.URL = filepath.Join(dir, "catalog.db")
	cfg.Sitemap.Store = "dir"
	cfg.Sitemap.Dir = filepath.Join(dir, "sitemaps")
	cfg.Sitemap.MaxAge = time.Hour
	return cfg
}

func TestNewServesSitemapFromLocalCatalog(t *testing.T) {
	cfg := testConfig(t)

	catalog, err := OpenCatalog(cfg)
	if err != nil {
		t.Fatalf("OpenCatalog: %v", err)
	}
	pkg := &models.Package{
		Name:             "roads",
		Type:             "dataset",
		MetadataModified: "2024-01-02T03:04:05.000006",
		Resources:        []models.Resource{{Name: "csv", Created: "2024-01-02T03:04:05.000006"}},
	}
	if err := catalog.UpsertPackage(context.Background(), pkg); err != nil {
		t.Fatalf("UpsertPackage: %v", err)
	}
	catalog.Close()

	a, err := New(cfg, "test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	res, err := a.Controller.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if res.Outcome != sitemap.OutcomeCreated {
		t.Errorf("outcome = %q", res.Outcome)
	}
	doc, err := sitemap.Unmarshal(res.Body)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(doc.URLs) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(doc.URLs))
	}
	if !strings.HasPrefix(doc.URLs[5].Loc, "https://data.example.org/dataset/roads/resource/") {
		t.Errorf("unexpected resource loc %q", doc.URLs[5].Loc)
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sitemap.Store = "s3"
	if _, err := New(cfg, "test"); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewWithLevelDBStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Sitemap.Store = "leveldb"

	a, err := New(cfg, "test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := a.Controller.Resolve(context.Background()); err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	st, err := a.Controller.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.Artifact == nil || !st.Fresh {
		t.Errorf("expected a fresh artifact, got %+v", st)
	}
	if err := a.Close(); err != nil {
		t.Errorf("Close: %v", err)
	}
}
