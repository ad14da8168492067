package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/romangod6/catalog-sitemap/internal/routes"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "site:\n  url: https://data.example.org/\n"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Site.URL != "https://data.example.org" {
		t.Errorf("site url = %q", cfg.Site.URL)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Search.PageSize != 500 || cfg.Search.MaxPages != 2000 {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.Sitemap.MaxAge != 8*time.Hour || cfg.Sitemap.RefreshInterval != 0 || cfg.Sitemap.BuildTimeout != 0 {
		t.Errorf("sitemap = %+v", cfg.Sitemap)
	}
	if cfg.Sitemap.Store != "dir" {
		t.Errorf("store = %q", cfg.Sitemap.Store)
	}
	if len(cfg.Routes.RouteOverrides()) != 0 {
		t.Errorf("expected no route overrides, got %v", cfg.Routes.RouteOverrides())
	}
}

func TestLoadFileAndEnvironment(t *testing.T) {
	path := writeConfig(t, `
site:
  url: https://data.example.org
search:
  backend: sqlite
  pagesize: 100
  user: reader-token
sitemap:
  store: leveldb
  maxage: 2h
  buildtimeout: 5m
routes:
  datasetread: /data/{id}
`)
	t.Setenv("SITEMAP_SITEMAP_MAXAGE", "30m")
	t.Setenv("SITEMAP_SERVER_PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Sitemap.MaxAge != 30*time.Minute {
		t.Errorf("env override ignored: maxage = %s", cfg.Sitemap.MaxAge)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Sitemap.BuildTimeout != 5*time.Minute {
		t.Errorf("buildtimeout = %s", cfg.Sitemap.BuildTimeout)
	}
	if cfg.Search.Backend != "sqlite" || cfg.Search.PageSize != 100 || cfg.Search.User != "reader-token" {
		t.Errorf("search = %+v", cfg.Search)
	}
	if cfg.DatabaseDriver() != "sqlite" {
		t.Errorf("driver = %q", cfg.DatabaseDriver())
	}
	overrides := cfg.Routes.RouteOverrides()
	if len(overrides) != 1 || overrides[routes.DatasetRead] != "/data/{id}" {
		t.Errorf("overrides = %v", overrides)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		c := &Config{}
		c.Site.URL = "https://data.example.org"
		c.Search.Backend = "ckan"
		c.CKAN.URL = "https://ckan.example.org"
		c.Sitemap.Store = "dir"
		c.Sitemap.MaxAge = time.Hour
		return c
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"valid", func(*Config) {}, true},
		{"missing site url", func(c *Config) { c.Site.URL = "" }, false},
		{"ckan without url", func(c *Config) { c.CKAN.URL = "" }, false},
		{"unknown backend", func(c *Config) { c.Search.Backend = "solr" }, false},
		{"unknown store", func(c *Config) { c.Sitemap.Store = "s3" }, false},
		{"zero max age", func(c *Config) { c.Sitemap.MaxAge = 0 }, false},
		{"postgres backend", func(c *Config) { c.Search.Backend = "postgres"; c.CKAN.URL = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			if err := c.Validate(); (err == nil) != tt.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tt.ok)
			}
		})
	}
}
