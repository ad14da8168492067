package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/romangod6/catalog-sitemap/internal/routes"
)

type Config struct {
	Server struct {
		Port int
	}
	Site struct {
		URL string
	}
	Database struct {
		Driver string
		URL    string
	}
	CKAN struct {
		URL      string
		APIToken string
	}
	Search struct {
		Backend  string
		PageSize int
		MaxPages int
		// User is the CKAN API token the sitemap searches as; empty for
		// anonymous access.
		User string
	}
	Sitemap struct {
		Store           string
		Dir             string
		MaxAge          time.Duration
		RefreshInterval time.Duration
		BuildTimeout    time.Duration
	}
	Routes  Routes
	Checker struct {
		UserAgent   string
		Parallelism int
		Timeout     time.Duration
	}
	Log struct {
		Dir   string
		Debug bool
	}
}

// Routes overrides the URL pattern of individual catalog pages. Empty
// fields keep the default pattern.
type Routes struct {
	Home          string
	DatasetSearch string
	Organizations string
	Groups        string
	DatasetRead   string
	ResourceRead  string
}

// RouteOverrides maps the configured patterns to route names.
func (r Routes) RouteOverrides() map[string]string {
	out := map[string]string{}
	for name, pattern := range map[string]string{
		routes.HomeIndex:         r.Home,
		routes.DatasetSearch:     r.DatasetSearch,
		routes.OrganizationIndex: r.Organizations,
		routes.GroupIndex:        r.Groups,
		routes.DatasetRead:       r.DatasetRead,
		routes.ResourceRead:      r.ResourceRead,
	} {
		if pattern != "" {
			out[name] = pattern
		}
	}
	return out
}

// LoadConfig reads config.yaml from . or ./config, then applies SITEMAP_*
// environment overrides.
func LoadConfig() (*Config, error) {
	return Load("")
}

// Load reads the config file at path, or searches the default locations
// when path is empty. A missing file is not an error; defaults and the
// environment still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SITEMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	config.Site.URL = strings.TrimRight(config.Site.URL, "/")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("site.url", "")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "catalog.db")

	v.SetDefault("ckan.url", "")
	v.SetDefault("ckan.apitoken", "")

	v.SetDefault("search.backend", "ckan")
	v.SetDefault("search.pagesize", 500)
	v.SetDefault("search.maxpages", 2000)
	v.SetDefault("search.user", "")

	v.SetDefault("sitemap.store", "dir")
	v.SetDefault("sitemap.dir", "./sitemap")
	v.SetDefault("sitemap.maxage", "8h")
	v.SetDefault("sitemap.refreshinterval", "0s")
	v.SetDefault("sitemap.buildtimeout", "0s")

	for _, key := range []string{"home", "datasetsearch", "organizations", "groups", "datasetread", "resourceread"} {
		v.SetDefault("routes."+key, "")
	}

	v.SetDefault("checker.useragent", "Catalog Sitemap Checker v1.0")
	v.SetDefault("checker.parallelism", 2)
	v.SetDefault("checker.timeout", "30s")

	v.SetDefault("log.dir", "")
	v.SetDefault("log.debug", false)
}

// Validate checks the settings every entry point depends on.
func (c *Config) Validate() error {
	if c.Site.URL == "" {
		return errors.New("site.url is required")
	}
	switch c.Search.Backend {
	case "ckan":
		if c.CKAN.URL == "" {
			return errors.New("ckan.url is required for the ckan search backend")
		}
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unknown search.backend %q", c.Search.Backend)
	}
	switch c.Sitemap.Store {
	case "dir", "leveldb", "memory":
	default:
		return fmt.Errorf("unknown sitemap.store %q", c.Sitemap.Store)
	}
	if c.Sitemap.MaxAge <= 0 {
		return errors.New("sitemap.maxage must be positive")
	}
	return nil
}

// DatabaseDriver is the storage driver backing the sqlite and postgres
// search backends.
func (c *Config) DatabaseDriver() string {
	if c.Search.Backend == "postgres" {
		return "postgres"
	}
	if c.Search.Backend == "sqlite" {
		return "sqlite"
	}
	return c.Database.Driver
}
