// Package app assembles the sitemap components from configuration.
package app

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/romangod6/catalog-sitemap/config"
	"github.com/romangod6/catalog-sitemap/internal/artifact"
	"github.com/romangod6/catalog-sitemap/internal/ckan"
	"github.com/romangod6/catalog-sitemap/internal/routes"
	"github.com/romangod6/catalog-sitemap/internal/search"
	"github.com/romangod6/catalog-sitemap/internal/sitemap"
	"github.com/romangod6/catalog-sitemap/internal/storage"
	"github.com/romangod6/catalog-sitemap/internal/utils"
)

const ckanTimeout = 60 * time.Second

type App struct {
	Config     *config.Config
	Logger     *utils.LevelLogger
	Searcher   search.Searcher
	Artifacts  artifact.Store
	URLs       *routes.Generator
	Builder    *sitemap.Builder
	Controller *sitemap.Controller

	closers []io.Closer
}

// New wires the search backend, artifact store, builder and controller
// described by cfg. component names the log file when log.dir is set.
func New(cfg *config.Config, component string) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &App{Config: cfg}
	logger, err := NewLogger(cfg, component)
	if err != nil {
		return nil, err
	}
	a.Logger = logger
	a.closers = append(a.closers, logger)

	if err := a.init(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) init() error {
	cfg := a.Config

	urls, err := routes.NewGenerator(cfg.Site.URL, cfg.Routes.RouteOverrides())
	if err != nil {
		return err
	}
	a.URLs = urls

	searcher, err := a.openSearcher()
	if err != nil {
		return err
	}
	a.Searcher = searcher

	artifacts, err := a.openArtifacts()
	if err != nil {
		return err
	}
	a.Artifacts = artifacts

	a.Builder = sitemap.NewBuilder(a.Searcher, a.URLs, sitemap.BuilderConfig{
		PageSize: cfg.Search.PageSize,
		MaxPages: cfg.Search.MaxPages,
		User:     cfg.Search.User,
	}, a.Logger)
	a.Controller = sitemap.NewController(a.Artifacts, a.Builder,
		sitemap.WithMaxAge(cfg.Sitemap.MaxAge),
		sitemap.WithBuildTimeout(cfg.Sitemap.BuildTimeout),
		sitemap.WithLogger(a.Logger),
	)
	return nil
}

func (a *App) openSearcher() (search.Searcher, error) {
	cfg := a.Config
	if cfg.Search.Backend == "ckan" {
		a.Logger.LogInfo("Searching datasets through CKAN at %s", cfg.CKAN.URL)
		return NewCKANClient(cfg.CKAN.URL, cfg.CKAN.APIToken), nil
	}

	store, err := OpenCatalog(cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store)
	a.Logger.LogInfo("Searching datasets in the local %s catalog", cfg.DatabaseDriver())
	return store, nil
}

func (a *App) openArtifacts() (artifact.Store, error) {
	cfg := a.Config
	switch cfg.Sitemap.Store {
	case "memory":
		return artifact.NewMemoryStore(), nil
	case "leveldb":
		store, err := artifact.NewLevelDBStore(filepath.Join(cfg.Sitemap.Dir, "sitemap.ldb"))
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, store)
		return store, nil
	default:
		return artifact.NewDirStore(cfg.Sitemap.Dir)
	}
}

// Close releases the stores and the log file in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// NewLogger logs to stdout, and additionally to a file under log.dir when
// it is set.
func NewLogger(cfg *config.Config, component string) (*utils.LevelLogger, error) {
	if cfg.Log.Dir == "" {
		return utils.NewLogger(os.Stdout, cfg.Log.Debug), nil
	}
	logger, err := utils.NewFileLogger(cfg.Log.Dir, component, cfg.Log.Debug)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return logger, nil
}

// OpenCatalog opens the local package store named by the configuration.
func OpenCatalog(cfg *config.Config) (storage.Store, error) {
	return storage.Open(cfg.DatabaseDriver(), cfg.Database.URL)
}

func NewCKANClient(baseURL, token string) *ckan.Client {
	return ckan.NewClient(baseURL,
		ckan.WithAPIToken(token),
		ckan.WithHTTPClient(&http.Client{Timeout: ckanTimeout}),
	)
}
