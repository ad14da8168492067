package storage

import (
	"context"
	"fmt"

	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/search"
)

// Store is a local catalog of packages. Every Store is also a search
// backend; Query.User is ignored because local stores carry no ACLs.
type Store interface {
	search.Searcher

	Initialize() error
	Close() error

	UpsertPackage(ctx context.Context, pkg *models.Package) error
	CountPackages(ctx context.Context) (int, error)
}

// Open returns the store for driver ("sqlite" or "postgres") with its
// tables created.
func Open(driver, dsn string) (Store, error) {
	var (
		store Store
		err   error
	)
	switch driver {
	case "sqlite", "sqlite3":
		store, err = NewSQLiteStore(dsn)
	case "postgres", "postgresql":
		store, err = NewPostgresStore(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, err
	}

	if err := store.Initialize(); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize database tables: %w", err)
	}
	return store, nil
}

// textFilter returns the LIKE pattern for q, or "" when q matches all.
func textFilter(q string) string {
	if q == "" || q == search.MatchAll {
		return ""
	}
	return "%" + q + "%"
}
