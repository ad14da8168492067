package crawler

import (
	"context"
	"fmt"

	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/search"
	"github.com/romangod6/catalog-sitemap/internal/utils"
)

// PackageWriter is the write side of the local catalog store.
type PackageWriter interface {
	UpsertPackage(ctx context.Context, pkg *models.Package) error
}

type MirrorConfig struct {
	PageSize int
	MaxPages int
}

// Mirror copies every public dataset visible through src into dst and
// returns the number of packages written. Packages or resources without an
// id get a fresh UUID.
func Mirror(ctx context.Context, src search.Searcher, dst PackageWriter, cfg MirrorConfig, logger utils.Logger) (int, error) {
	if logger == nil {
		logger = utils.Discard()
	}

	pager := search.NewPager(src, cfg.PageSize, cfg.MaxPages)
	pkgs, err := pager.All(ctx, search.Query{
		Q:    search.MatchAll,
		Type: "dataset",
	})
	if err != nil {
		return 0, fmt.Errorf("list remote datasets: %w", err)
	}
	logger.LogInfo("Mirroring %d datasets fetched in %d requests", len(pkgs), pager.Requests())

	written := 0
	for i := range pkgs {
		pkg := &pkgs[i]
		if pkg.Private {
			continue
		}
		pkg.EnsureIDs()
		if err := dst.UpsertPackage(ctx, pkg); err != nil {
			return written, fmt.Errorf("store dataset %q: %w", pkg.Name, err)
		}
		written++
		logger.LogDebug("mirrored %s (%d resources)", pkg.Name, len(pkg.Resources))
	}
	return written, nil
}
