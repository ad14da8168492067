// Package search defines the paginated catalog search contract and a pager
// that walks it to exhaustion.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/romangod6/catalog-sitemap/internal/models"
)

const (
	MatchAll        = "*:*"
	DefaultPageSize = 500
	DefaultMaxPages = 2000
)

// ErrPageLimit is returned when a backend keeps returning full pages past
// the configured page cap.
var ErrPageLimit = errors.New("search page limit reached")

// Query is one page request against the search backend.
type Query struct {
	Q              string
	Type           string
	IncludePrivate bool
	Start          int
	Rows           int
	// User scopes authorization on backends that support it. Empty means
	// anonymous.
	User string
}

// Result is a single page of search results. Count is the backend's total
// hit count when it reports one.
type Result struct {
	Count   int
	Results []models.Package
}

type Searcher interface {
	Search(ctx context.Context, q Query) (*Result, error)
}

// SearcherFunc adapts a function to Searcher.
type SearcherFunc func(ctx context.Context, q Query) (*Result, error)

func (f SearcherFunc) Search(ctx context.Context, q Query) (*Result, error) {
	return f(ctx, q)
}

// Pager fetches every page of a query. The end of data is signalled by a
// page shorter than PageSize.
type Pager struct {
	Searcher Searcher
	PageSize int
	MaxPages int

	requests int
}

func NewPager(s Searcher, pageSize, maxPages int) *Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if maxPages <= 0 {
		maxPages = DefaultMaxPages
	}
	return &Pager{Searcher: s, PageSize: pageSize, MaxPages: maxPages}
}

// Requests reports how many page requests the last All call issued.
func (p *Pager) Requests() int {
	return p.requests
}

// All runs q page by page and accumulates every result. q.Start and q.Rows
// are managed by the pager.
func (p *Pager) All(ctx context.Context, q Query) ([]models.Package, error) {
	p.requests = 0
	var out []models.Package

	for page := 0; ; page++ {
		if page >= p.MaxPages {
			return out, fmt.Errorf("%w: %d pages of %d rows", ErrPageLimit, p.MaxPages, p.PageSize)
		}
		if err := ctx.Err(); err != nil {
			return out, err
		}

		q.Start = page * p.PageSize
		q.Rows = p.PageSize
		res, err := p.Searcher.Search(ctx, q)
		p.requests++
		if err != nil {
			return out, fmt.Errorf("search page start=%d: %w", q.Start, err)
		}

		out = append(out, res.Results...)
		if len(res.Results) < p.PageSize {
			return out, nil
		}
	}
}
