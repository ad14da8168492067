// Package crawler walks a published sitemap: it checks that every listed
// page answers, and mirrors a remote catalog into the local store.
package crawler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/romangod6/catalog-sitemap/internal/models"
	"github.com/romangod6/catalog-sitemap/internal/utils"
)

const locKey = "loc"

type CheckerConfig struct {
	UserAgent   string
	Parallelism int
	Timeout     time.Duration
	// Sample limits the check to the first n entries; 0 checks all.
	Sample int
}

// PageResult is the outcome of fetching one sitemap entry. StatusCode is 0
// when the request never got a response.
type PageResult struct {
	Loc        string `json:"loc"`
	StatusCode int    `json:"status_code"`
	Title      string `json:"title,omitempty"`
	Canonical  string `json:"canonical,omitempty"`
	NoIndex    bool   `json:"noindex,omitempty"`
	Error      string `json:"error,omitempty"`
}

func (p PageResult) OK() bool {
	return p.Error == "" && p.StatusCode >= 200 && p.StatusCode < 300
}

// CanonicalMismatch reports a page that declares another URL as canonical.
func (p PageResult) CanonicalMismatch() bool {
	return p.Canonical != "" && p.Canonical != p.Loc
}

type Report struct {
	Checked   int          `json:"checked"`
	Failed    int          `json:"failed"`
	NoIndex   int          `json:"noindex"`
	Canonical int          `json:"canonical_mismatch"`
	Pages     []PageResult `json:"pages"`
}

type Checker struct {
	config CheckerConfig
	logger utils.Logger
}

func NewChecker(config CheckerConfig, logger utils.Logger) *Checker {
	if config.UserAgent == "" {
		config.UserAgent = "catalog-sitemap-checker/1.0"
	}
	if config.Parallelism <= 0 {
		config.Parallelism = 2
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = utils.Discard()
	}
	return &Checker{config: config, logger: logger}
}

// Check visits every distinct loc in doc and reports the result per page, in
// document order. Repeated locs are checked once. Visits not yet started
// when ctx is cancelled are skipped and the context error is returned with
// the partial report.
func (c *Checker) Check(ctx context.Context, doc *models.URLSet) (*Report, error) {
	urls := doc.URLs
	if c.config.Sample > 0 && c.config.Sample < len(urls) {
		urls = urls[:c.config.Sample]
	}

	collector := colly.NewCollector(
		colly.UserAgent(c.config.UserAgent),
		colly.Async(true),
	)
	collector.SetRequestTimeout(c.config.Timeout)
	if err := collector.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: c.config.Parallelism,
	}); err != nil {
		return nil, fmt.Errorf("configure collector: %w", err)
	}

	var mu sync.Mutex
	results := make(map[string]*PageResult, len(urls))
	record := func(r *PageResult) {
		mu.Lock()
		defer mu.Unlock()
		results[r.Loc] = r
	}

	collector.OnResponse(func(r *colly.Response) {
		res := &PageResult{Loc: r.Ctx.Get(locKey), StatusCode: r.StatusCode}
		if isHTML(r.Headers) {
			info, err := ParsePage(r.Body)
			if err != nil {
				res.Error = err.Error()
			} else {
				res.Title = info.Title
				res.NoIndex = info.NoIndex
				if info.Canonical != "" {
					res.Canonical = r.Request.AbsoluteURL(info.Canonical)
				}
			}
		}
		if r.Headers != nil && hasNoIndex(r.Headers.Get("X-Robots-Tag")) {
			res.NoIndex = true
		}
		c.logger.LogDebug("checked %s: %d %q", res.Loc, res.StatusCode, res.Title)
		record(res)
	})

	collector.OnError(func(r *colly.Response, err error) {
		res := &PageResult{Loc: r.Ctx.Get(locKey), StatusCode: r.StatusCode, Error: err.Error()}
		c.logger.LogError("Error visiting %s: %v", res.Loc, err)
		record(res)
	})

	var visitErr error
	queued := make(map[string]bool, len(urls))
	for idx, u := range urls {
		if err := ctx.Err(); err != nil {
			visitErr = err
			break
		}
		if queued[u.Loc] {
			continue
		}
		queued[u.Loc] = true
		c.logger.LogDebug("Processing URL %d/%d: %s", idx+1, len(urls), u.Loc)

		reqCtx := colly.NewContext()
		reqCtx.Put(locKey, u.Loc)
		if err := collector.Request(http.MethodGet, u.Loc, nil, reqCtx, nil); err != nil {
			// Invalid URLs and duplicates never reach OnError.
			record(&PageResult{Loc: u.Loc, Error: err.Error()})
		}
	}
	collector.Wait()

	report := &Report{Pages: make([]PageResult, 0, len(urls))}
	for _, u := range urls {
		res, ok := results[u.Loc]
		if !ok {
			continue
		}
		delete(results, u.Loc)
		report.Pages = append(report.Pages, *res)
		report.Checked++
		if !res.OK() {
			report.Failed++
		}
		if res.NoIndex {
			report.NoIndex++
		}
		if res.CanonicalMismatch() {
			report.Canonical++
		}
	}
	c.logger.LogInfo("Link check finished: %d checked, %d failed, %d noindex, %d canonical mismatches",
		report.Checked, report.Failed, report.NoIndex, report.Canonical)

	return report, visitErr
}

func isHTML(h *http.Header) bool {
	if h == nil {
		return false
	}
	ct := h.Get("Content-Type")
	return ct == "" || strings.Contains(ct, "html")
}
